package llm

import (
	"strings"

	"github.com/syllabus-tools/syllabus-audit/constants"
)

// fieldGuidance gives the model a crisp definition per field so answers stay
// in the shape the local heuristics produce.
var fieldGuidance = map[string]string{
	constants.FieldCourse:   "Return the course code compacted (e.g. 'GBA5621') followed by ': ' and the course title. Example: 'GBA5621: Strategic Management'.",
	constants.FieldFaculty:  "Return the instructor's personal name only, no credentials, titles, or email addresses.",
	constants.FieldModality: "Return exactly one of: In-Person, Online, Hybrid, Synchronous, Asynchronous, Hybrid Synchronous, Hybrid Asynchronous.",
}

// BuildSystemPrompt composes the system message for a single-field inference.
func BuildSystemPrompt(field string) string {
	parts := []string{
		"You extract one specific fact from a course syllabus.",
		"Return ONLY JSON matching the provided JSON Schema.",
		"If the document does not state the fact, set \"value\" to \"unknown\".",
		"Never guess from general knowledge; use only the provided text.",
	}
	if g, ok := fieldGuidance[field]; ok {
		parts = append(parts, "Field rules: "+g)
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the field name, filename hint, and text excerpt.
func BuildUserPrompt(req InferRequest) string {
	var b strings.Builder
	b.WriteString("Field to extract: ")
	b.WriteString(req.Field)
	b.WriteString("\n")
	if req.Path != "" {
		b.WriteString("Filename: ")
		b.WriteString(req.Path)
		b.WriteString("\n")
	}
	b.WriteString("\nSyllabus text (leading excerpt):\n")
	b.WriteString(req.Excerpt)
	return b.String()
}
