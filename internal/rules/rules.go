// Package rules holds the keyword and pattern tables shared by the field
// detectors. The tables are read-only after Compile; detectors never mutate
// them. Defaults live here so the whole rule set is testable and tunable in
// one place instead of being scattered through detector logic.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syllabus-tools/syllabus-audit/constants"
)

// PresenceRule describes how an existence-only field is detected: any line
// matching one of the keywords or patterns inside the window counts as "Yes".
type PresenceRule struct {
	Keywords []string `yaml:"keywords"`
	Patterns []string `yaml:"patterns"`
	// Window limits the search to the first N normalized lines; 0 searches the
	// whole document. Structural metadata sits near the top of a syllabus,
	// grading and schedule sections can appear anywhere.
	Window int `yaml:"window"`

	compiled []*regexp.Regexp
}

// Ruleset is the full detection rule table.
type Ruleset struct {
	Presence map[string]*PresenceRule `yaml:"presence"`

	// ModalityPhrases is checked in order; compound phrases must come before
	// their substrings or "hybrid synchronous" would report as "hybrid".
	ModalityPhrases []ModalityPhrase `yaml:"modality_phrases"`

	// TitleStopwords disqualify a candidate course title line.
	TitleStopwords []string `yaml:"title_stopwords"`

	// FacultyLabels introduce an instructor name on the same line.
	FacultyLabels []string `yaml:"faculty_labels"`

	// Credentials are stripped from faculty name candidates.
	Credentials []string `yaml:"credentials"`

	// SessionPatterns identify lines describing one scheduled class meeting.
	SessionPatterns []string `yaml:"session_patterns"`

	// InPersonTokens mark a session line as a face-to-face meeting.
	InPersonTokens []string `yaml:"in_person_tokens"`

	// OnlineTokens mark a session line as remote; used only by the unnumbered
	// session fallback.
	OnlineTokens []string `yaml:"online_tokens"`

	// GradingKeywords flag a grade-disclosure line when paired with a percent
	// sign or "points" nearby.
	GradingKeywords []string `yaml:"grading_keywords"`

	sessionCompiled []*regexp.Regexp
	courseCode      *regexp.Regexp
}

// ModalityPhrase pairs a phrase to search for with the canonical label to
// report when it is found.
type ModalityPhrase struct {
	Phrase string `yaml:"phrase"`
	Label  string `yaml:"label"`
}

// Default returns the compiled built-in rule table.
func Default() *Ruleset {
	rs := defaultRuleset()
	if err := rs.Compile(); err != nil {
		// Built-in patterns are covered by tests; a bad default is a bug.
		panic(fmt.Sprintf("rules: compile defaults: %v", err))
	}
	return rs
}

func defaultRuleset() *Ruleset {
	return &Ruleset{
		Presence: map[string]*PresenceRule{
			constants.FieldOfficeHours: {
				Keywords: []string{"office hours", "office hour", "student hours", "drop-in hours"},
				Window:   0,
			},
			constants.FieldOfficeLocation: {
				Keywords: []string{"office location", "office:", "office -", "office room"},
				Patterns: []string{`(?i)\boffice\b.{0,20}\b(bldg|building|room|rm\.?)\s*\d`},
				Window:   0,
			},
			constants.FieldClassLocation: {
				Keywords: []string{"class location", "classroom", "meeting location", "location:"},
				Patterns: []string{`(?i)\b(bldg|building|room|rm\.?)\s*\d+`},
				Window:   40,
			},
			constants.FieldLearningOutcomes: {
				Keywords: []string{"learning outcomes", "learning objectives", "course objectives", "student learning outcomes", "slos"},
				Window:   0,
			},
			constants.FieldTextbook: {
				Keywords: []string{"textbook", "required text", "required reading", "course materials", "isbn"},
				Window:   0,
			},
			constants.FieldWeeklySchedule: {
				Keywords: []string{"course schedule", "weekly schedule", "course calendar", "tentative schedule", "class schedule"},
				Patterns: []string{`(?i)^\s*(week|session|module)\s*#?\s*\d{1,2}\b`},
				Window:   0,
			},
		},
		ModalityPhrases: []ModalityPhrase{
			{Phrase: "hybrid asynchronous", Label: "Hybrid Asynchronous"},
			{Phrase: "hybrid-asynchronous", Label: "Hybrid Asynchronous"},
			{Phrase: "hybrid synchronous", Label: "Hybrid Synchronous"},
			{Phrase: "hybrid-synchronous", Label: "Hybrid Synchronous"},
			{Phrase: "hybrid", Label: "Hybrid"},
			{Phrase: "in-person", Label: "In-Person"},
			{Phrase: "in person", Label: "In-Person"},
			{Phrase: "face-to-face", Label: "In-Person"},
			{Phrase: "face to face", Label: "In-Person"},
			{Phrase: "asynchronous", Label: "Asynchronous"},
			{Phrase: "synchronous", Label: "Synchronous"},
			{Phrase: "fully online", Label: "Online"},
			{Phrase: "online", Label: "Online"},
		},
		TitleStopwords: []string{
			"syllabus", "section", "semester", "course outline",
			"fall", "spring", "summer", "winter",
		},
		FacultyLabels: []string{"instructor", "professor", "faculty", "lecturer", "taught by"},
		Credentials: []string{
			"phd", "ph.d", "ph.d.", "mba", "m.b.a", "ed.d", "edd", "dba", "d.b.a",
			"cpa", "jd", "j.d", "ms", "m.s", "ma", "m.a",
		},
		SessionPatterns: []string{
			`(?i)^\s*(week|wk\.?)\s*#?\s*\d{1,2}\b`,
			`(?i)^\s*(session|class|meeting)\s*#?\s*\d{1,2}\b`,
			`(?i)^\s*module\s*#?\s*\d{1,2}\b`,
		},
		InPersonTokens: []string{"in-person", "in person", "face-to-face", "face to face", "f2f", "on campus", "on-campus"},
		OnlineTokens:   []string{"online", "zoom", "asynchronous", "remote", "virtual"},
		GradingKeywords: []string{"grading", "grade", "grades", "weight", "points", "evaluation", "assessment breakdown"},
	}
}

// Compile builds regex state from the pattern sources. Call once after
// constructing or loading a Ruleset; the table must not change afterwards.
func (rs *Ruleset) Compile() error {
	for field, pr := range rs.Presence {
		pr.compiled = pr.compiled[:0]
		for _, src := range pr.Patterns {
			re, err := regexp.Compile(src)
			if err != nil {
				return fmt.Errorf("presence %q: compile %q: %w", field, src, err)
			}
			pr.compiled = append(pr.compiled, re)
		}
	}
	rs.sessionCompiled = rs.sessionCompiled[:0]
	for _, src := range rs.SessionPatterns {
		re, err := regexp.Compile(src)
		if err != nil {
			return fmt.Errorf("session pattern: compile %q: %w", src, err)
		}
		rs.sessionCompiled = append(rs.sessionCompiled, re)
	}
	rs.courseCode = regexp.MustCompile(`\b([A-Z]{2,6})\s*[- ]?\s*(\d{3,4}[A-Z]?)\b`)
	return nil
}

// PresenceFor returns the presence rule for a field name, if one exists.
func (rs *Ruleset) PresenceFor(field string) (*PresenceRule, bool) {
	pr, ok := rs.Presence[field]
	return pr, ok
}

// MatchLine reports whether a single line satisfies the presence rule.
func (pr *PresenceRule) MatchLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range pr.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, re := range pr.compiled {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// IsSessionLine reports whether a line looks like one scheduled class meeting.
func (rs *Ruleset) IsSessionLine(line string) bool {
	for _, re := range rs.sessionCompiled {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// HasInPersonToken reports whether a line denotes a face-to-face meeting.
func (rs *Ruleset) HasInPersonToken(line string) bool {
	return containsAny(line, rs.InPersonTokens)
}

// HasOnlineToken reports whether a line denotes a remote meeting.
func (rs *Ruleset) HasOnlineToken(line string) bool {
	return containsAny(line, rs.OnlineTokens)
}

// HasGradingKeyword reports whether a line belongs to a grading section.
func (rs *Ruleset) HasGradingKeyword(line string) bool {
	return containsAny(line, rs.GradingKeywords)
}

// IsTitleStopword reports whether a candidate title is term/section
// boilerplate rather than a real course title.
func (rs *Ruleset) IsTitleStopword(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, sw := range rs.TitleStopwords {
		if strings.HasPrefix(lower, sw) {
			return true
		}
	}
	return false
}

// CourseCode returns the compiled department-code-plus-number pattern.
func (rs *Ruleset) CourseCode() *regexp.Regexp {
	return rs.courseCode
}

func containsAny(line string, tokens []string) bool {
	lower := strings.ToLower(line)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
