// Package detect implements the per-field extraction heuristics. Each
// detector is a pure function from the normalized line sequence to a typed
// result; all shared keyword and pattern tables live in the rules package.
package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
	"github.com/syllabus-tools/syllabus-audit/internal/rules"
)

// Result is one detector's outcome: a string value (empty means "not found")
// and an optional diagnostic note.
type Result struct {
	Value string
	Note  string
}

// Func runs one field detector over the normalized line sequence.
type Func func(lines []string) Result

// Set binds the detector battery to its policy knobs and rule table.
type Set struct {
	cfg   common.DetectConfig
	rs    *rules.Ruleset
	email *regexp.Regexp
}

// NewSet builds the detector set. A nil ruleset uses the built-in defaults.
func NewSet(cfg common.DetectConfig, rs *rules.Ruleset) *Set {
	if rs == nil {
		rs = rules.Default()
	}
	if cfg.HeaderWindow <= 0 {
		cfg.HeaderWindow = 15
	}
	if cfg.MinSessionCount <= 0 {
		cfg.MinSessionCount = 10
	}
	if cfg.InPersonRatioThreshold <= 0 {
		cfg.InPersonRatioThreshold = 0.5
	}
	domain := cfg.EmailDomain
	if domain == "" {
		domain = "cpp.edu"
	}
	return &Set{
		cfg:   cfg,
		rs:    rs,
		email: regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@` + regexp.QuoteMeta(domain) + `\b`),
	}
}

// ByColumn maps template column names to detector functions. Columns with no
// entry resolve to empty output; the analyzer never branches on column names.
func (s *Set) ByColumn() map[string]Func {
	return map[string]Func{
		constants.FieldCourse:           s.Course,
		constants.FieldFaculty:          s.Faculty,
		constants.FieldEmail:            s.Email,
		constants.FieldOfficeHours:      s.presence(constants.FieldOfficeHours),
		constants.FieldOfficeLocation:   s.presence(constants.FieldOfficeLocation),
		constants.FieldClassLocation:    s.presence(constants.FieldClassLocation),
		constants.FieldModality:         s.Modality,
		constants.FieldGradeComponents:  s.GradeComponents,
		constants.FieldWeeklySchedule:   s.presence(constants.FieldWeeklySchedule),
		constants.FieldInPersonRatio:    s.InPersonRatio,
		constants.FieldLearningOutcomes: s.presence(constants.FieldLearningOutcomes),
		constants.FieldTextbook:         s.presence(constants.FieldTextbook),
	}
}

// presence builds a Yes/No detector from the field's rule-table entry.
func (s *Set) presence(field string) Func {
	return func(lines []string) Result {
		pr, ok := s.rs.PresenceFor(field)
		if !ok {
			return Result{Value: constants.No}
		}
		scan := lines
		if pr.Window > 0 && len(scan) > pr.Window {
			scan = scan[:pr.Window]
		}
		for _, line := range scan {
			if pr.MatchLine(line) {
				return Result{Value: constants.Yes}
			}
		}
		return Result{Value: constants.No}
	}
}

// Email reports whether any line carries an institutional email address.
func (s *Set) Email(lines []string) Result {
	for _, line := range lines {
		if s.email.MatchString(line) {
			return Result{Value: constants.Yes}
		}
	}
	return Result{Value: constants.No}
}

// Modality returns the canonical delivery-mode label. The phrase table is
// ordered compound-first so "hybrid synchronous" never degrades to "Hybrid".
func (s *Set) Modality(lines []string) Result {
	text := strings.ToLower(strings.Join(lines, "\n"))
	for _, mp := range s.rs.ModalityPhrases {
		if strings.Contains(text, mp.Phrase) {
			return Result{Value: mp.Label}
		}
	}
	return Result{}
}

// GradeComponents reports whether grading weights are disclosed: a grading
// keyword line whose own text, or one of the following two lines, carries a
// percent sign or the word "points".
func (s *Set) GradeComponents(lines []string) Result {
	for i, line := range lines {
		if !s.rs.HasGradingKeyword(line) {
			continue
		}
		for j := i; j < len(lines) && j <= i+2; j++ {
			if hasWeightMarker(lines[j]) {
				return Result{Value: constants.Yes}
			}
		}
	}
	return Result{Value: constants.No}
}

func hasWeightMarker(line string) bool {
	if strings.Contains(line, "%") {
		return true
	}
	return strings.Contains(strings.ToLower(line), "points")
}

// header returns the top-of-document slice used for structural metadata.
func (s *Set) header(lines []string) []string {
	if len(lines) > s.cfg.HeaderWindow {
		return lines[:s.cfg.HeaderWindow]
	}
	return lines
}

func ratioNote(inperson, total int) string {
	if inperson == 0 {
		return fmt.Sprintf("no in-person sessions found among %d scheduled sessions", total)
	}
	return fmt.Sprintf("only %d of %d scheduled sessions are in-person", inperson, total)
}
