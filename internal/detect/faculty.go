package detect

import (
	"regexp"
	"strings"
)

var (
	reEmailToken = regexp.MustCompile(`\S+@\S+`)
	reDrPrefix   = regexp.MustCompile(`^(?i)dr\.?\s+`)
	reCapPair    = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)
)

// boilerplatePairs are capitalized word pairs that look like names but are
// document furniture; they disqualify the capitalized-pair fallback.
var boilerplatePairs = map[string]struct{}{
	"course title":  {},
	"course number": {},
	"office hours":  {},
	"state university": {},
	"learning outcomes": {},
	"academic integrity": {},
}

// Faculty finds the instructor's name. The labeled-line pass looks near the
// top for "Instructor:", "Professor", a leading "Dr.", etc., then strips
// credentials, emails, and parentheticals and requires the remainder to look
// like a personal name. If that fails, the fallback accepts two consecutive
// capitalized words in the header that are not boilerplate.
func (s *Set) Faculty(lines []string) Result {
	header := s.header(lines)

	for _, line := range header {
		candidate, ok := s.afterFacultyLabel(line)
		if !ok {
			continue
		}
		if name := s.cleanName(candidate); name != "" {
			return Result{Value: name}
		}
	}

	// Fallback: a bare name line near the top, common on title pages.
	for _, line := range header {
		m := reCapPair.FindString(line)
		if m == "" {
			continue
		}
		if _, bad := boilerplatePairs[strings.ToLower(m)]; bad {
			continue
		}
		if s.rs.IsTitleStopword(m) {
			continue
		}
		if name := s.cleanName(m); name != "" {
			return Result{Value: name, Note: "faculty name inferred without an instructor label"}
		}
	}
	return Result{Note: "no instructor name found"}
}

// afterFacultyLabel returns the text following an instructor label, or the
// whole line when it begins with "Dr.".
func (s *Set) afterFacultyLabel(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, label := range s.rs.FacultyLabels {
		idx := strings.Index(lower, label)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(label):]
		rest = strings.TrimLeft(rest, " \t:–—-")
		if rest != "" {
			return rest, true
		}
	}
	if reDrPrefix.MatchString(line) {
		return reDrPrefix.ReplaceAllString(line, ""), true
	}
	return "", false
}

// cleanName strips credentials, email addresses, and parenthetical asides,
// then accepts the candidate only if it still reads like a personal name:
// at least two capitalized tokens.
func (s *Set) cleanName(candidate string) string {
	candidate = reParenthetical.ReplaceAllString(candidate, "")
	candidate = reEmailToken.ReplaceAllString(candidate, "")
	candidate = reDrPrefix.ReplaceAllString(candidate, "")

	var kept []string
	for _, tok := range strings.FieldsFunc(candidate, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '|'
	}) {
		// A colon-suffixed token starts the next labeled field on the line.
		if strings.HasSuffix(tok, ":") {
			break
		}
		if s.isCredential(tok) {
			continue
		}
		kept = append(kept, tok)
	}

	capitalized := 0
	for _, tok := range kept {
		if len(tok) > 1 && tok[0] >= 'A' && tok[0] <= 'Z' {
			capitalized++
		}
	}
	if capitalized < 2 {
		return ""
	}
	return strings.Join(kept, " ")
}

func (s *Set) isCredential(tok string) bool {
	t := strings.ToLower(strings.Trim(tok, ".,"))
	for _, c := range s.rs.Credentials {
		if t == strings.Trim(c, ".") || t == c {
			return true
		}
	}
	return false
}
