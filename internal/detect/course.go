package detect

import (
	"regexp"
	"strings"
)

var (
	reParenthetical = regexp.MustCompile(`\([^)]*\)`)
	reTermBoiler    = regexp.MustCompile(`(?i)\b(fall|spring|summer|winter)\s+20\d{2}\b.*$`)
	reSectionBoiler = regexp.MustCompile(`(?i)\bsection\s*[A-Z0-9.-]+\b.*$`)
)

const minTitleLen = 5

// disallowedDept filters course-code false positives: all-caps words followed
// by a year or room number that are not department codes.
var disallowedDept = map[string]struct{}{
	"FALL": {}, "SPRING": {}, "SUMMER": {}, "WINTER": {},
	"ROOM": {}, "BLDG": {}, "SUITE": {}, "HALL": {},
}

// Course locates the department-code-plus-number token near the top of the
// document and pairs it with the course title. The code is compacted
// ("GBA 5621" -> "GBA5621"); the title comes from the remainder of the match
// line when it qualifies, otherwise from the next few lines.
func (s *Set) Course(lines []string) Result {
	code := s.rs.CourseCode()
	for i, line := range s.header(lines) {
		loc := code.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		dept := line[loc[2]:loc[3]]
		if _, bad := disallowedDept[dept]; bad {
			continue
		}
		num := line[loc[4]:loc[5]]
		compact := dept + num

		title := s.titleFromRemainder(line[loc[1]:])
		if title == "" {
			title = s.titleFromFollowing(lines, i+1)
		}
		if title == "" {
			return Result{Value: compact, Note: "course title not found near course code"}
		}
		return Result{Value: compact + ": " + title}
	}
	return Result{Note: "no course code found in document header"}
}

// titleFromRemainder extracts a title from the text after the course code on
// the same line: strip a leading separator, parentheticals, and term/section
// boilerplate, then require a qualifying candidate.
func (s *Set) titleFromRemainder(rest string) string {
	rest = strings.TrimLeft(rest, " \t:–—-")
	return s.qualifyTitle(rest)
}

// titleFromFollowing scans up to three lines below the course-code line,
// skipping stop-word boilerplate, for a qualifying title.
func (s *Set) titleFromFollowing(lines []string, start int) string {
	for i := start; i < len(lines) && i < start+3; i++ {
		if s.rs.IsTitleStopword(lines[i]) {
			continue
		}
		if t := s.qualifyTitle(lines[i]); t != "" {
			return t
		}
	}
	return ""
}

func (s *Set) qualifyTitle(candidate string) string {
	candidate = reParenthetical.ReplaceAllString(candidate, "")
	candidate = reTermBoiler.ReplaceAllString(candidate, "")
	candidate = reSectionBoiler.ReplaceAllString(candidate, "")
	candidate = strings.Trim(candidate, " \t,;:–—-")
	if len(candidate) < minTitleLen || s.rs.IsTitleStopword(candidate) {
		return ""
	}
	return candidate
}
