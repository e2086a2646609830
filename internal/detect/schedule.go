package detect

import (
	"strconv"

	"github.com/syllabus-tools/syllabus-audit/constants"
)

// InPersonRatio judges whether at least the configured fraction of scheduled
// sessions (default 50%) meet face-to-face. Session lines are lines matching
// a week/session/module-number pattern; when the schedule is too sparse to
// judge (fewer than MinSessionCount sessions) the result is non-compliant
// with a "schedule not explicit" note rather than a guess.
//
// A ratio exactly at the threshold is compliant.
func (s *Set) InPersonRatio(lines []string) Result {
	sessions := s.SessionLines(lines)

	if len(sessions) == 0 && s.cfg.CountUnnumberedSessions {
		// Strict-off fallback: count lines that mention meeting-mode tokens
		// directly, for syllabi that list meetings without numbering them.
		for _, line := range lines {
			if s.rs.HasInPersonToken(line) || s.rs.HasOnlineToken(line) {
				sessions = append(sessions, line)
			}
		}
	}

	total := len(sessions)
	if total < s.cfg.MinSessionCount {
		return Result{
			Value: constants.No,
			Note:  "schedule not explicit: found " + strconv.Itoa(total) + " session lines, need " + strconv.Itoa(s.cfg.MinSessionCount),
		}
	}

	inperson := 0
	for _, line := range sessions {
		if s.rs.HasInPersonToken(line) {
			inperson++
		}
	}

	if float64(inperson)/float64(total) >= s.cfg.InPersonRatioThreshold {
		return Result{Value: constants.Yes}
	}
	return Result{Value: constants.No, Note: ratioNote(inperson, total)}
}

// SessionLines returns the lines classified as one scheduled class meeting
// each.
func (s *Set) SessionLines(lines []string) []string {
	var sessions []string
	for _, line := range lines {
		if s.rs.IsSessionLine(line) {
			sessions = append(sessions, line)
		}
	}
	return sessions
}
