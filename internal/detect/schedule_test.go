package detect

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
)

// scheduleLines builds a numbered weekly schedule with the first inperson
// weeks marked face-to-face and the rest online.
func scheduleLines(total, inperson int) []string {
	lines := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		mode := "online via Zoom"
		if i <= inperson {
			mode = "in-person lecture"
		}
		lines = append(lines, fmt.Sprintf("Week %d: Topic %d, %s", i, i, mode))
	}
	return lines
}

func TestInPersonRatio_Compliant(t *testing.T) {
	s := newSet()

	res := s.InPersonRatio(scheduleLines(15, 8))
	assert.Equal(t, constants.Yes, res.Value)
	assert.Empty(t, res.Note)
}

func TestInPersonRatio_Insufficient(t *testing.T) {
	s := newSet()

	res := s.InPersonRatio(scheduleLines(15, 7))
	assert.Equal(t, constants.No, res.Value)
	require.NotEmpty(t, res.Note)
	assert.Contains(t, res.Note, "7 of 15")
}

func TestInPersonRatio_ExactlyHalfIsCompliant(t *testing.T) {
	s := newSet()

	res := s.InPersonRatio(scheduleLines(16, 8))
	assert.Equal(t, constants.Yes, res.Value)
}

func TestInPersonRatio_ZeroInPerson(t *testing.T) {
	s := newSet()

	res := s.InPersonRatio(scheduleLines(15, 0))
	assert.Equal(t, constants.No, res.Value)
	assert.Contains(t, res.Note, "no in-person sessions")
}

func TestInPersonRatio_NoScheduleFound(t *testing.T) {
	s := newSet()

	res := s.InPersonRatio([]string{
		"Course description and policies",
		"Grading: 100 points total",
	})
	assert.Equal(t, constants.No, res.Value)
	assert.Contains(t, res.Note, "schedule not explicit")
}

func TestInPersonRatio_SparseScheduleNotJudged(t *testing.T) {
	s := newSet()

	// Below the minimum session count the ratio is not trusted, even at 100%.
	res := s.InPersonRatio(scheduleLines(4, 4))
	assert.Equal(t, constants.No, res.Value)
	assert.Contains(t, res.Note, "schedule not explicit")
}

func TestInPersonRatio_UnnumberedFallback(t *testing.T) {
	s := NewSet(common.DetectConfig{
		HeaderWindow:            15,
		MinSessionCount:         2,
		InPersonRatioThreshold:  0.5,
		CountUnnumberedSessions: true,
	}, nil)

	res := s.InPersonRatio([]string{
		"Tuesdays: in-person seminar",
		"Thursdays: online discussion",
	})
	assert.Equal(t, constants.Yes, res.Value)
}

func TestSessionLines(t *testing.T) {
	s := newSet()

	lines := append(scheduleLines(3, 1), "Office hours by appointment")
	sessions := s.SessionLines(lines)
	require.Len(t, sessions, 3)
	assert.True(t, strings.HasPrefix(sessions[0], "Week 1"))
}
