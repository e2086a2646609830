package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabus-tools/syllabus-audit/internal/common"
)

func newDefault() *Normalizer {
	return New(common.NormalizeConfig{MergeThreshold: 30})
}

func TestLines_EmptyInput(t *testing.T) {
	n := newDefault()
	assert.Nil(t, n.Lines(""))
	assert.Nil(t, n.Lines("   \n\t\n  "))
}

func TestLines_DropsBlankLines(t *testing.T) {
	n := newDefault()
	lines := n.Lines("This line is long enough to stand on its own.\n\n   \nAnother line that is also long enough to stand alone.")
	require.Len(t, lines, 2)
}

func TestLines_MergesShortFragments(t *testing.T) {
	n := newDefault()

	// Both fragments are strictly below the threshold, so they merge.
	lines := n.Lines("Dr.\nJane Smith")
	require.Len(t, lines, 1)
	assert.Equal(t, "Dr. Jane Smith", lines[0])
}

func TestLines_LongLinesAreNotMerged(t *testing.T) {
	n := newDefault()

	long1 := "This sentence is comfortably longer than thirty characters."
	long2 := "And so is this one, which should stay on its own line too."
	lines := n.Lines(long1 + "\n" + long2)
	require.Len(t, lines, 2)
	assert.Equal(t, long1, lines[0])
	assert.Equal(t, long2, lines[1])
}

func TestLines_ShortBufferFlushesBeforeLongLine(t *testing.T) {
	n := newDefault()

	long := "This is a long schedule heading that exceeds the threshold."
	lines := n.Lines("Week 1\nWeek 2\n" + long)
	require.Len(t, lines, 2)
	assert.Equal(t, "Week 1 Week 2", lines[0])
	assert.Equal(t, long, lines[1])
}

func TestLines_ThresholdBoundary(t *testing.T) {
	n := New(common.NormalizeConfig{MergeThreshold: 10})

	// Exactly at the threshold: not a fragment.
	at := strings.Repeat("a", 10)
	below := strings.Repeat("b", 9)
	lines := n.Lines(at + "\n" + at)
	require.Len(t, lines, 2)

	lines = n.Lines(below + "\n" + below)
	require.Len(t, lines, 1)
}

func TestLines_Idempotent(t *testing.T) {
	n := newDefault()

	raw := "GBA 5621: Strategic Management\nDr.\nJane Smith\n\nOffice   Hours:  Mon 2-4pm in Building 164\nWeek 1\nWeek 2"
	once := n.Lines(raw)
	twice := n.Lines(strings.Join(once, "\n"))
	assert.Equal(t, once, twice)
}

func TestRepairTokens_Email(t *testing.T) {
	got := RepairTokens("Contact: jsmith @ cpp . edu for questions")
	assert.Contains(t, got, "jsmith@cpp.edu")
}

func TestLines_EmailSurvivesFullPipeline(t *testing.T) {
	n := newDefault()
	joined := n.Join("Please reach the instructor at jsmith @ cpp . edu during office hours.")
	assert.Contains(t, joined, "jsmith@cpp.edu")
}

func TestRepairTokens_ClockTime(t *testing.T) {
	got := RepairTokens("Class meets at 9 : 30 am in room 101")
	assert.Contains(t, got, "9:30am")
}

func TestRepairTokens_IsolatedLetters(t *testing.T) {
	got := RepairTokens("Course S y l l a b u s for Fall")
	assert.Contains(t, got, "Syllabus")
}

func TestRepairTokens_CollapsesWhitespace(t *testing.T) {
	got := RepairTokens("Office   Hours:    Monday")
	assert.Equal(t, "Office Hours: Monday", got)
}
