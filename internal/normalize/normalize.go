// Package normalize turns raw extracted document text into a clean,
// analyzable line sequence. PDF extraction shatters sentences onto short
// fragment lines and injects spurious spaces inside tokens; the repairs here
// are heuristics that trade occasional false merges for recovering them.
package normalize

import (
	"regexp"
	"strings"

	"github.com/syllabus-tools/syllabus-audit/internal/common"
)

// DefaultMergeThreshold is the line length below which a line is treated as a
// wrapped fragment.
const DefaultMergeThreshold = 30

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)

	// "jsmith @ cpp . edu": email split around the at-sign and dots.
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+\s*@\s*[A-Za-z0-9-]+(?:\s*\.\s*[a-z]{2,4})+`)

	// "9 : 30 am": clock time split around the colon.
	reClock    = regexp.MustCompile(`(\d{1,2})\s*:\s*(\d{2})`)
	reMeridiem = regexp.MustCompile(`(?i)(:\d{2})\s+([ap]m)\b`)

	// "S y l l a b u s": a run of single-letter tokens that should be one word.
	reIsolated = regexp.MustCompile(`\b(?:[A-Za-z] ){2,}[A-Za-z]\b`)

	reSpace = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw document text into an ordered line sequence.
type Normalizer struct {
	cfg common.NormalizeConfig
}

// New creates a Normalizer. A non-positive MergeThreshold falls back to the
// default.
func New(cfg common.NormalizeConfig) *Normalizer {
	if cfg.MergeThreshold <= 0 {
		cfg.MergeThreshold = DefaultMergeThreshold
	}
	return &Normalizer{cfg: cfg}
}

// Lines splits raw text into cleaned lines, repairs extraction artifacts, and
// merges wrapped fragments. Line order is preserved; downstream windowed
// search depends on positional proximity between label and value lines.
// Lines is idempotent: feeding its output back in changes nothing.
func (n *Normalizer) Lines(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	s := reCRLF.ReplaceAllString(raw, "\n")
	s = reTabs.ReplaceAllString(s, " ")

	var cleaned []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(RepairTokens(line))
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return n.mergeWrapped(cleaned)
}

// Join returns the normalized text as a single newline-joined string.
func (n *Normalizer) Join(raw string) string {
	return strings.Join(n.Lines(raw), "\n")
}

// mergeWrapped concatenates consecutive short fragment lines into one output
// line. A line strictly shorter than the threshold buffers; the buffer flushes
// on a line at or above the threshold, or at end of input.
func (n *Normalizer) mergeWrapped(lines []string) []string {
	var out []string
	var pending strings.Builder

	flush := func() {
		if pending.Len() > 0 {
			out = append(out, pending.String())
			pending.Reset()
		}
	}

	for _, line := range lines {
		if len(line) < n.cfg.MergeThreshold {
			if pending.Len() > 0 {
				pending.WriteByte(' ')
			}
			pending.WriteString(line)
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return out
}

// RepairTokens fixes common PDF-extraction artifacts inside a single line:
// emails split around "@", clock times split around the colon, words shattered
// into single-letter tokens, and repeated whitespace.
func RepairTokens(line string) string {
	line = reEmail.ReplaceAllStringFunc(line, stripSpaces)
	line = reClock.ReplaceAllString(line, "$1:$2")
	line = reMeridiem.ReplaceAllString(line, "$1$2")
	line = reIsolated.ReplaceAllStringFunc(line, stripSpaces)
	line = reMultiSpace.ReplaceAllString(line, " ")
	return line
}

func stripSpaces(s string) string {
	return reSpace.ReplaceAllString(s, "")
}
