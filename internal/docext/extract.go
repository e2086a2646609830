// Package docext turns source files into plain text. It is deliberately dumb:
// no layout awareness, no OCR. Extraction failure is not an error condition
// for the batch; every extractor degrades to empty text plus a description the
// analyzer turns into a note.
package docext

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
)

// Extraction is the outcome of pulling plain text from one file.
type Extraction struct {
	Path string
	Kind constants.FileKind
	Text string
	Err  string // human-readable failure description; empty on success
}

// Extractor dispatches extraction by file extension.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractText never returns an error: on internal failure the Extraction
// carries empty text and the failure description, so the caller can flag
// "no extractable text" instead of crashing the batch.
func (e *Extractor) ExtractText(path string) Extraction {
	kind := constants.MapExtToKind(filepath.Ext(path))
	out := Extraction{Path: path, Kind: kind}

	var text string
	var err error
	switch kind {
	case constants.PDF:
		text, err = e.extractPDF(path)
	case constants.DOCX:
		text, err = extractDocx(path)
	case constants.TEXT:
		text, err = extractPlain(path)
	default:
		out.Err = common.ErrUnsupported.Error()
		return out
	}

	if err != nil {
		e.logger.Warn("docext.extract_failed", "path", path, "kind", kind, "error", err)
		out.Err = err.Error()
		return out
	}
	out.Text = text
	return out
}

func extractPlain(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
