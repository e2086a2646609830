// Package analyze orchestrates the detector battery against one document and
// assembles the record the spreadsheet template asks for.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/common"
	"github.com/syllabus-tools/syllabus-audit/internal/detect"
	"github.com/syllabus-tools/syllabus-audit/internal/llm"
)

// shortTextThreshold flags documents whose extracted text is suspiciously
// short, usually a scanned image-only PDF.
const shortTextThreshold = 200

// Document is one source file, normalized and ready for analysis.
type Document struct {
	Path       string
	Kind       constants.FileKind
	RawText    string
	Lines      []string
	ExtractErr string // non-empty when the text-extraction collaborator failed
}

// Record maps template column names to string values, plus ordered diagnostic
// notes. Values are never null; empty string means "not found".
type Record struct {
	Columns []string
	Values  map[string]string
	Notes   []string
}

// Row returns the record values in template column order.
func (r *Record) Row() []string {
	row := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		row[i] = r.Values[col]
	}
	return row
}

// Analyzer runs the detector set against documents. An optional
// FieldInferencer fills fields the local heuristics leave empty; its absence
// only reduces recall.
type Analyzer struct {
	logger     *slog.Logger
	set        *detect.Set
	byColumn   map[string]detect.Func
	inferencer llm.FieldInferencer
	llmTimeout time.Duration
}

// New creates an Analyzer. inferencer may be nil.
func New(logger *slog.Logger, set *detect.Set, inferencer llm.FieldInferencer, llmTimeout time.Duration) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if llmTimeout <= 0 {
		llmTimeout = 30 * time.Second
	}
	return &Analyzer{
		logger:     logger,
		set:        set,
		byColumn:   set.ByColumn(),
		inferencer: inferencer,
		llmTimeout: llmTimeout,
	}
}

// fallbackFields are the snippet-valued columns worth an external inference
// call when heuristics come up empty. Presence booleans are not inferred.
var fallbackFields = map[string]struct{}{
	constants.FieldCourse:   {},
	constants.FieldFaculty:  {},
	constants.FieldModality: {},
}

// Analyze produces exactly one record for the document. The record carries
// exactly the requested columns, in order, regardless of document content,
// unknown columns, or detector failure.
func (a *Analyzer) Analyze(ctx context.Context, doc *Document, columns []string) *Record {
	start := time.Now()
	rec := &Record{
		Columns: append([]string(nil), columns...),
		Values:  make(map[string]string, len(columns)),
	}
	for _, col := range columns {
		rec.Values[col] = ""
	}

	a.logger.Info("analyze.start",
		"path", doc.Path,
		"kind", doc.Kind,
		"text_bytes", len(doc.RawText),
		"lines", len(doc.Lines),
		"columns", len(columns),
	)

	if doc.ExtractErr != "" {
		rec.Notes = append(rec.Notes, "text extraction failed: "+doc.ExtractErr)
		a.fillMeta(doc, rec)
		return rec
	}
	if strings.TrimSpace(doc.RawText) == "" {
		rec.Notes = append(rec.Notes, common.ErrNoText.Error()+"; file may be a scanned or image-only document")
		a.fillMeta(doc, rec)
		return rec
	}
	if len(doc.RawText) < shortTextThreshold {
		rec.Notes = append(rec.Notes, "extracted text is very short; results may be unreliable")
	}

	if err := a.runDetectors(ctx, doc, rec); err != nil {
		// Detector failure must not abort the batch: blank the fields and
		// carry the cause as a note.
		for _, col := range columns {
			rec.Values[col] = ""
		}
		rec.Notes = append(rec.Notes, "detector failure: "+err.Error())
		a.logger.Error("analyze.detector_panic", "path", doc.Path, "error", err)
	}

	a.crossCheck(rec)
	a.fillMeta(doc, rec)

	a.logger.Info("analyze.ok",
		"path", doc.Path,
		"notes", len(rec.Notes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec
}

// runDetectors dispatches each requested column through the column->detector
// lookup. Unknown columns have no entry and keep their empty value.
func (a *Analyzer) runDetectors(ctx context.Context, doc *Document, rec *Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	for _, col := range rec.Columns {
		fn, ok := a.byColumn[col]
		if !ok {
			continue
		}
		res := fn(doc.Lines)
		if res.Value == "" && a.inferencer != nil {
			if _, eligible := fallbackFields[col]; eligible {
				res.Value = a.infer(ctx, col, doc)
			}
		}
		rec.Values[col] = res.Value
		if res.Note != "" {
			rec.Notes = append(rec.Notes, res.Note)
		}
	}
	return nil
}

// infer asks the external inference service for a best guess. "unknown" and
// every failure downgrade to an empty value; the fallback never aborts.
func (a *Analyzer) infer(ctx context.Context, field string, doc *Document) string {
	cctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()

	guess, err := a.inferencer.InferField(cctx, llm.InferRequest{
		Field:   field,
		Excerpt: excerpt(doc.RawText, 3000),
		Path:    doc.Path,
	})
	if err != nil {
		a.logger.Warn("analyze.fallback_error", "path", doc.Path, "field", field, "error", err)
		return ""
	}
	if strings.EqualFold(strings.TrimSpace(guess), "unknown") {
		return ""
	}
	return strings.TrimSpace(guess)
}

// crossCheck adds internal-consistency notes after all detectors have run.
func (a *Analyzer) crossCheck(rec *Record) {
	if rec.Values[constants.FieldOfficeHours] == constants.Yes &&
		rec.Values[constants.FieldOfficeLocation] == constants.No {
		rec.Notes = append(rec.Notes, "office hours listed but no office location found")
	}
	if contains(rec.Columns, constants.FieldModality) && rec.Values[constants.FieldModality] == "" {
		rec.Notes = append(rec.Notes, "modality left blank")
	}
}

// fillMeta populates the analyzer-owned columns that derive from the file
// rather than its text.
func (a *Analyzer) fillMeta(doc *Document, rec *Record) {
	if contains(rec.Columns, constants.FieldFileName) {
		rec.Values[constants.FieldFileName] = filepath.Base(doc.Path)
	}
	if contains(rec.Columns, constants.FieldNotes) {
		rec.Values[constants.FieldNotes] = strings.Join(rec.Notes, "; ")
	}
}

func contains(cols []string, want string) bool {
	for _, c := range cols {
		if c == want {
			return true
		}
	}
	return false
}

// excerpt returns the leading n bytes of s, trimmed back to a rune boundary
// so a multi-byte character is never split.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
