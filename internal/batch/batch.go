// Package batch runs the extract-normalize-analyze pipeline over a document
// list. Documents are independent, so analysis fans out across a bounded
// worker pool; results reassemble in input order before serialization.
package batch

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syllabus-tools/syllabus-audit/constants"
	"github.com/syllabus-tools/syllabus-audit/internal/analyze"
	"github.com/syllabus-tools/syllabus-audit/internal/docext"
	"github.com/syllabus-tools/syllabus-audit/internal/normalize"
	"github.com/syllabus-tools/syllabus-audit/internal/repository"
)

// Driver orchestrates one batch run.
type Driver struct {
	Logger     *slog.Logger
	Extractor  *docext.Extractor
	Normalizer *normalize.Normalizer
	Analyzer   *analyze.Analyzer
	History    repository.RunHistory // optional
	Workers    int                   // <=0 means GOMAXPROCS
	OnProgress func(done, total int) // optional, called after each document
}

type indexed struct {
	i    int
	path string
}

// Run analyzes every path and returns one record per input, in input order.
// Per-document failures never abort the run; cancellation stops submitting
// further documents and returns ctx.Err with no records.
func (d *Driver) Run(ctx context.Context, runID uuid.UUID, paths, columns []string) ([]*analyze.Record, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	start := time.Now()
	d.Logger.Info("batch.start", "run_id", runID, "documents", len(paths), "workers", workers)

	records := make([]*analyze.Record, len(paths))
	jobs := make(chan indexed)
	var wg sync.WaitGroup
	var done int
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				records[job.i] = d.processOne(ctx, runID, job.path, columns)
				mu.Lock()
				done++
				n := done
				mu.Unlock()
				if d.OnProgress != nil {
					d.OnProgress(n, len(paths))
				}
			}
		}()
	}

	var cancelled bool
submit:
	for i, p := range paths {
		select {
		case <-ctx.Done():
			cancelled = true
			break submit
		case jobs <- indexed{i: i, path: p}:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		d.Logger.Warn("batch.cancelled", "run_id", runID, "completed", done, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, ctx.Err()
	}

	d.Logger.Info("batch.ok", "run_id", runID, "documents", len(paths), "elapsed_ms", time.Since(start).Milliseconds())
	return records, nil
}

// processOne runs the full pipeline for a single document. It always returns
// a full-width record.
func (d *Driver) processOne(ctx context.Context, runID uuid.UUID, path string, columns []string) *analyze.Record {
	ext := d.Extractor.ExtractText(path)

	doc := &analyze.Document{
		Path:       path,
		Kind:       ext.Kind,
		RawText:    ext.Text,
		Lines:      d.Normalizer.Lines(ext.Text),
		ExtractErr: ext.Err,
	}
	rec := d.Analyzer.Analyze(ctx, doc, columns)

	if d.History != nil {
		status := docStatus(ext, rec)
		if err := d.History.RecordDocument(ctx, runID, path, status, strings.Join(rec.Notes, "; ")); err != nil {
			d.Logger.Warn("batch.history_write_failed", "run_id", runID, "path", path, "error", err)
		}
	}
	return rec
}

func docStatus(ext docext.Extraction, rec *analyze.Record) constants.DocStatus {
	if ext.Err != "" || strings.TrimSpace(ext.Text) == "" {
		return constants.DocStatusNoText
	}
	for _, n := range rec.Notes {
		if strings.HasPrefix(n, "detector failure") {
			return constants.DocStatusDetectErr
		}
	}
	return constants.DocStatusOK
}
