// Package export loads the output column template and serializes extraction
// records to an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/syllabus-tools/syllabus-audit/internal/analyze"
)

// Service produces XLSX bytes for batch results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// LoadTemplateColumns reads the header row of a template workbook and returns
// the ordered output column list. The template alone decides the shape of
// every output record.
func (s *Service) LoadTemplateColumns(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			s.logger.Warn("export.template_close_error", "path", path, "error", cErr)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("template has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read template rows: %w", err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("template header row is empty")
	}

	var columns []string
	for _, h := range rows[0] {
		if h != "" {
			columns = append(columns, h)
		}
	}
	s.logger.Info("export.template.ok", "path", path, "columns", len(columns))
	return columns, nil
}

// WriteWorkbook returns an XLSX workbook (as bytes) with one header row and
// one row per record, in record order. Every row carries exactly the template
// columns; missing values serialize as empty cells.
func (s *Service) WriteWorkbook(columns []string, records []*analyze.Record) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Syllabi"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range columns {
		write(i+1, 1, h)
	}

	for r, rec := range records {
		for c, v := range rec.Row() {
			write(c+1, r+2, v)
		}
	}

	// Widen columns to fit typical values.
	if len(columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(columns))
		_ = f.SetColWidth(sheet, "A", last, 24)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"columns", len(columns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
