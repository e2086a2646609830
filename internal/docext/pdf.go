package docext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF pulls plain text from every page. A relaxed pdfcpu validation
// pass runs first so structurally broken files fail with a clear message
// instead of a parser panic deep inside text extraction.
func (e *Extractor) extractPDF(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if vErr := api.ValidateFile(path, conf); vErr != nil {
		return "", fmt.Errorf("pdf validation: %w", vErr)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			e.logger.Warn("docext.pdf_close_error", "path", path, "error", cErr)
		}
	}()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pErr := page.GetPlainText(nil)
		if pErr != nil {
			// Partial extraction beats none; skip the bad page.
			e.logger.Warn("docext.pdf_page_skipped", "path", path, "page", i, "error", pErr)
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
