// Package pdftext extracts per-page plain text from PDF files.
package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns one string per physical page, in document order.
// Pages with no extractable text yield an empty string rather than an
// error, so callers keep the page indexing intact.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	texts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}
