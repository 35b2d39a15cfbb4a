package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFReader implements PageReader using the ledongthuc/pdf text extractor.
type PDFReader struct{}

// NewPDFReader returns the production PDF page reader.
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// ReadPages extracts the plain text of every page in page order. Pages that
// yield no text (images, empty pages, per-page extraction faults) contribute
// an empty string so that page positions are preserved without gaps.
// The underlying parser panics on some malformed inputs; those are recovered
// here and reported as ordinary errors.
func (r *PDFReader) ReadPages(data []byte) (pages []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			pages = nil
			err = fmt.Errorf("pdf reader fault: %v", p)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
