package extract

import (
	"bytes"
	"fmt"

	docx "github.com/fumiama/go-docx"
)

// DocxReader implements ParagraphReader using the fumiama/go-docx parser.
type DocxReader struct{}

// NewDocxReader returns the production DOCX paragraph reader.
func NewDocxReader() *DocxReader {
	return &DocxReader{}
}

// ReadParagraphs returns each paragraph's text in document order. Tables and
// other non-paragraph body items are skipped. Parser panics are recovered and
// reported as errors.
func (r *DocxReader) ReadParagraphs(data []byte) (paragraphs []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			paragraphs = nil
			err = fmt.Errorf("docx reader fault: %v", p)
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, para.String())
		}
	}
	return paragraphs, nil
}
