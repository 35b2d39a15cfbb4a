// Package extract turns an uploaded file's bytes into plain text.
// Dispatch is purely by the lowercase filename suffix; binary formats go
// through injectable capability readers so the PDF/DOCX dependencies can be
// absent (or stubbed) without the extractor itself failing hard.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Tagged extraction failures. Callers match with errors.Is; the wrapped
// message carries the user-facing detail.
var (
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	ErrDecodeFailure         = errors.New("decode failure")
	ErrParseFailure          = errors.New("parse failure")
	ErrUnsupportedFormat     = errors.New("unsupported file format")
)

// PageReader reads a paged binary document (PDF) and returns the text of each
// page in page order. A page with no extractable text must still occupy its
// slot as an empty string.
type PageReader interface {
	ReadPages(data []byte) ([]string, error)
}

// ParagraphReader reads a structured word-processor document (DOCX) and
// returns each paragraph's text in document order.
type ParagraphReader interface {
	ReadParagraphs(data []byte) ([]string, error)
}

// Extractor is the consumer-facing contract for document text extraction.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Service dispatches extraction by filename suffix. A nil reader marks the
// corresponding capability as unavailable.
type Service struct {
	pdf  PageReader
	docx ParagraphReader
}

// NewService constructs an extractor with the given capability readers.
// Either reader may be nil; extraction of that format then reports
// ErrCapabilityUnavailable instead of failing at call time.
func NewService(pdf PageReader, docx ParagraphReader) *Service {
	return &Service{pdf: pdf, docx: docx}
}

// Extract converts the uploaded bytes to text based on the filename suffix.
// It is a pure function of (suffix, bytes): no state is retained and the
// input is never mutated. All reader faults are converted to tagged errors.
func (s *Service) Extract(_ context.Context, filename string, data []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".txt", ".md":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrDecodeFailure, filename)
		}
		return string(data), nil

	case ".pdf":
		if s.pdf == nil {
			return "", fmt.Errorf("%w: no PDF reader is configured; upload a different file type", ErrCapabilityUnavailable)
		}
		pages, err := s.pdf.ReadPages(data)
		if err != nil {
			return "", fmt.Errorf("%w: reading PDF %s: %v", ErrParseFailure, filename, err)
		}
		return strings.Join(pages, ""), nil

	case ".docx":
		if s.docx == nil {
			return "", fmt.Errorf("%w: no DOCX reader is configured; upload a different file type", ErrCapabilityUnavailable)
		}
		paragraphs, err := s.docx.ReadParagraphs(data)
		if err != nil {
			return "", fmt.Errorf("%w: reading DOCX %s: %v", ErrParseFailure, filename, err)
		}
		return strings.Join(paragraphs, "\n"), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
