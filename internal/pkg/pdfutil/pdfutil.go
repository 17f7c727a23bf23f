// Package pdfutil extracts text and tables from PDF documents, with an
// OCR fallback for scanned files that carry no text layer.
package pdfutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/pkg/textutil"
)

// Segment is a unit of extracted content. Table segments are kept whole
// during chunking so rows are never torn apart.
type Segment struct {
	// Content is the extracted text.
	Content string
	// Table marks the segment as a formatted table.
	Table bool
	// Page is the 1-based page number the segment came from.
	Page int
}

// Document is the extraction result for one PDF file.
type Document struct {
	// Name is the base file name.
	Name string
	// Path is the source file path.
	Path string
	// Segments holds the extracted content in page order.
	Segments []Segment
	// OCR reports whether the OCR fallback produced the content.
	OCR bool
}

// Text returns the document content as a single string.
func (d *Document) Text() string {
	var b strings.Builder
	for i, seg := range d.Segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(seg.Content)
	}
	return b.String()
}

// Extractor extracts documents from PDF files.
type Extractor struct {
	ocr *OCREngine
}

// NewExtractor creates an Extractor. A nil engine disables the OCR fallback.
func NewExtractor(ocr *OCREngine) *Extractor {
	return &Extractor{ocr: ocr}
}

// Extract reads a PDF and returns its text and table segments.
// When no page yields text the OCR fallback is attempted; a document
// that stays empty after the fallback is returned with no segments and
// the caller decides whether that is fatal.
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer func() { _ = doc.Close() }()

	result := &Document{
		Name: filepath.Base(path),
		Path: path,
	}

	for i := 0; i < doc.NumPage(); i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		text, err := doc.Text(i)
		if err != nil {
			logger.Warnf("Failed to extract text from %s page %d: %v", result.Name, i+1, err)
			continue
		}

		for _, seg := range splitTables(text, i+1) {
			seg.Content = textutil.NormalizeWhitespace(seg.Content)
			if seg.Content == "" {
				continue
			}
			result.Segments = append(result.Segments, seg)
		}
	}

	if strings.TrimSpace(result.Text()) != "" {
		return result, nil
	}

	if e.ocr == nil {
		logger.Warnf("No text layer in %s and OCR is disabled", result.Name)
		return result, nil
	}

	logger.Warnf("No text layer in %s, falling back to OCR", result.Name)
	segments, err := e.ocr.ExtractPages(ctx, doc, result.Name)
	if err != nil {
		logger.Warnf("OCR fallback failed for %s: %v", result.Name, err)
		return result, nil
	}
	result.Segments = segments
	result.OCR = true
	return result, nil
}
