package pdfutil

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/pkg/textutil"
)

// OCREngine recognizes text from rasterized PDF pages through the
// tesseract command line tool.
type OCREngine struct {
	// Binary is the tesseract executable, "tesseract" by default.
	Binary string
	// Languages is the tesseract language spec, e.g. "eng".
	Languages string
}

// NewOCREngine creates an OCREngine with defaults.
func NewOCREngine() *OCREngine {
	return &OCREngine{
		Binary:    "tesseract",
		Languages: "eng",
	}
}

// Available reports whether the tesseract binary can be found.
func (e *OCREngine) Available() bool {
	_, err := exec.LookPath(e.Binary)
	return err == nil
}

// ExtractPages rasterizes each page of an open document and runs OCR on it.
// Pages that fail to rasterize or recognize are skipped with a warning.
func (e *OCREngine) ExtractPages(ctx context.Context, doc *fitz.Document, name string) ([]Segment, error) {
	tmpDir, err := os.MkdirTemp("", "jacbot-ocr-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	var segments []Segment
	for i := 0; i < doc.NumPage(); i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		img, err := doc.Image(i)
		if err != nil {
			logger.Warnf("Failed to rasterize %s page %d: %v", name, i+1, err)
			continue
		}

		imgPath := filepath.Join(tmpDir, fmt.Sprintf("page-%d.png", i+1))
		f, err := os.Create(imgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create page image: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to encode page image: %w", err)
		}
		_ = f.Close()

		text, err := e.recognize(ctx, imgPath)
		if err != nil {
			logger.Warnf("OCR failed on %s page %d: %v", name, i+1, err)
			continue
		}

		text = textutil.NormalizeWhitespace(text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Content: text, Page: i + 1})
	}

	return segments, nil
}

// recognize invokes tesseract on an image file and returns recognized text.
func (e *OCREngine) recognize(ctx context.Context, imgPath string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Binary, "-l", e.Languages, imgPath, "stdout")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}
