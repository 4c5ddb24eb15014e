package extraction

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const (
	// legibilityThreshold is the minimum number of characters a page's
	// embedded text must have before the page is treated as image-only and
	// routed to optical recognition.
	legibilityThreshold = 40

	// rasterDPI is the resolution used when rendering image-only pages.
	rasterDPI = 300
)

// Document is a page-enumerable handle over a decoded statement.
type Document interface {
	NumPage() int
	Text(page int) (string, error)
	ImageDPI(page int, dpi float64) (image.Image, error)
}

// fitzDocument adapts a go-fitz document to the Document interface.
type fitzDocument struct {
	doc *fitz.Document
}

func (d fitzDocument) NumPage() int { return d.doc.NumPage() }

func (d fitzDocument) Text(page int) (string, error) { return d.doc.Text(page) }

func (d fitzDocument) ImageDPI(page int, dpi float64) (image.Image, error) {
	return d.doc.ImageDPI(page, dpi)
}

// TextExtractor resolves page text for a statement document, falling back to
// optical recognition for pages whose embedded text is absent or too short.
type TextExtractor struct {
	ocr Recognizer
}

// NewTextExtractor creates a TextExtractor using the given Recognizer for
// image-only pages.
func NewTextExtractor(ocr Recognizer) *TextExtractor {
	return &TextExtractor{ocr: ocr}
}

// ExtractText decodes a PDF and returns its pages' resolved text joined in
// original order. A document that cannot be opened is fatal; a single
// unreadable page is not and contributes an empty string instead.
func (e *TextExtractor) ExtractText(ctx context.Context, pdfData []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRead, err)
	}
	defer doc.Close()

	return e.extract(ctx, fitzDocument{doc: doc}), nil
}

func (e *TextExtractor) extract(ctx context.Context, doc Document) string {
	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil || len(strings.TrimSpace(text)) < legibilityThreshold {
			slog.Debug("Page has no usable embedded text, using OCR fallback", "page", i+1)
			text = e.recognizePage(ctx, doc, i)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n")
}

// recognizePage rasterizes one page and runs optical recognition on it.
// Any failure resolves to an empty string so one bad page never aborts the
// document.
func (e *TextExtractor) recognizePage(ctx context.Context, doc Document, page int) string {
	img, err := doc.ImageDPI(page, rasterDPI)
	if err != nil {
		slog.Warn("Failed to render page for OCR", "page", page+1, "error", err)
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		slog.Warn("Failed to encode page image", "page", page+1, "error", err)
		return ""
	}

	text, err := e.ocr.Recognize(ctx, buf.Bytes())
	if err != nil {
		slog.Warn("OCR failed for page", "page", page+1, "error", err)
		return ""
	}
	return text
}
