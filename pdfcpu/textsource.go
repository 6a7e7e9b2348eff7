// Package pdfcpu reads the text layer of PDF documents.
package pdfcpu

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/fwojciec/labdoc"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MinTextChars is the number of non-space characters below which a PDF is
// considered to have no usable text layer.
const MinTextChars = 100

var _ labdoc.TextSource = (*TextSource)(nil)

// TextSource extracts text from PDF files. Pages are separated by
// "--- Page N ---" marker lines.
type TextSource struct {
	// MaxPages limits how many pages are read. Zero reads all pages.
	MaxPages int
}

// NewTextSource creates a TextSource reading at most maxPages pages.
func NewTextSource(maxPages int) *TextSource {
	return &TextSource{MaxPages: maxPages}
}

// ReadText returns the text layer of the PDF at path. Returns EINVALID if
// the file is not a readable PDF and ENOTFOUND if it has too little text,
// which usually means a scan that needs OCR.
func (s *TextSource) ReadText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.Read(ctx, f)
}

// Read is like ReadText for an already opened PDF.
func (s *TextSource) Read(ctx context.Context, rs io.ReadSeeker) (string, error) {
	pdf, err := api.ReadValidateAndOptimize(rs, model.NewDefaultConfiguration())
	if err != nil {
		return "", labdoc.Errorf(labdoc.EINVALID, "not a readable PDF: %s", err)
	}

	pages := pdf.PageCount
	if s.MaxPages > 0 && pages > s.MaxPages {
		pages = s.MaxPages
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= pages; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := pageText(pdf, pageNr)
		if err != nil {
			return "", err
		}
		if pageNr > 1 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", pageNr)
		b.WriteString(text)
	}

	out := b.String()
	if countText(out) < MinTextChars {
		return "", labdoc.Errorf(labdoc.ENOTFOUND, "no text layer found; OCR required")
	}
	return out, nil
}

func pageText(pdf *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pdf, pageNr)
	if err != nil {
		return "", fmt.Errorf("page %d content: %w", pageNr, err)
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("page %d content: %w", pageNr, err)
	}
	return StreamText(data), nil
}

// countText counts non-space characters outside page markers.
func countText(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(line, "--- Page ") {
			continue
		}
		for _, r := range line {
			if !unicode.IsSpace(r) {
				n++
			}
		}
	}
	return n
}
