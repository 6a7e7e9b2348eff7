// Package fs reads lab documents from the local file system.
package fs

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/labdoc"
	"golang.org/x/text/encoding/charmap"
)

var (
	textExts  = map[string]bool{".txt": true, ".text": true, ".md": true}
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true, ".bmp": true, ".gif": true}
)

// Ensure TextSource implements labdoc.TextSource at compile time.
var _ labdoc.TextSource = (*TextSource)(nil)

// TextSource reads plain text files directly and hands PDFs to PDF.
type TextSource struct {
	PDF labdoc.TextSource
}

// NewTextSource creates a TextSource that delegates PDF files to pdf.
func NewTextSource(pdf labdoc.TextSource) *TextSource {
	return &TextSource{PDF: pdf}
}

// ReadText returns the text of the file at path, chosen by extension.
// Image files are rejected with EINVALID since they need OCR.
func (s *TextSource) ReadText(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case textExts[ext]:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return decodeText(data), nil
	case ext == ".pdf":
		if s.PDF == nil {
			return "", labdoc.Errorf(labdoc.EINVALID, "PDF support not configured")
		}
		return s.PDF.ReadText(ctx, path)
	case imageExts[ext]:
		return "", labdoc.Errorf(labdoc.EINVALID, "%s: image files require OCR, which is not supported", filepath.Base(path))
	default:
		return "", labdoc.Errorf(labdoc.EINVALID, "%s: unsupported file type %q", filepath.Base(path), ext)
	}
}

// decodeText returns data as UTF-8. Files that are not valid UTF-8 are
// read as Windows-1252, the usual encoding of exported lab text files.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// Supported reports whether path has an extension ReadText can handle.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return textExts[ext] || ext == ".pdf"
}

// Expand resolves paths into document files. Directories are walked
// recursively and contribute their supported files in lexical order.
// Files named explicitly are always included.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if Supported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
