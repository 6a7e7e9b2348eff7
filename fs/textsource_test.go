package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/fs"
	"github.com/fwojciec/labdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTextSource_ReadText(t *testing.T) {
	t.Parallel()

	t.Run("reads text files", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "coa.TXT", "Product Name: Acetone\n")
		src := fs.NewTextSource(nil)

		text, err := src.ReadText(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "Product Name: Acetone\n", text)
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "notes.md", "\ufeffLot: 42")
		src := fs.NewTextSource(nil)

		text, err := src.ReadText(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "Lot: 42", text)
	})

	t.Run("decodes windows-1252 text", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "tds.txt", "Flash point: 23 \xb0C")
		src := fs.NewTextSource(nil)

		text, err := src.ReadText(context.Background(), path)

		require.NoError(t, err)
		assert.Equal(t, "Flash point: 23 °C", text)
	})

	t.Run("delegates PDFs", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		pdf := &mock.TextSource{
			ReadTextFn: func(_ context.Context, path string) (string, error) {
				gotPath = path
				return "pdf text", nil
			},
		}
		src := fs.NewTextSource(pdf)

		text, err := src.ReadText(context.Background(), "/docs/coa.PDF")

		require.NoError(t, err)
		assert.Equal(t, "pdf text", text)
		assert.Equal(t, "/docs/coa.PDF", gotPath)
	})

	t.Run("rejects PDFs without a reader", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewTextSource(nil).ReadText(context.Background(), "coa.pdf")

		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))
	})

	t.Run("rejects images", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewTextSource(nil).ReadText(context.Background(), "scan.jpeg")

		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))
		assert.Contains(t, labdoc.ErrorMessage(err), "OCR")
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewTextSource(nil).ReadText(context.Background(), "sheet.docx")

		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewTextSource(nil).ReadText(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestExpand(t *testing.T) {
	t.Parallel()

	t.Run("walks directories in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		b := writeFile(t, dir, "b.txt", "b")
		a := writeFile(t, dir, "a.pdf", "a")
		nested := writeFile(t, dir, "sub/c.md", "c")
		writeFile(t, dir, "image.png", "x")
		writeFile(t, dir, ".hidden/d.txt", "d")

		got, err := fs.Expand([]string{dir})

		require.NoError(t, err)
		assert.Equal(t, []string{a, b, nested}, got)
	})

	t.Run("keeps explicit files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		img := writeFile(t, dir, "scan.png", "x")
		txt := writeFile(t, dir, "coa.txt", "y")

		got, err := fs.Expand([]string{img, txt})

		require.NoError(t, err)
		assert.Equal(t, []string{img, txt}, got)
	})

	t.Run("returns error for missing path", func(t *testing.T) {
		t.Parallel()

		_, err := fs.Expand([]string{filepath.Join(t.TempDir(), "missing")})

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
