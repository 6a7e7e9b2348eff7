package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/labdoc/mock"
	labslog "github.com/fwojciec/labdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingTextSource_ReadText(t *testing.T) {
	t.Parallel()

	t.Run("logs path and size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextSource{
			ReadTextFn: func(_ context.Context, path string) (string, error) {
				return "Lot: 42", nil
			},
		}

		text, err := labslog.NewLoggingTextSource(inner, logger).ReadText(context.Background(), "/docs/coa.txt")

		require.NoError(t, err)
		assert.Equal(t, "Lot: 42", text)
		output := buf.String()
		assert.Contains(t, output, "path=/docs/coa.txt")
		assert.Contains(t, output, "bytes=7")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextSource{
			ReadTextFn: func(context.Context, string) (string, error) {
				return "", errors.New("permission denied")
			},
		}

		_, err := labslog.NewLoggingTextSource(inner, logger).ReadText(context.Background(), "/docs/coa.pdf")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="permission denied"`)
	})
}
