package mock

import (
	"context"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.TextSource = (*TextSource)(nil)

// TextSource is a mock implementation of labdoc.TextSource.
type TextSource struct {
	ReadTextFn func(ctx context.Context, path string) (string, error)
}

func (s *TextSource) ReadText(ctx context.Context, path string) (string, error) {
	return s.ReadTextFn(ctx, path)
}
