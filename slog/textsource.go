package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/labdoc"
)

// Ensure LoggingTextSource implements labdoc.TextSource.
var _ labdoc.TextSource = (*LoggingTextSource)(nil)

// LoggingTextSource wraps a TextSource with logging.
type LoggingTextSource struct {
	next   labdoc.TextSource
	logger *slog.Logger
}

// NewLoggingTextSource creates a new LoggingTextSource.
func NewLoggingTextSource(next labdoc.TextSource, logger *slog.Logger) *LoggingTextSource {
	return &LoggingTextSource{next: next, logger: logger}
}

// ReadText delegates to the wrapped source and logs the operation.
func (s *LoggingTextSource) ReadText(ctx context.Context, path string) (text string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("read text",
			"path", path,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReadText(ctx, path)
}
