// Package slog provides structured logging decorators for labdoc services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/labdoc"
)

// Ensure LoggingExtractor implements labdoc.Extractor.
var _ labdoc.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging of each extraction.
type LoggingExtractor struct {
	next   labdoc.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next labdoc.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(raw string) (rec *labdoc.ExtractionRecord) {
	defer func(begin time.Time) {
		if rec == nil {
			e.logger.Warn("extract returned no record", "bytes", len(raw), "duration", time.Since(begin))
			return
		}
		e.logger.Info("extract",
			"doc_type", string(rec.DocType),
			"bytes", len(raw),
			"fields", len(rec.Fields),
			"test_results", len(rec.TestResults),
			"warnings", len(rec.Warnings),
			"duration", time.Since(begin),
		)
		for _, w := range rec.Warnings {
			e.logger.Debug("extract warning", "doc_type", string(rec.DocType), "warning", w)
		}
	}(time.Now())
	return e.next.Extract(raw)
}
