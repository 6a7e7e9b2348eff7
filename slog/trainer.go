package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/labdoc"
)

// Ensure LoggingTrainer implements labdoc.Trainer.
var _ labdoc.Trainer = (*LoggingTrainer)(nil)

// LoggingTrainer wraps a Trainer with logging of every rule change.
type LoggingTrainer struct {
	next   labdoc.Trainer
	logger *slog.Logger
}

// NewLoggingTrainer creates a new LoggingTrainer.
func NewLoggingTrainer(next labdoc.Trainer, logger *slog.Logger) *LoggingTrainer {
	return &LoggingTrainer{next: next, logger: logger}
}

// Train delegates to the wrapped trainer and logs the operation.
func (t *LoggingTrainer) Train(ctx context.Context, req labdoc.TrainingRequest) (err error) {
	defer func(begin time.Time) {
		t.logger.Info("train",
			"doc_type", string(req.DocType),
			"field", req.Field,
			"context", req.Context != "",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Train(ctx, req)
}

// AddPattern delegates to the wrapped trainer and logs the operation.
func (t *LoggingTrainer) AddPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) (err error) {
	defer func(begin time.Time) {
		t.logger.Info("add pattern",
			"doc_type", string(docType),
			"field", field,
			"pattern", expr,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.AddPattern(ctx, docType, field, expr)
}

// EditPattern delegates to the wrapped trainer and logs the operation.
func (t *LoggingTrainer) EditPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) (err error) {
	defer func(begin time.Time) {
		t.logger.Info("edit pattern",
			"doc_type", string(docType),
			"field", field,
			"pattern", expr,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.EditPattern(ctx, docType, field, expr)
}
