package mock

import (
	"context"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.Trainer = (*Trainer)(nil)

// Trainer is a mock implementation of labdoc.Trainer.
type Trainer struct {
	TrainFn       func(ctx context.Context, req labdoc.TrainingRequest) error
	AddPatternFn  func(ctx context.Context, docType labdoc.DocType, field string, expr string) error
	EditPatternFn func(ctx context.Context, docType labdoc.DocType, field string, expr string) error
}

func (t *Trainer) Train(ctx context.Context, req labdoc.TrainingRequest) error {
	return t.TrainFn(ctx, req)
}

func (t *Trainer) AddPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) error {
	return t.AddPatternFn(ctx, docType, field, expr)
}

func (t *Trainer) EditPattern(ctx context.Context, docType labdoc.DocType, field string, expr string) error {
	return t.EditPatternFn(ctx, docType, field, expr)
}
