package mock

import (
	"context"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.RuleStore = (*RuleStore)(nil)

// RuleStore is a mock implementation of labdoc.RuleStore.
type RuleStore struct {
	SchemaFn               func(docType labdoc.DocType) *labdoc.DocumentSchema
	SchemasFn              func() []*labdoc.DocumentSchema
	AddRuleFn              func(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern, example *labdoc.Example) error
	ReplaceActivePatternFn func(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern) error
	ResetSchemaFn          func(ctx context.Context, docType labdoc.DocType) error
	PutSchemasFn           func(ctx context.Context, schemas ...*labdoc.DocumentSchema) error
	RevisionFn             func(docType labdoc.DocType) string
	HistoryFn              func(docType labdoc.DocType) []labdoc.TrainingEvent
}

func (s *RuleStore) Schema(docType labdoc.DocType) *labdoc.DocumentSchema {
	return s.SchemaFn(docType)
}

func (s *RuleStore) Schemas() []*labdoc.DocumentSchema {
	return s.SchemasFn()
}

func (s *RuleStore) AddRule(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern, example *labdoc.Example) error {
	return s.AddRuleFn(ctx, docType, field, pattern, example)
}

func (s *RuleStore) ReplaceActivePattern(ctx context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern) error {
	return s.ReplaceActivePatternFn(ctx, docType, field, pattern)
}

func (s *RuleStore) ResetSchema(ctx context.Context, docType labdoc.DocType) error {
	return s.ResetSchemaFn(ctx, docType)
}

func (s *RuleStore) PutSchemas(ctx context.Context, schemas ...*labdoc.DocumentSchema) error {
	return s.PutSchemasFn(ctx, schemas...)
}

func (s *RuleStore) Revision(docType labdoc.DocType) string {
	return s.RevisionFn(docType)
}

func (s *RuleStore) History(docType labdoc.DocType) []labdoc.TrainingEvent {
	return s.HistoryFn(docType)
}
