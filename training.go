package labdoc

import (
	"context"
	"time"
)

// TrainingAction names the kind of rule store mutation a training event records.
type TrainingAction string

// Training actions.
const (
	ActionAddRule       TrainingAction = "add_rule"
	ActionUpdatePattern TrainingAction = "update_pattern"
	ActionResetSchema   TrainingAction = "reset_schema"
	ActionImportSchema  TrainingAction = "import_schema"
)

// TrainingEvent is one entry in the append-only audit log of rule store
// mutations.
type TrainingEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	DocType   DocType        `json:"docType"`
	Field     string         `json:"field,omitempty"`
	Action    TrainingAction `json:"action"`
	Example   *Example       `json:"example,omitempty"`
	Pattern   string         `json:"pattern,omitempty"`
}

// TrainingRequest is an operator annotation: a highlighted span of text
// named as a field of a document type.
type TrainingRequest struct {
	DocType DocType `json:"docType"`
	Field   string  `json:"field"`

	// Example is the highlighted value.
	Example string `json:"example"`

	// Context is the surrounding document text the example was taken from.
	// May be empty, in which case the pattern is the literal example.
	Context string `json:"context,omitempty"`
}

// Validate returns an error if the request is missing required fields.
func (r *TrainingRequest) Validate() error {
	if err := r.DocType.Validate(); err != nil {
		return err
	}
	if r.Field == "" {
		return Errorf(EINVALID, "field name required")
	}
	if r.Example == "" {
		return Errorf(EINVALID, "example text required")
	}
	return nil
}

// Trainer turns operator input into rule store mutations.
type Trainer interface {
	// Train synthesizes a pattern from the example and adds it to the
	// field's rule. Validation happens before any write.
	Train(ctx context.Context, req TrainingRequest) error

	// AddPattern validates a hand-written expression and adds it to the
	// front of the field's rule, creating the rule if needed.
	AddPattern(ctx context.Context, docType DocType, field string, expr string) error

	// EditPattern replaces the active (first) pattern of a field.
	// Returns EPATTERN if expr is invalid.
	EditPattern(ctx context.Context, docType DocType, field string, expr string) error
}
