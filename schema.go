package labdoc

import (
	"context"
	"regexp"
	"strings"
)

// Pattern is a regular expression with exactly one capturing group that
// denotes the value to extract.
type Pattern struct {
	Expr string `json:"expr"`

	// Prefix and Suffix are the literal context strings a pattern was
	// synthesized from. Empty for hand-written patterns.
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// Validate returns EPATTERN if the expression does not compile or does not
// have exactly one capture group.
func (p Pattern) Validate() error {
	_, err := p.Compile()
	return err
}

// Compile compiles the expression and checks its capture group count.
func (p Pattern) Compile() (*regexp.Regexp, error) {
	if strings.TrimSpace(p.Expr) == "" {
		return nil, Errorf(EPATTERN, "pattern expression required")
	}
	re, err := regexp.Compile(p.Expr)
	if err != nil {
		return nil, Errorf(EPATTERN, "pattern %q does not compile: %s", p.Expr, err)
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, Errorf(EPATTERN, "pattern %q must have exactly one capture group, has %d", p.Expr, n)
	}
	return re, nil
}

// Example is a worked example of a field rule: the text a value was
// taken from and the value itself.
type Example struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// FieldRule extracts one named field. Patterns are tried in order and
// the first match wins.
type FieldRule struct {
	Name     string    `json:"name"`
	Patterns []Pattern `json:"patterns"`
	Examples []Example `json:"examples,omitempty"`
}

// Validate returns an error if the rule has no name or an invalid pattern.
func (r *FieldRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return Errorf(EINVALID, "field name required")
	}
	if len(r.Patterns) == 0 {
		return Errorf(EINVALID, "field %q has no patterns", r.Name)
	}
	for _, p := range r.Patterns {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DocumentSchema is the ordered list of field rules for one document type.
type DocumentSchema struct {
	DocType DocType     `json:"docType"`
	Fields  []FieldRule `json:"fields"`
}

// Validate returns an error if the schema or any of its rules is invalid.
func (s *DocumentSchema) Validate() error {
	if err := s.DocType.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		if err := s.Fields[i].Validate(); err != nil {
			return err
		}
		if seen[s.Fields[i].Name] {
			return Errorf(EINVALID, "duplicate field %q in schema %q", s.Fields[i].Name, s.DocType)
		}
		seen[s.Fields[i].Name] = true
	}
	return nil
}

// Field returns the rule with the given name, or nil.
func (s *DocumentSchema) Field(name string) *FieldRule {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the schema.
func (s *DocumentSchema) Clone() *DocumentSchema {
	if s == nil {
		return nil
	}
	out := &DocumentSchema{DocType: s.DocType, Fields: make([]FieldRule, len(s.Fields))}
	for i, f := range s.Fields {
		out.Fields[i] = FieldRule{
			Name:     f.Name,
			Patterns: append([]Pattern(nil), f.Patterns...),
			Examples: append([]Example(nil), f.Examples...),
		}
	}
	return out
}

// RuleStore is the durable source of truth for extraction behavior.
// Reads return snapshots and never block on writers; writes are
// serialized and either fully persist or leave the store unchanged.
type RuleStore interface {
	// Schema returns a copy of the schema for docType. Returns the
	// DocTypeUnknown schema if docType has none. Never fails.
	Schema(docType DocType) *DocumentSchema

	// Schemas returns copies of all schemas ordered by document type.
	Schemas() []*DocumentSchema

	// AddRule appends a new field rule, or puts pattern at the front of an
	// existing rule's patterns. A non-nil example is appended to the rule.
	// Returns EPATTERN if the pattern is invalid.
	AddRule(ctx context.Context, docType DocType, field string, pattern Pattern, example *Example) error

	// ReplaceActivePattern replaces the first pattern of a field rule.
	// Returns EPATTERN if the pattern is invalid and ENOTFOUND if the
	// field does not exist. The store is unchanged on error.
	ReplaceActivePattern(ctx context.Context, docType DocType, field string, pattern Pattern) error

	// ResetSchema restores the built-in schema for docType.
	// Returns ENOTFOUND if docType has no built-in schema.
	ResetSchema(ctx context.Context, docType DocType) error

	// PutSchemas replaces whole schemas in one write: either all of them
	// are stored or the store is unchanged.
	PutSchemas(ctx context.Context, schemas ...*DocumentSchema) error

	// Revision returns a content hash of the stored schema for docType.
	// Returns an empty string if docType has no stored schema.
	Revision(docType DocType) string

	// History returns training events for docType in the order they were
	// recorded. An empty docType returns every event.
	History(docType DocType) []TrainingEvent
}
