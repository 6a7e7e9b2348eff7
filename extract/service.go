// Package extract turns lab document text into extraction records using
// the rules held in a labdoc.RuleStore.
package extract

import (
	"fmt"

	"github.com/fwojciec/labdoc"
)

var _ labdoc.Extractor = (*Service)(nil)

// Service assembles extraction records: it normalizes and classifies the
// text, then runs field extraction and table parsing against one schema
// snapshot.
type Service struct {
	Classifier labdoc.Classifier
	Rules      labdoc.RuleStore
	Table      *TableParser
}

// NewService creates a Service.
func NewService(classifier labdoc.Classifier, rules labdoc.RuleStore) *Service {
	return &Service{
		Classifier: classifier,
		Rules:      rules,
		Table:      NewTableParser(),
	}
}

// Extract classifies raw and extracts its fields and test results.
// The returned record's FullText is raw as given.
func (s *Service) Extract(raw string) *labdoc.ExtractionRecord {
	rec := &labdoc.ExtractionRecord{
		DocType:     labdoc.DocTypeUnknown,
		Fields:      map[string]string{},
		TestResults: []labdoc.TestRow{},
		FullText:    raw,
		Warnings:    []string{},
	}

	text := labdoc.Normalize(raw)
	if text == "" {
		return rec
	}

	rec.DocType = s.Classifier.Classify(text)
	schema := s.Rules.Schema(rec.DocType)
	rec.Fields = ExtractFields(schema, text)

	table := s.Table.ParseDetailed(text)
	rec.TestResults = table.Rows
	if !table.Found && schema.DocType == labdoc.DocTypeUnknown {
		rec.TestResults = GenericTestRows(text)
	}

	for _, f := range schema.Fields {
		if _, ok := rec.Fields[f.Name]; !ok {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("field %q not found", f.Name))
		}
	}
	if table.Found && len(table.Rows) == 0 {
		rec.Warnings = append(rec.Warnings, "test results section found but no rows parsed")
	}
	for _, line := range table.Unparsed {
		rec.Warnings = append(rec.Warnings, "unparsed table line: "+line)
	}

	return rec
}
