// Package excelize writes extraction records to XLSX workbooks.
package excelize

import (
	"fmt"
	"io"
	"sort"

	"github.com/fwojciec/labdoc"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the order they appear in the workbook.
const (
	FieldsSheet      = "Fields"
	TestResultsSheet = "Test Results"
	WarningsSheet    = "Warnings"
)

// Entry is one extracted document: where it came from and what was found.
type Entry struct {
	Source string
	Record *labdoc.ExtractionRecord
}

// WriteRecords writes entries to w as an XLSX workbook with one row per
// field, one row per test result and one row per warning.
func WriteRecords(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", FieldsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, name := range []string{TestResultsSheet, WarningsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet: %w", err)
		}
	}

	fields := &sheetWriter{file: f, sheet: FieldsSheet}
	tests := &sheetWriter{file: f, sheet: TestResultsSheet}
	warnings := &sheetWriter{file: f, sheet: WarningsSheet}

	fields.row("Source", "Document Type", "Field", "Value")
	tests.row("Source", "Document Type", "Test", "Specification", "Result")
	warnings.row("Source", "Warning")

	for _, e := range entries {
		rec := e.Record
		if rec == nil {
			continue
		}

		names := make([]string, 0, len(rec.Fields))
		for name := range rec.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fields.row(e.Source, string(rec.DocType), name, rec.Fields[name])
		}

		for _, r := range rec.TestResults {
			tests.row(e.Source, string(rec.DocType), r.Test, r.Specification, r.Result)
		}

		for _, msg := range rec.Warnings {
			warnings.row(e.Source, msg)
		}
	}

	for _, sw := range []*sheetWriter{fields, tests, warnings} {
		if sw.err != nil {
			return fmt.Errorf("xlsx %s: %w", sw.sheet, sw.err)
		}
	}

	_ = f.SetColWidth(FieldsSheet, "A", "A", 40)
	_ = f.SetColWidth(FieldsSheet, "B", "C", 22)
	_ = f.SetColWidth(FieldsSheet, "D", "D", 48)
	_ = f.SetColWidth(TestResultsSheet, "A", "A", 40)
	_ = f.SetColWidth(TestResultsSheet, "B", "B", 22)
	_ = f.SetColWidth(TestResultsSheet, "C", "E", 36)
	_ = f.SetColWidth(WarningsSheet, "A", "A", 40)
	_ = f.SetColWidth(WarningsSheet, "B", "B", 80)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	next  int
	err   error
}

func (s *sheetWriter) row(values ...string) {
	if s.err != nil {
		return
	}
	s.next++
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		s.err = err
		return
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	s.err = s.file.SetSheetRow(s.sheet, cell, &cells)
}
