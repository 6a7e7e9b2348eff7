package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fwojciec/labdoc"
)

// timeFormat is the layout for timestamps in human-readable output.
const timeFormat = "2006-01-02 15:04:05"

// Run executes the model command.
func (c *ModelCmd) Run(deps *Dependencies) error {
	data := labdoc.NewModelData(deps.Rules)

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		return nil
	}

	for i, s := range data.Schemas {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "%s  fields=%d  trained=%d  revision=%s\n",
			s.DocType, data.FieldCounts[s.DocType], len(data.TrainingHistory[s.DocType]), shortRevision(data.Revisions[s.DocType]))

		examples := data.ExtractionExamples[s.DocType]
		names := make([]string, 0, len(examples))
		for name := range examples {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fe := examples[name]
			fmt.Fprintf(deps.Stdout, "  %s: %s", name, fe.Pattern)
			if n := len(fe.Examples); n > 0 {
				fmt.Fprintf(deps.Stdout, "  (%d examples)", n)
			}
			fmt.Fprintln(deps.Stdout)
		}
	}
	return nil
}

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	var docType labdoc.DocType
	if c.DocType != "" {
		docType = labdoc.DocType(c.DocType)
		if err := docType.Validate(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", labdoc.ErrorMessage(err))
			return err
		}
	}

	events := deps.Rules.History(docType)
	if len(events) == 0 {
		fmt.Fprintln(deps.Stdout, "No training history.")
		return nil
	}

	for _, ev := range events {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s", ev.Timestamp.Local().Format(timeFormat), ev.DocType, ev.Action)
		if ev.Field != "" {
			fmt.Fprintf(deps.Stdout, "  %s", ev.Field)
		}
		if ev.Pattern != "" {
			fmt.Fprintf(deps.Stdout, "  %s", ev.Pattern)
		}
		if ev.Example != nil {
			fmt.Fprintf(deps.Stdout, "  example=%q", ev.Example.Value)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
