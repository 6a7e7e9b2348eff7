package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/excelize"
	"github.com/fwojciec/labdoc/fs"
	"golang.org/x/sync/errgroup"
)

// extractResult is the outcome for one input document.
type extractResult struct {
	Source string                   `json:"source"`
	Record *labdoc.ExtractionRecord `json:"record,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	paths, err := fs.Expand(c.Paths)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no documents found")
		return labdoc.Errorf(labdoc.ENOTFOUND, "no documents found")
	}

	results := make([]extractResult, len(paths))

	g, ctx := errgroup.WithContext(deps.Ctx)
	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			results[i].Source = path
			text, err := deps.Source.ReadText(ctx, path)
			if err != nil {
				results[i].Error = errorText(err)
				return nil
			}
			results[i].Record = deps.Extractor.Extract(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.Source, r.Error)
		}
	}

	if c.JSON {
		out := results
		if !c.FullText {
			out = withoutFullText(results)
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
	} else {
		first := true
		for _, r := range results {
			if r.Record == nil {
				continue
			}
			if !first {
				fmt.Fprintln(deps.Stdout)
			}
			first = false
			fmt.Fprintf(deps.Stdout, "== %s ==\n%s\n", r.Source, labdoc.FormatRecord(r.Record))
		}
	}

	if c.XLSX != "" {
		if err := writeWorkbook(c.XLSX, results); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
	}

	if failed > 0 {
		return labdoc.Errorf(labdoc.EINVALID, "%d of %d documents failed", failed, len(results))
	}
	return nil
}

func withoutFullText(results []extractResult) []extractResult {
	out := make([]extractResult, len(results))
	for i, r := range results {
		out[i] = r
		if r.Record != nil {
			rec := *r.Record
			rec.FullText = ""
			out[i].Record = &rec
		}
	}
	return out
}

func writeWorkbook(path string, results []extractResult) (err error) {
	entries := make([]excelize.Entry, 0, len(results))
	for _, r := range results {
		if r.Record != nil {
			entries = append(entries, excelize.Entry{Source: r.Source, Record: r.Record})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return excelize.WriteRecords(f, entries)
}

// errorText returns the message of application errors and the full text
// of anything else.
func errorText(err error) string {
	if labdoc.ErrorCode(err) == labdoc.EINTERNAL {
		return err.Error()
	}
	return labdoc.ErrorMessage(err)
}
