package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/labdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Rules     labdoc.RuleStore
	Extractor labdoc.Extractor
	Trainer   labdoc.Trainer
	Source    labdoc.TextSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract     ExtractCmd     `cmd:"" help:"Extract fields and test results from documents"`
	Train       TrainCmd       `cmd:"" help:"Learn a field pattern from a highlighted example"`
	AddRule     AddRuleCmd     `cmd:"" name:"add-rule" help:"Add a hand-written pattern to a field"`
	EditPattern EditPatternCmd `cmd:"" name:"edit-pattern" help:"Replace the active pattern of a field"`
	Model       ModelCmd       `cmd:"" help:"Show schemas, patterns and training summary"`
	History     HistoryCmd     `cmd:"" help:"Show the training history"`
	Export      ExportCmd      `cmd:"" help:"Export the model as JSON"`
	Import      ImportCmd      `cmd:"" help:"Import schemas from a model JSON file"`
	Reset       ResetCmd       `cmd:"" help:"Restore the built-in schema of a document type"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Paths       []string `arg:"" name:"path" help:"Document files or directories" type:"path"`
	JSON        bool     `name:"json" help:"Print records as JSON"`
	XLSX        string   `name:"xlsx" help:"Also write records to this XLSX workbook" type:"path"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent document limit"`
	MaxPages    int      `name:"max-pages" default:"0" help:"Read at most this many PDF pages (0 for all)"`
	FullText    bool     `name:"full-text" help:"Include the document text in JSON output"`
}

// TrainCmd is the "train" subcommand.
type TrainCmd struct {
	DocType string `arg:"" name:"doc-type" help:"Document type"`
	Field   string `arg:"" help:"Field name"`
	Example string `arg:"" help:"Highlighted value"`
	From    string `name:"from" help:"Document the example was taken from" type:"path"`
}

// AddRuleCmd is the "add-rule" subcommand.
type AddRuleCmd struct {
	DocType string `arg:"" name:"doc-type" help:"Document type"`
	Field   string `arg:"" help:"Field name"`
	Pattern string `arg:"" help:"Regular expression with one capture group"`
}

// EditPatternCmd is the "edit-pattern" subcommand.
type EditPatternCmd struct {
	DocType string `arg:"" name:"doc-type" help:"Document type"`
	Field   string `arg:"" help:"Field name"`
	Pattern string `arg:"" help:"Regular expression with one capture group"`
}

// ModelCmd is the "model" subcommand.
type ModelCmd struct {
	JSON bool `name:"json" help:"Print model data as JSON"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	DocType string `arg:"" name:"doc-type" optional:"" help:"Only show events for this document type"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Output string `short:"o" help:"Write to file instead of stdout" type:"path"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File string `arg:"" help:"Model JSON file" type:"existingfile"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	DocType string `arg:"" name:"doc-type" help:"Document type"`
	Force   bool   `help:"Confirm reset"`
}
