package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/classify"
	"github.com/fwojciec/labdoc/extract"
	"github.com/fwojciec/labdoc/fs"
	"github.com/fwojciec/labdoc/pdfcpu"
	"github.com/fwojciec/labdoc/seed"
	labslog "github.com/fwojciec/labdoc/slog"
	"github.com/fwojciec/labdoc/sqlite"
	"github.com/fwojciec/labdoc/train"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the rule store.
	DB *sqlite.DB

	// Rule store, exposed for end-to-end testing.
	Rules *sqlite.RuleStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr before being returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("labdoc"),
		kong.Description("Extract structured data from lab documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'labdoc --help' to see available commands")
		return labdoc.Errorf(labdoc.EINVALID, "no command specified")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	seeds, err := seed.Schemas()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", labdoc.ErrorMessage(err))
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LABDOC_DB to use a different database path\n")
		fmt.Fprintf(stderr, "error: failed to open database at %q: %s\n", m.DBPath, err)
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Rules = sqlite.NewRuleStore(m.DB, seeds)
	if err := m.Rules.Load(ctx); err != nil {
		fmt.Fprintf(stderr, "error: failed to load rules: %s\n", err)
		return err
	}

	classifier := labslog.NewLoggingClassifier(classify.NewClassifier(classify.DefaultSignatures()), logger)
	deps.Rules = m.Rules
	deps.Extractor = labslog.NewLoggingExtractor(extract.NewService(classifier, m.Rules), logger)
	deps.Trainer = labslog.NewLoggingTrainer(train.NewIngestor(m.Rules), logger)

	maxPages := 0
	if strings.HasPrefix(kongCtx.Command(), "extract") {
		maxPages = cli.Extract.MaxPages
	}
	deps.Source = labslog.NewLoggingTextSource(fs.NewTextSource(pdfcpu.NewTextSource(maxPages)), logger)

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("LABDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "labdoc.db"
	}
	dir := filepath.Join(home, ".labdoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "labdoc.db")
}
