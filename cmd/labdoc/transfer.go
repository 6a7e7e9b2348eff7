package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/modelfile"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) (err error) {
	var w io.Writer = deps.Stdout
	if c.Output != "" {
		f, ferr := os.Create(c.Output)
		if ferr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ferr)
			return ferr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := modelfile.Export(w, deps.Rules); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	if c.Output != "" {
		fmt.Fprintf(deps.Stdout, "Exported %d schemas to %s\n", len(deps.Rules.Schemas()), c.Output)
	}
	return nil
}

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	defer f.Close()

	n, err := modelfile.Import(deps.Ctx, f, deps.Rules)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d schemas\n", n)
	return nil
}

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm reset\n")
		return labdoc.Errorf(labdoc.EINVALID, "use --force to confirm reset")
	}

	docType := labdoc.DocType(c.DocType)
	if err := deps.Rules.ResetSchema(deps.Ctx, docType); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Reset schema %q\n", c.DocType)
	return nil
}
