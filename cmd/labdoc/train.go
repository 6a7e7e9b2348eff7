package main

import (
	"fmt"

	"github.com/fwojciec/labdoc"
)

// Run executes the train command.
func (c *TrainCmd) Run(deps *Dependencies) error {
	req := labdoc.TrainingRequest{
		DocType: labdoc.DocType(c.DocType),
		Field:   c.Field,
		Example: c.Example,
	}
	if c.From != "" {
		text, err := deps.Source.ReadText(deps.Ctx, c.From)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
		req.Context = text
	}

	if err := deps.Trainer.Train(deps.Ctx, req); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Trained %s.%s\n", c.DocType, c.Field)
	printActivePattern(deps, req.DocType, c.Field)
	return nil
}

// Run executes the add-rule command.
func (c *AddRuleCmd) Run(deps *Dependencies) error {
	docType := labdoc.DocType(c.DocType)
	if err := deps.Trainer.AddPattern(deps.Ctx, docType, c.Field, c.Pattern); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added rule %s.%s\n", c.DocType, c.Field)
	return nil
}

// Run executes the edit-pattern command.
func (c *EditPatternCmd) Run(deps *Dependencies) error {
	docType := labdoc.DocType(c.DocType)
	if err := deps.Trainer.EditPattern(deps.Ctx, docType, c.Field, c.Pattern); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated pattern %s.%s\n", c.DocType, c.Field)
	return nil
}

func printActivePattern(deps *Dependencies, docType labdoc.DocType, field string) {
	schema := deps.Rules.Schema(docType)
	if schema.DocType != docType {
		return
	}
	if rule := schema.Field(field); rule != nil && len(rule.Patterns) > 0 {
		fmt.Fprintf(deps.Stdout, "  pattern: %s\n", rule.Patterns[0].Expr)
	}
}
