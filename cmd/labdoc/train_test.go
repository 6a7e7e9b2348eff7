package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/labdoc"
	main "github.com/fwojciec/labdoc/cmd/labdoc"
	"github.com/fwojciec/labdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("trains with context from file", func(t *testing.T) {
		t.Parallel()

		var got labdoc.TrainingRequest
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Source: &mock.TextSource{
				ReadTextFn: func(_ context.Context, path string) (string, error) {
					assert.Equal(t, "/docs/sds.txt", path)
					return "CAS Number: 123-45-6789", nil
				},
			},
			Trainer: &mock.Trainer{
				TrainFn: func(_ context.Context, req labdoc.TrainingRequest) error {
					got = req
					return nil
				},
			},
			Rules: &mock.RuleStore{
				SchemaFn: func(docType labdoc.DocType) *labdoc.DocumentSchema {
					return &labdoc.DocumentSchema{
						DocType: labdoc.DocTypeSDS,
						Fields: []labdoc.FieldRule{
							{Name: "cas_number", Patterns: []labdoc.Pattern{{Expr: `CAS\s+Number[^\pL\pN\n]*(123-45-6789)`}}},
						},
					}
				},
			},
		}

		cmd := &main.TrainCmd{DocType: "sds", Field: "cas_number", Example: "123-45-6789", From: "/docs/sds.txt"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, labdoc.TrainingRequest{
			DocType: labdoc.DocTypeSDS,
			Field:   "cas_number",
			Example: "123-45-6789",
			Context: "CAS Number: 123-45-6789",
		}, got)
		assert.Contains(t, stdout.String(), "Trained sds.cas_number")
		assert.Contains(t, stdout.String(), `pattern: CAS\s+Number[^\pL\pN\n]*(123-45-6789)`)
	})

	t.Run("reports training errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Trainer: &mock.Trainer{
				TrainFn: func(context.Context, labdoc.TrainingRequest) error {
					return labdoc.Errorf(labdoc.EPATTERN, "example %q not found in context", "x")
				},
			},
		}

		cmd := &main.TrainCmd{DocType: "sds", Field: "cas_number", Example: "x"}
		err := cmd.Run(deps)

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), `error: example "x" not found in context`)
	})
}

func TestAddRuleCmd_Run(t *testing.T) {
	t.Parallel()

	var gotExpr string
	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Trainer: &mock.Trainer{
			AddPatternFn: func(_ context.Context, docType labdoc.DocType, field string, expr string) error {
				assert.Equal(t, labdoc.DocTypeCOA, docType)
				assert.Equal(t, "grade", field)
				gotExpr = expr
				return nil
			},
		},
	}

	cmd := &main.AddRuleCmd{DocType: "coa", Field: "grade", Pattern: `Grade:\s*(\S+)`}

	require.NoError(t, cmd.Run(deps))
	assert.Equal(t, `Grade:\s*(\S+)`, gotExpr)
	assert.Contains(t, stdout.String(), "Added rule coa.grade")
}

func TestEditPatternCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports invalid pattern", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Trainer: &mock.Trainer{
				EditPatternFn: func(_ context.Context, _ labdoc.DocType, _ string, expr string) error {
					return labdoc.Errorf(labdoc.EPATTERN, "pattern %q does not compile", expr)
				},
			},
		}

		cmd := &main.EditPatternCmd{DocType: "sds", Field: "cas_number", Pattern: "(unbalanced("}
		err := cmd.Run(deps)

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: pattern")
		assert.Empty(t, stdout.String())
	})
}
