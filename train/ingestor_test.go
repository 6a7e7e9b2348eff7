package train_test

import (
	"context"
	"testing"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/mock"
	"github.com/fwojciec/labdoc/train"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	t.Parallel()

	t.Run("anchors capture with label from the same line", func(t *testing.T) {
		t.Parallel()

		p, ex, err := train.Synthesize("123-45-6789", "Safety Data Sheet\nCAS Number: 123-45-6789\nSection 2")

		require.NoError(t, err)
		assert.Equal(t, `CAS\s+Number[^\pL\pN\n]*(123-45-6789)`, p.Expr)
		assert.Equal(t, "CAS Number", p.Prefix)
		assert.Empty(t, p.Suffix)
		assert.Equal(t, labdoc.Example{Text: "CAS Number: 123-45-6789", Value: "123-45-6789"}, ex)
	})

	t.Run("adds the first word after the example as suffix", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("99.5", "Purity: 99.5 % min\tOK")

		require.NoError(t, err)
		assert.Equal(t, `Purity[^\pL\pN\n]*(99\.5)[^\pL\pN\n]*min`, p.Expr)
		assert.Equal(t, "min", p.Suffix)
	})

	t.Run("does not take the next label as suffix", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("67-64-1", "CAS No: 67-64-1 EC Number: 200-662-2")

		require.NoError(t, err)
		assert.Equal(t, "CAS No", p.Prefix)
		assert.Empty(t, p.Suffix)
	})

	t.Run("drops punctuation around the label", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("123-45-6789", "...CAS Number: 123-45-6789...")

		require.NoError(t, err)
		assert.Equal(t, `CAS\s+Number[^\pL\pN\n]*(123-45-6789)`, p.Expr)
		assert.Empty(t, p.Suffix)

		re, err := p.Compile()
		require.NoError(t, err)
		assert.Equal(t, []string{"CAS Number: 123-45-6789", "123-45-6789"}, re.FindStringSubmatch("SAFETY DATA SHEET\nCAS Number: 123-45-6789\n"))
	})

	t.Run("stops the label at a preceding value", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("A100", "Widget X Lot 7 Batch Number: A100")

		require.NoError(t, err)
		assert.Equal(t, "Batch Number", p.Prefix)
		assert.Equal(t, `Batch\s+Number[^\pL\pN\n]*(A100)`, p.Expr)
	})

	t.Run("stops the label at an earlier label", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("B-7", "Ref: Lot No: B-7")

		require.NoError(t, err)
		assert.Equal(t, "Lot No", p.Prefix)
	})

	t.Run("keeps brackets that close the label", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("99.8", "Purity (GC): 99.8")

		require.NoError(t, err)
		assert.Equal(t, "Purity (GC)", p.Prefix)
		assert.Equal(t, `Purity\s+\(GC\)[^\pL\pN\n]*(99\.8)`, p.Expr)
	})

	t.Run("ignores prefix and suffix without letters or digits", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("A100", "-- A100 --")

		require.NoError(t, err)
		assert.Equal(t, `(A100)`, p.Expr)
	})

	t.Run("does not reach across a column gap for the prefix", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("67-64-1", "Product Name: Acetone\tCAS: 67-64-1")

		require.NoError(t, err)
		assert.Equal(t, "CAS", p.Prefix)
	})

	t.Run("keeps label separated by a column gap", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("Acetone", "Product Name:     Acetone")

		require.NoError(t, err)
		assert.Equal(t, `Product\s+Name[^\pL\pN\n]*(Acetone)`, p.Expr)
	})

	t.Run("limits the label to the nearest words", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("X1", "the quick brown fox jumps over the lazy dog X1")

		require.NoError(t, err)
		assert.Equal(t, "the lazy dog", p.Prefix)
	})

	t.Run("limits the label length", func(t *testing.T) {
		t.Parallel()

		p, _, err := train.Synthesize("X1", "Supercalifragilistic Expialidocious Measurement: X1")

		require.NoError(t, err)
		assert.Equal(t, "Expialidocious Measurement", p.Prefix)
	})

	t.Run("escapes regular expression syntax", func(t *testing.T) {
		t.Parallel()

		p, ex, err := train.Synthesize("C6H6 (99.9%)", "Formula: C6H6 (99.9%)")

		require.NoError(t, err)
		assert.Equal(t, `Formula[^\pL\pN\n]*(C6H6\s+\(99\.9%\))`, p.Expr)
		assert.Equal(t, "C6H6 (99.9%)", ex.Value)
	})

	t.Run("uses bare literal without context", func(t *testing.T) {
		t.Parallel()

		p, ex, err := train.Synthesize("Widget  X", "")

		require.NoError(t, err)
		assert.Equal(t, `(Widget\s+X)`, p.Expr)
		assert.Equal(t, labdoc.Example{Text: "Widget X", Value: "Widget X"}, ex)
	})

	t.Run("rejects example missing from context", func(t *testing.T) {
		t.Parallel()

		_, _, err := train.Synthesize("999", "CAS Number: 123-45-6789")

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
	})

	t.Run("rejects blank example", func(t *testing.T) {
		t.Parallel()

		_, _, err := train.Synthesize("   ", "text")

		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))
	})
}

func TestIngestor_Train(t *testing.T) {
	t.Parallel()

	t.Run("adds synthesized rule to store", func(t *testing.T) {
		t.Parallel()

		var gotDocType labdoc.DocType
		var gotField string
		var gotPattern labdoc.Pattern
		var gotExample *labdoc.Example
		store := &mock.RuleStore{
			AddRuleFn: func(_ context.Context, docType labdoc.DocType, field string, pattern labdoc.Pattern, example *labdoc.Example) error {
				gotDocType, gotField, gotPattern, gotExample = docType, field, pattern, example
				return nil
			},
		}

		err := train.NewIngestor(store).Train(context.Background(), labdoc.TrainingRequest{
			DocType: labdoc.DocTypeSDS,
			Field:   "cas_number",
			Example: "123-45-6789",
			Context: "CAS Number: 123-45-6789",
		})

		require.NoError(t, err)
		assert.Equal(t, labdoc.DocTypeSDS, gotDocType)
		assert.Equal(t, "cas_number", gotField)
		assert.Equal(t, `CAS\s+Number[^\pL\pN\n]*(123-45-6789)`, gotPattern.Expr)
		require.NotNil(t, gotExample)
		assert.Equal(t, "123-45-6789", gotExample.Value)
	})

	t.Run("does not write when synthesis fails", func(t *testing.T) {
		t.Parallel()

		store := &mock.RuleStore{
			AddRuleFn: func(context.Context, labdoc.DocType, string, labdoc.Pattern, *labdoc.Example) error {
				t.Fatal("AddRule should not be called")
				return nil
			},
		}

		err := train.NewIngestor(store).Train(context.Background(), labdoc.TrainingRequest{
			DocType: labdoc.DocTypeSDS,
			Field:   "cas_number",
			Example: "999",
			Context: "CAS Number: 123-45-6789",
		})

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
	})

	t.Run("validates request", func(t *testing.T) {
		t.Parallel()

		ing := train.NewIngestor(&mock.RuleStore{})

		err := ing.Train(context.Background(), labdoc.TrainingRequest{DocType: "Bad Type", Field: "f", Example: "x"})
		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))

		err = ing.Train(context.Background(), labdoc.TrainingRequest{DocType: labdoc.DocTypeSDS, Example: "x"})
		assert.Equal(t, labdoc.EINVALID, labdoc.ErrorCode(err))
	})
}

func TestIngestor_AddPattern(t *testing.T) {
	t.Parallel()

	t.Run("adds validated pattern without example", func(t *testing.T) {
		t.Parallel()

		var gotExample *labdoc.Example
		var called bool
		store := &mock.RuleStore{
			AddRuleFn: func(_ context.Context, _ labdoc.DocType, _ string, _ labdoc.Pattern, example *labdoc.Example) error {
				called = true
				gotExample = example
				return nil
			},
		}

		err := train.NewIngestor(store).AddPattern(context.Background(), labdoc.DocTypeTDS, "density", `Density:\s*(\S+)`)

		require.NoError(t, err)
		assert.True(t, called)
		assert.Nil(t, gotExample)
	})

	t.Run("rejects pattern with two capture groups", func(t *testing.T) {
		t.Parallel()

		err := train.NewIngestor(&mock.RuleStore{}).AddPattern(context.Background(), labdoc.DocTypeTDS, "density", `(a)(b)`)

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
	})
}

func TestIngestor_EditPattern(t *testing.T) {
	t.Parallel()

	t.Run("replaces active pattern", func(t *testing.T) {
		t.Parallel()

		var got labdoc.Pattern
		store := &mock.RuleStore{
			ReplaceActivePatternFn: func(_ context.Context, _ labdoc.DocType, _ string, pattern labdoc.Pattern) error {
				got = pattern
				return nil
			},
		}

		err := train.NewIngestor(store).EditPattern(context.Background(), labdoc.DocTypeSDS, "cas_number", `CAS:\s*(\S+)`)

		require.NoError(t, err)
		assert.Equal(t, `CAS:\s*(\S+)`, got.Expr)
	})

	t.Run("rejects unbalanced pattern before touching store", func(t *testing.T) {
		t.Parallel()

		err := train.NewIngestor(&mock.RuleStore{}).EditPattern(context.Background(), labdoc.DocTypeSDS, "cas_number", "(unbalanced(")

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
	})
}
