package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleStore_AddRule(t *testing.T) {
	t.Parallel()

	t.Run("delegates to AddRuleFn", func(t *testing.T) {
		t.Parallel()

		var gotField string
		var gotPattern labdoc.Pattern
		s := &mock.RuleStore{
			AddRuleFn: func(_ context.Context, _ labdoc.DocType, field string, pattern labdoc.Pattern, _ *labdoc.Example) error {
				gotField = field
				gotPattern = pattern
				return nil
			},
		}

		err := s.AddRule(context.Background(), labdoc.DocTypeSDS, "cas_number", labdoc.Pattern{Expr: `CAS:\s*(\S+)`}, nil)

		require.NoError(t, err)
		assert.Equal(t, "cas_number", gotField)
		assert.Equal(t, `CAS:\s*(\S+)`, gotPattern.Expr)
	})
}
