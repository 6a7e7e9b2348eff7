package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/labdoc"
	"github.com/fwojciec/labdoc/mock"
	labslog "github.com/fwojciec/labdoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingTrainer_Train(t *testing.T) {
	t.Parallel()

	t.Run("logs request", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var got labdoc.TrainingRequest
		inner := &mock.Trainer{
			TrainFn: func(_ context.Context, req labdoc.TrainingRequest) error {
				got = req
				return nil
			},
		}
		req := labdoc.TrainingRequest{DocType: labdoc.DocTypeCOA, Field: "lot_number", Example: "A1", Context: "Lot: A1"}

		err := labslog.NewLoggingTrainer(inner, logger).Train(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, req, got)
		output := buf.String()
		assert.Contains(t, output, "msg=train")
		assert.Contains(t, output, "doc_type=coa")
		assert.Contains(t, output, "field=lot_number")
		assert.Contains(t, output, "context=true")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Trainer{
			TrainFn: func(context.Context, labdoc.TrainingRequest) error {
				return labdoc.Errorf(labdoc.EPATTERN, "example not found in context")
			},
		}

		err := labslog.NewLoggingTrainer(inner, logger).Train(context.Background(), labdoc.TrainingRequest{DocType: labdoc.DocTypeCOA})

		assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
		assert.Contains(t, buf.String(), "err=")
	})
}

func TestLoggingTrainer_AddPattern(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Trainer{
		AddPatternFn: func(_ context.Context, docType labdoc.DocType, field string, expr string) error {
			return nil
		},
	}

	err := labslog.NewLoggingTrainer(inner, logger).AddPattern(context.Background(), labdoc.DocTypeSDS, "cas_number", `CAS:\s*(\S+)`)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, `msg="add pattern"`)
	assert.Contains(t, output, "field=cas_number")
}

func TestLoggingTrainer_EditPattern(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var gotExpr string
	inner := &mock.Trainer{
		EditPatternFn: func(_ context.Context, docType labdoc.DocType, field string, expr string) error {
			gotExpr = expr
			return nil
		},
	}

	err := labslog.NewLoggingTrainer(inner, logger).EditPattern(context.Background(), labdoc.DocTypeSDS, "cas_number", `CAS No\.?:\s*(\S+)`)

	require.NoError(t, err)
	assert.Equal(t, `CAS No\.?:\s*(\S+)`, gotExpr)
	assert.Contains(t, buf.String(), `msg="edit pattern"`)
}
