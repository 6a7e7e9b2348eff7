package labdoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/labdoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := labdoc.Errorf(labdoc.ENOTFOUND, "field %q not found", "cas_number")

	assert.Equal(t, labdoc.ENOTFOUND, labdoc.ErrorCode(err))
	assert.Equal(t, "field \"cas_number\" not found", labdoc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, labdoc.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, labdoc.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("saving schema: %w", labdoc.Errorf(labdoc.EPATTERN, "bad pattern"))

	assert.Equal(t, labdoc.EPATTERN, labdoc.ErrorCode(err))
	assert.Equal(t, "bad pattern", labdoc.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk full")

	assert.Equal(t, labdoc.EINTERNAL, labdoc.ErrorCode(err))
	assert.Equal(t, "Internal error.", labdoc.ErrorMessage(err))
}
