package locsearch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/locsearch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := locsearch.Errorf(locsearch.EUNAVAILABLE, "source %q unreachable", "tavily")

	assert.Equal(t, locsearch.EUNAVAILABLE, locsearch.ErrorCode(err))
	assert.Equal(t, "source \"tavily\" unreachable", locsearch.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("retrieve: %w", locsearch.Errorf(locsearch.ECONFIG, "no sources"))

	assert.Equal(t, locsearch.ECONFIG, locsearch.ErrorCode(err))
	assert.Equal(t, "no sources", locsearch.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, locsearch.EINTERNAL, locsearch.ErrorCode(err))
	assert.Equal(t, "Internal error.", locsearch.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, locsearch.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, locsearch.ErrorMessage(nil))
}
