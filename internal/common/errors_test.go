package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	bare := NewAppError("CONFIG_ERROR", "bad threshold", nil)
	assert.Equal(t, "CONFIG_ERROR: bad threshold", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))

	wrapped := NewAppError("CONFIG_ERROR", "bad threshold", ErrInvalidInput)
	assert.Equal(t, "CONFIG_ERROR: bad threshold: invalid input", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "context"))

	err := WrapError(ErrUnsupported, "load document")
	require.Error(t, err)
	assert.Equal(t, "load document: unsupported file format", err.Error())
	assert.ErrorIs(t, err, ErrUnsupported)
}
