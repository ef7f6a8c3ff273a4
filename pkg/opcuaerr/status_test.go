package opcuaerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("bucket missing")
	err := Wrap(BadInternalError, cause)

	assert.Equal(t, BadInternalError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "bucket missing")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Good, CodeOf(nil))
	assert.Equal(t, BadNodeIdExists, CodeOf(New(BadNodeIdExists)))
	assert.Equal(t, BadInternalError, CodeOf(errors.New("plain error")))

	wrapped := fmt.Errorf("add node: %w", New(BadBrowseNameDuplicated))
	assert.Equal(t, BadBrowseNameDuplicated, CodeOf(wrapped))
}

func TestNewHasNoCause(t *testing.T) {
	err := New(BadNotFound)
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "BadNotFound", err.Error())
}
