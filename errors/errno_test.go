package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/sofiabesenski4/filesystem/errors"
	"github.com/stretchr/testify/assert"
)

func TestLLFSErrorWithMessage(t *testing.T) {
	newErr := errors.ErrDirectoryFull.WithMessage("/testdir1")
	assert.Equal(
		t, "directory has no free entry slot: /testdir1", newErr.Error())
	assert.ErrorIs(t, newErr, errors.ErrDirectoryFull)
}

func TestLLFSErrorWrap(t *testing.T) {
	originalErr := stderrors.New("short read")
	newErr := errors.ErrIOFailed.WrapError(originalErr)

	assert.Equal(t, "underlying block device I/O failed: short read", newErr.Error())
	assert.ErrorIs(t, newErr, originalErr)
	assert.ErrorIs(t, newErr, errors.ErrIOFailed)
}
