// Package errors defines the error taxonomy used across the llfs package.
// It follows the same shape as a POSIX errno: a small set of well-known
// sentinel values that callers can compare against, each capable of being
// annotated with a more specific message via WithMessage/WrapError.
package errors

import (
	"fmt"
)

// LLFSError is a sentinel error value from spec.md's error taxonomy (§7).
type LLFSError string

const ErrNoSpace = LLFSError("no space left on device")
const ErrNoInodeSlots = LLFSError("inode map is full")
const ErrNotFound = LLFSError("no such file or directory")
const ErrDirectoryFull = LLFSError("directory has no free entry slot")
const ErrDirectoryNotEmpty = LLFSError("directory not empty")
const ErrCorruptInode = LLFSError("inode has an unrecognized type tag")
const ErrIOFailed = LLFSError("underlying block device I/O failed")
const ErrNameTooLong = LLFSError("file name exceeds 31 bytes")

func (e LLFSError) Error() string {
	return string(e)
}

func (e LLFSError) WithMessage(message string) DriverError {
	return customDriverError{
		message: fmt.Sprintf("%s: %s", string(e), message),
		wrapped: []error{e},
	}
}

func (e LLFSError) WrapError(err error) DriverError {
	return customDriverError{
		message: fmt.Sprintf("%s: %s", string(e), err.Error()),
		wrapped: []error{e, err},
	}
}
