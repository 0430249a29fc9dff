package chunk

import (
	"errors"
	"fmt"
)

// Sentinel errors. Structured errors below match them with errors.Is.
var (
	// ErrIO is returned when the underlying source cannot be read or
	// written, including short reads past the end of a chunk.
	ErrIO = errors.New("xrf: i/o failure")

	// ErrChunkNotEnded is returned when an exact-fit record leaves bytes
	// unread or needs more bytes than the chunk holds.
	ErrChunkNotEnded = errors.New("xrf: chunk not fully consumed")

	// ErrNotFound is returned when a required chunk id or file entry is
	// absent.
	ErrNotFound = errors.New("xrf: not found")

	// ErrParse is returned for structural or semantic violations such as
	// count mismatches or unexpected discriminants.
	ErrParse = errors.New("xrf: parse error")

	// ErrEncoding is returned when a string cannot be converted to or from
	// the Windows-1251 codepage.
	ErrEncoding = errors.New("xrf: encoding error")

	// ErrNotImplemented is returned by legacy format paths that are
	// intentionally unhandled.
	ErrNotImplemented = errors.New("xrf: not implemented")

	// ErrInvalidFormat is returned when an archive entry cannot be served
	// by the requested read path.
	ErrInvalidFormat = errors.New("xrf: invalid format")

	// ErrVerify is returned when a verification pass reports failures.
	ErrVerify = errors.New("xrf: verification failed")

	// ErrUnsupported is returned for content the codecs recognize but do
	// not support, such as upgraded items.
	ErrUnsupported = errors.New("xrf: unsupported feature")
)

// NotEndedError reports an exact-fit record that did not consume its
// chunk. Remaining is negative when the chunk was too short.
type NotEndedError struct {
	Kind      string
	Remaining int64
}

func (e *NotEndedError) Error() string {
	return fmt.Sprintf("xrf: %s chunk not ended, %d bytes remaining", e.Kind, e.Remaining)
}

// Is matches ErrChunkNotEnded.
func (e *NotEndedError) Is(target error) bool {
	return target == ErrChunkNotEnded
}

// NotFoundError reports a missing chunk id, entry or section.
type NotFoundError struct {
	What string
	IDs  []uint32
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("xrf: %s not found", e.What)
	}
	return fmt.Sprintf("xrf: %s not found, searched ids %v", e.What, e.IDs)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MismatchError reports a value that differs from the one the format
// requires.
type MismatchError struct {
	What     string
	Expected any
	Actual   any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("xrf: %s: expected %v, got %v", e.What, e.Expected, e.Actual)
}

// Is matches ErrParse.
func (e *MismatchError) Is(target error) bool {
	return target == ErrParse
}

// Expect returns a *MismatchError when actual differs from expected.
func Expect[T comparable](what string, expected, actual T) error {
	if expected != actual {
		return &MismatchError{What: what, Expected: expected, Actual: actual}
	}
	return nil
}

// Errorf wraps kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
