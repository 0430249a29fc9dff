package xrf

import (
	"errors"

	"github.com/meigma/xrf/chunk"
)

// ErrNotOpen is returned by [Session.With] when nothing is open.
var ErrNotOpen = errors.New("xrf: nothing is open")

// Errors re-exported from chunk. Every format package wraps one of them.
var (
	// ErrIO is returned when a file cannot be read or written, including
	// short reads past the end of a chunk.
	ErrIO = chunk.ErrIO

	// ErrChunkNotEnded is returned when a record leaves bytes of its chunk
	// unread.
	ErrChunkNotEnded = chunk.ErrChunkNotEnded

	// ErrNotFound is returned when a required chunk, section or archive
	// entry is missing.
	ErrNotFound = chunk.ErrNotFound

	// ErrParse is returned for count mismatches and unknown type tags.
	ErrParse = chunk.ErrParse

	// ErrEncoding is returned when text is not valid Windows-1251.
	ErrEncoding = chunk.ErrEncoding

	// ErrNotImplemented is returned for legacy layouts that are read but
	// cannot be written.
	ErrNotImplemented = chunk.ErrNotImplemented

	// ErrInvalidFormat is returned when an archive entry cannot be read
	// as text.
	ErrInvalidFormat = chunk.ErrInvalidFormat

	// ErrVerify is returned when a checksum or reference check fails.
	ErrVerify = chunk.ErrVerify

	// ErrUnsupported is returned for recognized content the codecs do not
	// handle.
	ErrUnsupported = chunk.ErrUnsupported
)
