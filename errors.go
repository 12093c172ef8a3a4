package rsc

import (
	"errors"
	"fmt"

	"github.com/meigma/rsc/internal/wire"
)

// Sentinel errors for archive operations.
var (
	// ErrTruncated is returned when a record runs past the end of the buffer,
	// or is too short to hold its fixed header.
	ErrTruncated = errors.New("rsc: truncated record")

	// ErrLengthMismatch is returned when the declared content length does not
	// fit the record that declares it.
	ErrLengthMismatch = errors.New("rsc: content length mismatch")

	// ErrChecksumMismatch is returned when content does not match its
	// declared checksum. Only reported when checksum validation is enabled.
	ErrChecksumMismatch = errors.New("rsc: checksum mismatch")

	// ErrInvalidPath is returned when a resource path contains a NUL byte or
	// is not valid UTF-8.
	ErrInvalidPath = errors.New("rsc: invalid path")

	// ErrInvalidTime is returned when a timestamp cannot be stored as
	// unsigned 32-bit Unix seconds.
	ErrInvalidTime = errors.New("rsc: timestamp out of range")

	// ErrSizeOverflow is returned when a length exceeds what the format can
	// express.
	ErrSizeOverflow = errors.New("rsc: size overflow")
)

// Errors re-exported from the primitive codecs.
var (
	// ErrInvalidBool is returned when a flag byte is neither 0 nor 1.
	ErrInvalidBool = wire.ErrInvalidBool

	// ErrInvalidType is returned in strict mode for unassigned type codes.
	ErrInvalidType = wire.ErrInvalidEnum

	// ErrUnterminatedPath is returned when a path has no NUL terminator
	// inside its record.
	ErrUnterminatedPath = wire.ErrUnterminated
)

// FormatError reports a malformed record. It is the only error type
// returned by Decode.
type FormatError struct {
	// Offset is the position of the record's length prefix in the input.
	Offset int

	// Type is the resource type of the record, when decoding got far enough
	// to read it. Otherwise it is TypeUnknown.
	Type ResourceType

	// Err is the underlying cause. It wraps one of the package sentinels.
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v (record at offset %d)", e.Err, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
