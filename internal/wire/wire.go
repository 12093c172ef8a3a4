// Package wire implements the primitive field codecs of the archive format:
// little-endian integers, NUL-terminated strings and single-byte booleans
// and enumerations.
//
// Parsers never copy; strings are the only values materialized from the input.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors for primitive parsing.
var (
	// ErrInvalidBool is returned when a boolean byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("rsc: invalid boolean")

	// ErrInvalidEnum is returned when an enumeration code is not assigned.
	ErrInvalidEnum = errors.New("rsc: unassigned enumeration value")

	// ErrUnterminated is returned when no NUL terminator is found.
	ErrUnterminated = errors.New("rsc: unterminated string")
)

// Uint32Size is the encoded size of a uint32 field.
const Uint32Size = 4

// Uint32 decodes a little-endian uint32 from the first four bytes of b.
func Uint32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// PutUint32 encodes v into the first four bytes of b.
func PutUint32(b []byte, v uint32) {
	binary.LittleEndian.PutUint32(b, v)
}

// CString decodes a NUL-terminated string from the start of b.
// It returns the string without its terminator and the number of bytes
// consumed, terminator included.
func CString(b []byte) (string, int, error) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", 0, ErrUnterminated
	}
	return string(b[:i]), i + 1, nil
}

// CStringLen returns the encoded size of s, terminator included.
func CStringLen(s string) int {
	return len(s) + 1
}

// PutCString writes s followed by a NUL into b and returns the number of
// bytes written. b must hold at least CStringLen(s) bytes.
func PutCString(b []byte, s string) int {
	n := copy(b, s)
	b[n] = 0
	return n + 1
}

// ParseBool decodes a boolean byte. Only 0 and 1 are valid.
//
// In strict mode an invalid byte is an error. In lenient mode it yields
// valid == false and no error; value is then meaningless.
func ParseBool(b byte, strict bool) (value, valid bool, err error) {
	switch b {
	case 0:
		return false, true, nil
	case 1:
		return true, true, nil
	}
	if strict {
		return false, false, fmt.Errorf("%w: %d", ErrInvalidBool, b)
	}
	return false, false, nil
}

// Bool encodes a boolean as a single byte.
func Bool(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// ParseEnum validates raw against an enumeration.
//
// In strict mode an unassigned value is an error. In lenient mode it is
// replaced by fallback.
func ParseEnum[T ~uint8](raw uint8, valid func(T) bool, fallback T, strict bool) (T, error) {
	v := T(raw)
	if valid(v) {
		return v, nil
	}
	if strict {
		return fallback, fmt.Errorf("%w: %#x", ErrInvalidEnum, raw)
	}
	return fallback, nil
}
