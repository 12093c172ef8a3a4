// Package sizing provides safe size arithmetic and conversions to prevent overflow.
package sizing

import "math"

// ToUint32 converts a non-negative int to uint32, returning overflowErr if it
// doesn't fit.
func ToUint32(size int, overflowErr error) (uint32, error) {
	if size < 0 || uint64(size) > math.MaxUint32 {
		return 0, overflowErr
	}
	return uint32(size), nil //nolint:gosec // checked above
}

// FitsUint32 reports whether size can be stored in a uint32 field.
func FitsUint32(size int) bool {
	return size >= 0 && uint64(size) <= math.MaxUint32
}

// AddInt adds two non-negative ints, returning (result, false) on overflow.
func AddInt(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		return 0, false
	}
	return a + b, true
}

// Span reports whether the n bytes starting at off lie within a buffer of
// length size. It never overflows.
func Span(off, n, size int) bool {
	if off < 0 || n < 0 || off > size {
		return false
	}
	return n <= size-off
}
