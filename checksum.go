package rsc

import (
	"hash"

	"github.com/meigma/rsc/internal/crc"
)

// Checksum returns the 32-bit CRC the format stores for content: polynomial
// 0xAF, initial value 0xFFFFFFFF, no reflection and no final XOR. Only the
// content bytes are covered.
func Checksum(content []byte) uint32 {
	return crc.Checksum(content)
}

// NewChecksum returns a streaming hash.Hash32 computing the same value as
// Checksum.
func NewChecksum() hash.Hash32 {
	return crc.New()
}
