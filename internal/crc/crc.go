// Package crc implements the 32-bit CRC used to checksum resource content.
//
// The parameters are fixed by the archive format: polynomial 0xAF, initial
// register 0xFFFFFFFF, most-significant-bit first (no input or output
// reflection) and no final XOR. This is not the IEEE CRC-32 provided by
// hash/crc32, which only implements reflected variants.
package crc

import "hash"

const (
	// Polynomial is the generator polynomial in normal (non-reflected) form.
	Polynomial uint32 = 0x000000AF

	// Init is the initial register value.
	Init uint32 = 0xFFFFFFFF

	// Size is the size of a checksum in bytes.
	Size = 4
)

var table = makeTable(Polynomial)

func makeTable(poly uint32) *[256]uint32 {
	t := new([256]uint32)
	for i := range t {
		c := uint32(i) << 24
		for range 8 {
			if c&0x80000000 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}

// Update returns the result of adding the bytes in p to crc.
func Update(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = table[byte(crc>>24)^b] ^ crc<<8
	}
	return crc
}

// Checksum returns the checksum of data.
func Checksum(data []byte) uint32 {
	return Update(Init, data)
}

type digest struct {
	crc uint32
}

// New creates a hash.Hash32 computing the checksum. Its Sum method appends
// the value in big-endian order, as hash/crc32 does.
func New() hash.Hash32 {
	return &digest{crc: Init}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.crc = Init }
func (d *digest) Sum32() uint32  { return d.crc }

func (d *digest) Write(p []byte) (int, error) {
	d.crc = Update(d.crc, p)
	return len(p), nil
}

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
