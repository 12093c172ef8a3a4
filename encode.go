package rsc

import (
	"fmt"

	"github.com/meigma/rsc/internal/crc"
	"github.com/meigma/rsc/internal/wire"
)

// Encode serializes entries into a new archive, in order.
//
// Checksums are always recomputed from the current content, so entries whose
// content was modified after Decode encode consistently. The output never
// aliases the entries, so an archive can be repacked from entries that view
// the buffer it was decoded from.
//
// Entries should satisfy Validate; a path containing NUL encodes but cannot
// be decoded back. Encode panics only if a record's size disagrees with its
// RawSize, which indicates a bug in this package.
func Encode(entries []Entry) []byte {
	total := 0
	for _, e := range entries {
		total += e.RawSize()
	}
	buf := make([]byte, total)

	pos := 0
	for _, e := range entries {
		size := e.RawSize()
		if n := encodeEntry(buf[pos:pos+size], e); n != size {
			panic(fmt.Sprintf("rsc: miscalculated entry size: wrote %d bytes, RawSize %d", n, size))
		}
		pos += size
	}
	if pos != len(buf) {
		panic(fmt.Sprintf("rsc: miscalculated archive size: wrote %d bytes, allocated %d", pos, len(buf)))
	}
	return buf
}

// encodeEntry writes e into buf, which is exactly e.RawSize() bytes, and
// returns the number of bytes written.
func encodeEntry(buf []byte, e Entry) int {
	switch e := e.(type) {
	case *Resource:
		return encodeResource(buf, e)
	case *Hole:
		return encodeHole(buf, e)
	default:
		panic(fmt.Sprintf("rsc: unknown entry type %T", e))
	}
}

func encodeResource(buf []byte, r *Resource) int {
	body := buf[lengthSize:]
	wire.PutUint32(buf, uint32(len(buf)-recordOverhead)) //nolint:gosec // bounded by Validate

	body[offUsed] = wire.Bool(true)
	typeByte := byte(r.Type) & typeMask
	if r.Encrypted {
		typeByte |= encryptedFlag
	}
	body[offType] = typeByte
	wire.PutUint32(body[offChecksum:], crc.Checksum(r.Content))
	wire.PutUint32(body[offModified:], unixSeconds(r.Modified))
	wire.PutUint32(body[offAdded:], unixSeconds(r.Added))
	wire.PutUint32(body[offContentLen:], uint32(len(r.Content))) //nolint:gosec // bounded by Validate

	pos := offPath
	pos += wire.PutCString(body[pos:], r.Path)
	pos += copy(body[pos:], r.Content)
	pos += copy(body[pos:], r.Padding)
	return lengthSize + pos
}

func encodeHole(buf []byte, h *Hole) int {
	body := buf[lengthSize:]
	wire.PutUint32(buf, uint32(len(buf)-recordOverhead)) //nolint:gosec // bounded by NewHole

	body[offUsed] = wire.Bool(false)
	pos := offUsed + 1
	pos += copy(body[pos:], h.Filler)
	return lengthSize + pos
}
