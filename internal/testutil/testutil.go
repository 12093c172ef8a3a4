// Package testutil assembles archive bytes for tests.
//
// Records are laid out field by field, independently of the encoder, so
// decoder and encoder tests can be checked against the on-disk layout
// rather than against each other.
package testutil

import (
	"encoding/binary"

	"github.com/meigma/rsc/internal/crc"
)

// RawResource holds the raw field values of a resource record.
type RawResource struct {
	// TypeByte is the combined type code and encrypted flag.
	TypeByte byte
	Checksum uint32
	Modified uint32
	Added    uint32
	Path     string
	Content  []byte
	Padding  []byte
}

// ResourceRecord lays out a resource record, length prefix included.
// The declared content length is len(r.Content).
func ResourceRecord(r RawResource) []byte {
	body := []byte{1, r.TypeByte}
	body = binary.LittleEndian.AppendUint32(body, r.Checksum)
	body = binary.LittleEndian.AppendUint32(body, r.Modified)
	body = binary.LittleEndian.AppendUint32(body, r.Added)
	body = binary.LittleEndian.AppendUint32(body, uint32(len(r.Content))) //nolint:gosec // test sizes
	body = append(body, r.Path...)
	body = append(body, 0)
	body = append(body, r.Content...)
	body = append(body, r.Padding...)
	return withPrefix(body)
}

// HoleRecord lays out a hole record with the given filler.
func HoleRecord(filler []byte) []byte {
	body := append([]byte{0}, filler...)
	return withPrefix(body)
}

// withPrefix prepends the length prefix, which counts the body minus one.
func withPrefix(body []byte) []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(body)-1)) //nolint:gosec // test sizes
	return append(out, body...)
}

// Archive concatenates records.
func Archive(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

// Checksum returns the format checksum of content.
func Checksum(content []byte) uint32 {
	return crc.Checksum(content)
}

// Sample timestamps used by fixtures.
const (
	SampleModified uint32 = 1_700_000_100
	SampleAdded    uint32 = 1_700_000_000
)

// SampleContent is the content of the resource in SampleArchive.
var SampleContent = []byte{0x01, 0x02, 0x03}

// SampleFiller is the filler of the hole in SampleArchive.
var SampleFiller = []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x11}

// SampleArchive returns a two-record archive: a sprite sheet
// "icons/a.dmi" holding SampleContent, followed by a hole holding
// SampleFiller. Each call returns a fresh buffer.
func SampleArchive() []byte {
	return Archive(
		ResourceRecord(RawResource{
			TypeByte: 0x03,
			Checksum: Checksum(SampleContent),
			Modified: SampleModified,
			Added:    SampleAdded,
			Path:     "icons/a.dmi",
			Content:  SampleContent,
		}),
		HoleRecord(SampleFiller),
	)
}
