package rsc

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/meigma/rsc/internal/crc"
	"github.com/meigma/rsc/internal/sizing"
	"github.com/meigma/rsc/internal/wire"
)

// Record layout. The length prefix counts the body minus one byte, so every
// record occupies 4 + length + 1 bytes.
const (
	lengthSize     = wire.Uint32Size
	recordOverhead = lengthSize + 1

	// Offsets within a record body.
	offUsed       = 0
	offType       = 1
	offChecksum   = 2
	offModified   = 6
	offAdded      = 10
	offContentLen = 14
	offPath       = 18

	// holeSize is the fixed part of a hole record: prefix and used flag.
	holeSize = lengthSize + 1

	// resourceSize is the fixed part of a resource record: prefix, used
	// flag, type byte, checksum, two timestamps and content length.
	resourceSize = lengthSize + offPath
)

// Entry is one record of an archive: either a *Resource or a *Hole.
//
// The set of implementations is closed.
type Entry interface {
	// Used reports whether the record holds a live asset.
	Used() bool

	// RawSize returns the number of bytes the record occupies when encoded.
	RawSize() int

	entry()
}

// Resource is a record holding one asset.
//
// Resources returned by Decode view the decoded buffer unless Decode was
// asked to copy: writing to Content or Padding writes to that buffer and
// vice versa, and the buffer must outlive the entry.
type Resource struct {
	// Path is the project-relative path of the asset (e.g., "icons/mob.dmi").
	Path string

	// Type is the kind of asset.
	Type ResourceType

	// Encrypted marks Content as ciphertext. It is carried through unchanged;
	// decryption is not supported.
	Encrypted bool

	// Added is when the asset was first included. Stored with one-second
	// resolution.
	Added time.Time

	// Modified is when the asset was last updated. Stored with one-second
	// resolution.
	Modified time.Time

	// Content is the asset data.
	Content []byte

	// Padding holds bytes that follow Content inside the record. The build
	// pipeline leaves them behind when a file is replaced in place by a
	// smaller one; they are kept so records re-encode byte for byte.
	Padding []byte
}

// Used always returns true.
func (*Resource) Used() bool { return true }

// RawSize returns the encoded size of the record.
func (r *Resource) RawSize() int {
	return resourceSize + wire.CStringLen(r.Path) + len(r.Content) + len(r.Padding)
}

// Checksum computes the checksum of the current content.
func (r *Resource) Checksum() uint32 {
	return crc.Checksum(r.Content)
}

// Validate checks that r can be encoded and decoded back unchanged.
func (r *Resource) Validate() error {
	if strings.IndexByte(r.Path, 0) >= 0 {
		return fmt.Errorf("%w: %q contains NUL", ErrInvalidPath, r.Path)
	}
	if !utf8.ValidString(r.Path) {
		return fmt.Errorf("%w: %q is not UTF-8", ErrInvalidPath, r.Path)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %#x", ErrInvalidType, uint8(r.Type))
	}
	if !sizing.FitsUint32(len(r.Content)) {
		return fmt.Errorf("%w: content of %d bytes", ErrSizeOverflow, len(r.Content))
	}
	if !sizing.FitsUint32(r.RawSize() - recordOverhead) {
		return fmt.Errorf("%w: record of %d bytes", ErrSizeOverflow, r.RawSize())
	}
	if !fitsTimestamp(r.Added) {
		return fmt.Errorf("%w: added %s", ErrInvalidTime, r.Added)
	}
	if !fitsTimestamp(r.Modified) {
		return fmt.Errorf("%w: modified %s", ErrInvalidTime, r.Modified)
	}
	return nil
}

func (*Resource) entry() {}

// Hole is a vacated record slot. Its filler is meaningless but is kept so
// the archive re-encodes byte for byte.
type Hole struct {
	Filler []byte
}

// Used always returns false.
func (*Hole) Used() bool { return false }

// RawSize returns the encoded size of the record.
func (h *Hole) RawSize() int {
	return holeSize + len(h.Filler)
}

func (*Hole) entry() {}

// NewResource creates a resource entry and validates it.
//
// Added and Modified default to the current time truncated to whole seconds.
// content is retained, not copied.
func NewResource(path string, typ ResourceType, content []byte, opts ...ResourceOption) (*Resource, error) {
	now := time.Now().Truncate(time.Second)
	r := &Resource{
		Path:     path,
		Type:     typ,
		Added:    now,
		Modified: now,
		Content:  content,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewHole creates a hole with the given filler. filler is retained, not copied.
func NewHole(filler []byte) (*Hole, error) {
	if !sizing.FitsUint32(len(filler)) {
		return nil, fmt.Errorf("%w: filler of %d bytes", ErrSizeOverflow, len(filler))
	}
	return &Hole{Filler: filler}, nil
}

// Resources returns the resource entries of entries, in order.
func Resources(entries []Entry) []*Resource {
	out := make([]*Resource, 0, len(entries))
	for _, e := range entries {
		if r, ok := e.(*Resource); ok {
			out = append(out, r)
		}
	}
	return out
}

func fitsTimestamp(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	s := t.Unix()
	return s >= 0 && s <= math.MaxUint32
}

// unixSeconds converts t to the on-disk representation. The zero time is
// stored as 0; sub-second precision is dropped.
func unixSeconds(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}
	return uint32(t.Unix()) //nolint:gosec // range checked by Validate
}

func fromUnixSeconds(s uint32) time.Time {
	return time.Unix(int64(s), 0).UTC()
}
