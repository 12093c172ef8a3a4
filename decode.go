package rsc

import (
	"bytes"
	"fmt"

	"github.com/meigma/rsc/internal/crc"
	"github.com/meigma/rsc/internal/sizing"
	"github.com/meigma/rsc/internal/wire"
)

// Decode parses an archive into its entries, in on-disk order.
//
// The archive is a flat sequence of records with no header or trailer.
// Holes are dropped from the result unless WithIncludeEmpty is set.
//
// Unless WithCopy is set, the returned entries view data: it must outlive
// them, and writes through either are visible in both. data itself is never
// modified.
//
// Any malformed record aborts the decode; the returned error is a
// *FormatError and no entries are returned.
func Decode(data []byte, opts ...DecodeOption) ([]Entry, error) {
	cfg := newDecodeConfig(opts)

	var entries []Entry
	records, holes := 0, 0
	for off := 0; off < len(data); {
		body, err := recordBody(data, off)
		if err != nil {
			return nil, &FormatError{Offset: off, Err: err}
		}
		entry, err := decodeRecord(body, &cfg)
		if err != nil {
			return nil, &FormatError{Offset: off, Type: typeOf(entry), Err: err}
		}
		records++
		off += lengthSize + len(body)

		if !entry.Used() {
			holes++
			if !cfg.includeEmpty {
				cfg.logger.Debug("skipping hole", "offset", off-entry.RawSize(), "size", entry.RawSize())
				continue
			}
		}
		entries = append(entries, entry)
	}

	cfg.logger.Debug("decoded archive",
		"records", records,
		"entries", len(entries),
		"holes", holes,
		"bytes", len(data))
	return entries, nil
}

// recordBody returns the body of the record whose length prefix starts at
// off: the 4+L+1 byte record minus its prefix.
func recordBody(data []byte, off int) ([]byte, error) {
	if !sizing.Span(off, lengthSize, len(data)) {
		return nil, fmt.Errorf("%w: %d bytes left for a %d byte length prefix",
			ErrTruncated, len(data)-off, lengthSize)
	}
	declared := wire.Uint32(data[off:])
	// int(declared) wraps negative on 32-bit platforms; AddInt rejects it.
	bodyLen, ok := sizing.AddInt(int(declared), 1)
	if !ok {
		return nil, fmt.Errorf("%w: length %d", ErrTruncated, declared)
	}
	start := off + lengthSize
	if !sizing.Span(start, bodyLen, len(data)) {
		return nil, fmt.Errorf("%w: length %d needs %d bytes, %d left",
			ErrTruncated, declared, bodyLen, len(data)-start)
	}
	return data[start : start+bodyLen], nil
}

func decodeRecord(body []byte, cfg *decodeConfig) (Entry, error) {
	used, _, err := wire.ParseBool(body[offUsed], true)
	if err != nil {
		return nil, fmt.Errorf("used flag: %w", err)
	}
	if !used {
		return &Hole{Filler: cfg.view(body[offUsed+1:])}, nil
	}
	return decodeResource(body, cfg)
}

func decodeResource(body []byte, cfg *decodeConfig) (*Resource, error) {
	if len(body) < offPath {
		return nil, fmt.Errorf("%w: resource body of %d bytes, header needs %d",
			ErrTruncated, len(body), offPath)
	}

	typeByte := body[offType]
	typ, err := ParseResourceType(typeByte&typeMask, cfg.strict)
	if err != nil {
		return nil, err
	}
	r := &Resource{
		Type:      typ,
		Encrypted: typeByte&encryptedFlag != 0,
		Modified:  fromUnixSeconds(wire.Uint32(body[offModified:])),
		Added:     fromUnixSeconds(wire.Uint32(body[offAdded:])),
	}
	expected := wire.Uint32(body[offChecksum:])
	contentLen := wire.Uint32(body[offContentLen:])

	path, n, err := wire.CString(body[offPath:])
	if err != nil {
		return r, fmt.Errorf("path: %w", err)
	}
	r.Path = path

	pos := offPath + n
	if uint64(contentLen) > uint64(len(body)-pos) {
		return r, fmt.Errorf("%w: %q declares %d bytes, record holds %d",
			ErrLengthMismatch, path, contentLen, len(body)-pos)
	}
	end := pos + int(contentLen)
	r.Content = cfg.view(body[pos:end])
	if end < len(body) {
		r.Padding = cfg.view(body[end:])
	}

	if cfg.validateChecksums {
		if actual := crc.Checksum(r.Content); actual != expected {
			return r, fmt.Errorf("%w on %s %q: declared 0x%08x, computed 0x%08x",
				ErrChecksumMismatch, typ, path, expected, actual)
		}
	}
	return r, nil
}

// view returns b, or a copy of it when the decoder owns its output.
func (c *decodeConfig) view(b []byte) []byte {
	if !c.copy {
		return b
	}
	return bytes.Clone(b)
}

func typeOf(e Entry) ResourceType {
	if r, ok := e.(*Resource); ok && r != nil {
		return r.Type
	}
	return TypeUnknown
}
