package rsc

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/rsc/internal/testutil"
	"github.com/meigma/rsc/internal/wire"
)

// sampleContentOffset is where SampleContent starts in SampleArchive:
// prefix, fixed body header, then "icons/a.dmi\x00".
const sampleContentOffset = lengthSize + offPath + len("icons/a.dmi") + 1

// mustDecode decodes data or fails the test.
func mustDecode(tb testing.TB, data []byte, opts ...DecodeOption) []Entry {
	tb.Helper()
	entries, err := Decode(data, opts...)
	require.NoError(tb, err, "Decode failed")
	return entries
}

// requireFormatError asserts err is a *FormatError wrapping target.
func requireFormatError(tb testing.TB, err, target error) *FormatError {
	tb.Helper()
	require.ErrorIs(tb, err, target)
	var fe *FormatError
	require.ErrorAs(tb, err, &fe)
	return fe
}

func TestDecodeSample(t *testing.T) {
	t.Parallel()

	t.Run("include empty", func(t *testing.T) {
		t.Parallel()
		data := testutil.SampleArchive()
		entries := mustDecode(t, data, WithIncludeEmpty(true))
		require.Len(t, entries, 2)

		r, ok := entries[0].(*Resource)
		require.True(t, ok, "first entry should be a resource")
		assert.True(t, r.Used())
		assert.Equal(t, "icons/a.dmi", r.Path)
		assert.Equal(t, TypeSpriteSheet, r.Type)
		assert.False(t, r.Encrypted)
		assert.Equal(t, testutil.SampleContent, r.Content)
		assert.Empty(t, r.Padding)
		assert.Equal(t, time.Unix(int64(testutil.SampleModified), 0).UTC(), r.Modified)
		assert.Equal(t, time.Unix(int64(testutil.SampleAdded), 0).UTC(), r.Added)
		assert.Equal(t, testutil.Checksum(testutil.SampleContent), r.Checksum())

		h, ok := entries[1].(*Hole)
		require.True(t, ok, "second entry should be a hole")
		assert.False(t, h.Used())
		assert.Equal(t, testutil.SampleFiller, h.Filler)

		assert.Equal(t, data, Encode(entries))
	})

	t.Run("default options drop holes", func(t *testing.T) {
		t.Parallel()
		entries := mustDecode(t, testutil.SampleArchive())
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Used())
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		entries, err := Decode(nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestDecodeHolesKeepAlignment(t *testing.T) {
	t.Parallel()

	data := testutil.Archive(
		testutil.HoleRecord(bytes.Repeat([]byte{0xaa}, 17)),
		testutil.ResourceRecord(testutil.RawResource{
			TypeByte: byte(TypeAudio),
			Path:     "sound/honk.ogg",
			Content:  []byte("honk"),
		}),
		testutil.HoleRecord(nil),
		testutil.HoleRecord([]byte{0}),
		testutil.ResourceRecord(testutil.RawResource{
			TypeByte: byte(TypeFont),
			Path:     "fonts/mono.ttf",
			Content:  []byte("glyphs"),
		}),
	)

	resources := mustDecode(t, data)
	require.Len(t, resources, 2)
	assert.Equal(t, "sound/honk.ogg", resources[0].(*Resource).Path)
	assert.Equal(t, []byte("honk"), resources[0].(*Resource).Content)
	assert.Equal(t, "fonts/mono.ttf", resources[1].(*Resource).Path)
	assert.Equal(t, []byte("glyphs"), resources[1].(*Resource).Content)

	all := mustDecode(t, data, WithIncludeEmpty(true))
	require.Len(t, all, 5)
	assert.Empty(t, all[2].(*Hole).Filler)
	assert.Equal(t, []byte{0}, all[3].(*Hole).Filler)
	assert.Equal(t, Resources(resources), Resources(all))
	assert.Equal(t, data, Encode(all))
}

func TestDecodeChecksumValidation(t *testing.T) {
	t.Parallel()

	data := testutil.SampleArchive()
	data[sampleContentOffset] ^= 0xff

	t.Run("ignored by default", func(t *testing.T) {
		t.Parallel()
		entries := mustDecode(t, data)
		require.Len(t, entries, 1)
	})

	t.Run("fatal when enabled", func(t *testing.T) {
		t.Parallel()
		entries, err := Decode(data, WithValidateChecksums(true))
		assert.Nil(t, entries)
		fe := requireFormatError(t, err, ErrChecksumMismatch)
		assert.Equal(t, 0, fe.Offset)
		assert.Equal(t, TypeSpriteSheet, fe.Type)
		assert.Contains(t, err.Error(), "sprite-sheet")
	})

	t.Run("valid archive passes", func(t *testing.T) {
		t.Parallel()
		mustDecode(t, testutil.SampleArchive(), WithValidateChecksums(true))
	})
}

func TestDecodeTypeByte(t *testing.T) {
	t.Parallel()

	record := func(typeByte byte) []byte {
		content := []byte("data")
		return testutil.ResourceRecord(testutil.RawResource{
			TypeByte: typeByte,
			Checksum: testutil.Checksum(content),
			Path:     "file",
			Content:  content,
		})
	}

	t.Run("encrypted flag", func(t *testing.T) {
		t.Parallel()
		data := record(0x80 | byte(TypeLosslessImage))
		entries := mustDecode(t, data)
		require.Len(t, entries, 1)
		r := entries[0].(*Resource)
		assert.True(t, r.Encrypted)
		assert.Equal(t, TypeLosslessImage, r.Type)
		assert.Equal(t, data, Encode(entries))
	})

	t.Run("strict rejects unassigned", func(t *testing.T) {
		t.Parallel()
		for _, code := range []byte{0x04, 0x07, 0x08, 0x0f, 0x84} {
			_, err := Decode(record(code))
			requireFormatError(t, err, ErrInvalidType)
		}
	})

	t.Run("lenient maps to unknown", func(t *testing.T) {
		t.Parallel()
		entries := mustDecode(t, record(0x84), WithStrict(false))
		require.Len(t, entries, 1)
		r := entries[0].(*Resource)
		assert.Equal(t, TypeUnknown, r.Type)
		assert.True(t, r.Encrypted)
	})

	t.Run("lenient never relaxes length errors", func(t *testing.T) {
		t.Parallel()
		data := record(0x04)
		_, err := Decode(data[:len(data)-1], WithStrict(false))
		requireFormatError(t, err, ErrTruncated)
	})
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	sampleLen := len(testutil.SampleArchive())
	firstRecordLen := sampleLen - len(testutil.HoleRecord(testutil.SampleFiller))

	tests := []struct {
		name    string
		corrupt func([]byte) []byte
		target  error
		offset  int
	}{
		{
			name:    "invalid used flag",
			corrupt: func(b []byte) []byte { b[lengthSize] = 2; return b },
			target:  ErrInvalidBool,
		},
		{
			name:    "record runs past end",
			corrupt: func(b []byte) []byte { return b[:len(b)-1] },
			target:  ErrTruncated,
			offset:  firstRecordLen,
		},
		{
			name:    "partial length prefix",
			corrupt: func(b []byte) []byte { return append(b, 0x01, 0x00, 0x00) },
			target:  ErrTruncated,
			offset:  sampleLen,
		},
		{
			name: "declared content longer than record",
			corrupt: func(b []byte) []byte {
				wire.PutUint32(b[lengthSize+offContentLen:], 100)
				return b
			},
			target: ErrLengthMismatch,
		},
		{
			name: "huge declared length",
			corrupt: func(b []byte) []byte {
				wire.PutUint32(b, 0xffffffff)
				return b
			},
			target: ErrTruncated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := tt.corrupt(testutil.SampleArchive())
			entries, err := Decode(data, WithIncludeEmpty(true))
			assert.Nil(t, entries, "no partial result on error")
			fe := requireFormatError(t, err, tt.target)
			assert.Equal(t, tt.offset, fe.Offset)
		})
	}
}

func TestDecodeShortResourceHeader(t *testing.T) {
	t.Parallel()

	// used=1, then too few bytes for the fixed fields.
	data := []byte{4, 0, 0, 0, 1, byte(TypeAudio), 0, 0, 0}
	_, err := Decode(data)
	requireFormatError(t, err, ErrTruncated)
}

func TestDecodeUnterminatedPath(t *testing.T) {
	t.Parallel()

	data := testutil.ResourceRecord(testutil.RawResource{Path: "abc"})
	// With no content or padding, the path terminator is the final byte.
	data[len(data)-1] = 'x'
	_, err := Decode(data)
	fe := requireFormatError(t, err, ErrUnterminatedPath)
	assert.Equal(t, TypeUnknown, fe.Type)
}

func TestDecodePadding(t *testing.T) {
	t.Parallel()

	content := []byte("new")
	data := testutil.ResourceRecord(testutil.RawResource{
		TypeByte: byte(TypeBitmap),
		Checksum: testutil.Checksum(content),
		Path:     "ui/old.bmp",
		Content:  content,
		Padding:  []byte("-leftover-bytes"),
	})

	entries := mustDecode(t, data, WithValidateChecksums(true))
	require.Len(t, entries, 1)
	r := entries[0].(*Resource)
	assert.Equal(t, content, r.Content)
	assert.Equal(t, []byte("-leftover-bytes"), r.Padding)
	assert.Equal(t, len(data), r.RawSize())
	assert.Equal(t, data, Encode(entries))
}

func TestDecodeViews(t *testing.T) {
	t.Parallel()

	t.Run("entries alias input by default", func(t *testing.T) {
		t.Parallel()
		data := testutil.SampleArchive()
		entries := mustDecode(t, data, WithIncludeEmpty(true))
		r := entries[0].(*Resource)

		r.Content[0] = 0x7f
		assert.Equal(t, byte(0x7f), data[sampleContentOffset])

		data[sampleContentOffset+1] = 0x6f
		assert.Equal(t, byte(0x6f), r.Content[1])

		h := entries[1].(*Hole)
		h.Filler[0] = 0
		assert.Equal(t, byte(0), data[firstRecordSize(t)+holeSize])
	})

	t.Run("copy detaches entries", func(t *testing.T) {
		t.Parallel()
		data := testutil.SampleArchive()
		entries := mustDecode(t, data, WithCopy(true), WithIncludeEmpty(true))
		r := entries[0].(*Resource)

		r.Content[0] = 0x7f
		assert.Equal(t, testutil.SampleContent[0], data[sampleContentOffset])

		clear(data)
		assert.Equal(t, testutil.SampleFiller, entries[1].(*Hole).Filler)
	})

	t.Run("input is not modified", func(t *testing.T) {
		t.Parallel()
		data := testutil.SampleArchive()
		mustDecode(t, data, WithIncludeEmpty(true), WithValidateChecksums(true))
		assert.Equal(t, testutil.SampleArchive(), data)
	})
}

func firstRecordSize(tb testing.TB) int {
	tb.Helper()
	return len(testutil.SampleArchive()) - len(testutil.HoleRecord(testutil.SampleFiller))
}

func TestDecodeLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mustDecode(t, testutil.SampleArchive(), WithLogger(logger))
	out := buf.String()
	assert.Contains(t, out, "skipping hole")
	assert.Contains(t, out, "decoded archive")
	assert.Contains(t, out, "holes=1")
	assert.Contains(t, out, "entries=1")
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FormatError{Offset: 37, Err: ErrTruncated}
	assert.Equal(t, "rsc: truncated record (record at offset 37)", err.Error())
	assert.True(t, errors.Is(err, ErrTruncated))
}
