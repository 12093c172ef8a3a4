// Package archivefile reads and writes archive files on disk.
//
// Archives may be stored zstd-compressed (conventionally as .rsc.zst); Read
// detects the zstd frame magic and decompresses transparently. A raw archive
// can only start with the same four bytes if its first record is close to
// 4 GiB, which the engine never produces.
package archivefile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Read loads the archive at path, decompressing it if needed.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(data) {
		return data, nil
	}
	out, err := Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("archivefile: %s: %w", path, err)
	}
	return out, nil
}

// Write stores data at path, zstd-compressing it when compress is set.
func Write(path string, data []byte, compress bool) error {
	if compress {
		var err error
		if data, err = Compress(data); err != nil {
			return fmt.Errorf("archivefile: %s: %w", path, err)
		}
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // archives are not secret
}

// Compress returns data as a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decodes zstd-compressed data.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return out, nil
}
