// Package rsc decodes and encodes RSC resource archives, the asset
// containers produced alongside compiled game-engine binaries.
//
// An archive is a flat sequence of self-delimiting records with no header
// or trailer. Each record is either a Resource (an asset with a path, type,
// timestamps, checksum and content) or a Hole left behind by an earlier
// incremental build:
//
//	record   := length:u32 body
//	hole     := used:u8(=0) filler
//	resource := used:u8(=1) type:u8 checksum:u32 modified:u32 added:u32
//	            content_length:u32 path:cstring content padding
//
// All integers are little-endian. The length prefix is one less than the
// body size, so each record occupies 4 + length + 1 bytes. Bit 7 of the type
// byte flags encrypted content. Timestamps are Unix seconds.
//
// Decode returns entries that view the input buffer; Encode always writes a
// fresh buffer and recomputes every checksum. Decoding an archive with
// WithIncludeEmpty and encoding the result reproduces the input exactly,
// provided every stored checksum matches its content.
//
// Decode and Encode keep no shared state and are safe to call concurrently
// on distinct buffers.
package rsc
