package filt

import "github.com/seanpm2001/decompressor-prototype/stream"

// Magic numbers and versions of the module formats handled by the
// compressor. All are 32-bit little-endian words on the wire.
const (
	WasmBinaryMagic   stream.IntType = 0x6d736100 // "\0asm"
	WasmBinaryVersion stream.IntType = 0x1

	CasmBinaryMagic   stream.IntType = 0x6d736163 // "casm"
	CasmBinaryVersion stream.IntType = 0x0

	CismBinaryMagic   stream.IntType = 0x6d736963 // "cism"
	CismBinaryVersion stream.IntType = 0x0
)
