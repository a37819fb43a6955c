// Package interp implements the suspendable interpreter that evaluates a
// filter AST against an input stream and emits to an output stream, plus the
// byte- and integer-stream adapters it reads and writes through.
package interp

import (
	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// Reader is the pull side of the interpreter. Implementations cover byte
// queues (with back-filled pull) and integer streams; block entry reads the
// size prefix or consumes the marker as appropriate to the stream type.
type Reader interface {
	StreamType() stream.StreamType

	ReadUint8() uint8
	ReadUint32() uint32
	ReadUint64() uint64
	ReadVarint32() int32
	ReadVarint64() int64
	ReadVaruint32() uint32
	ReadVaruint64() uint64
	ReadBits(n uint32) stream.IntType

	ReadHeaderValue(f stream.IntTypeFormat) (stream.IntType, bool)

	EnterBlock() bool
	ExitBlock()
	AlignToByte()

	AtBlockEob() bool
	AtEof() bool

	// HasEnoughHeadroom reports whether a bounded burst of reads can
	// proceed; FillMoreInput advances the fill by one page when it cannot.
	HasEnoughHeadroom() bool
	FillMoreInput() error

	PushPeekPos()
	PopPeekPos()

	Err() error
}

// Writer is the push side of the interpreter.
type Writer interface {
	StreamType() stream.StreamType

	WriteUint8(v uint8)
	WriteUint32(v uint32)
	WriteUint64(v uint64)
	WriteVarint32(v int32)
	WriteVarint64(v int64)
	WriteVaruint32(v uint32)
	WriteVaruint64(v uint64)
	WriteBits(v stream.IntType, n uint32)

	WriteHeaderValue(v stream.IntType, f stream.IntTypeFormat)

	// WriteAction applies a callback symbol (block enter/exit, align).
	WriteAction(sym *filt.Node) bool

	BeginBlock()
	EndBlock()
	AlignToByte()

	WriteFreezeEof()

	Err() error
}
