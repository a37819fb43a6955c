package interp

import (
	"errors"
	"io"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

var errReadPastEof = errors.New("interp: read past frozen eof")

// ByteReader adapts a byte queue to the Reader interface. When a source is
// attached, FillMoreInput pulls one page at a time and freezes the queue at
// io.EOF, which is what makes the interpreter's pull back-filled.
type ByteReader struct {
	pos       *stream.ReadCursor
	src       io.Reader
	peekStack []*stream.ReadCursor
}

func NewByteReader(q *stream.Queue, src io.Reader) *ByteReader {
	return &ByteReader{pos: stream.NewReadCursor(q), src: src}
}

// Pos exposes the underlying cursor for drivers that bound bit-level reads.
func (r *ByteReader) Pos() *stream.ReadCursor { return r.pos }

func (r *ByteReader) StreamType() stream.StreamType { return stream.Byte }

func (r *ByteReader) ReadUint8() uint8      { return r.pos.ReadUint8() }
func (r *ByteReader) ReadUint32() uint32    { return r.pos.ReadUint32() }
func (r *ByteReader) ReadUint64() uint64    { return r.pos.ReadUint64() }
func (r *ByteReader) ReadVarint32() int32   { return r.pos.ReadVarint32() }
func (r *ByteReader) ReadVarint64() int64   { return r.pos.ReadVarint64() }
func (r *ByteReader) ReadVaruint32() uint32 { return r.pos.ReadVaruint32() }
func (r *ByteReader) ReadVaruint64() uint64 { return r.pos.ReadVaruint64() }

func (r *ByteReader) ReadBits(n uint32) stream.IntType { return r.pos.ReadBits(n) }

func (r *ByteReader) ReadHeaderValue(f stream.IntTypeFormat) (stream.IntType, bool) {
	var v stream.IntType
	switch f {
	case stream.Uint8:
		v = stream.IntType(r.pos.ReadUint8())
	case stream.Uint32:
		v = stream.IntType(r.pos.ReadUint32())
	case stream.Uint64:
		v = stream.IntType(r.pos.ReadUint64())
	case stream.Varint32:
		v = stream.IntType(r.pos.ReadVarint32())
	case stream.Varint64:
		v = stream.IntType(r.pos.ReadVarint64())
	case stream.Varuint32:
		v = stream.IntType(r.pos.ReadVaruint32())
	case stream.Varuint64:
		v = stream.IntType(r.pos.ReadVaruint64())
	}
	return v, !r.pos.EofSeen()
}

func (r *ByteReader) EnterBlock() bool {
	size := r.pos.ReadBlockSize()
	if r.pos.EofSeen() {
		return false
	}
	r.pos.PushEobAddress(size)
	return true
}

func (r *ByteReader) ExitBlock()   { r.pos.PopEobAddress() }
func (r *ByteReader) AlignToByte() { r.pos.AlignToByte() }

func (r *ByteReader) AtBlockEob() bool { return r.pos.AtByteEob() }
func (r *ByteReader) AtEof() bool      { return r.pos.AtEof() }

func (r *ByteReader) HasEnoughHeadroom() bool { return r.pos.HasEnoughHeadroom() }

func (r *ByteReader) FillMoreInput() error { return r.pos.Queue().FillFrom(r.src) }

func (r *ByteReader) PushPeekPos() {
	r.peekStack = append(r.peekStack, r.pos.Clone())
}

func (r *ByteReader) PopPeekPos() {
	if n := len(r.peekStack); n > 0 {
		r.pos.ResetTo(r.peekStack[n-1])
		r.peekStack = r.peekStack[:n-1]
	}
}

func (r *ByteReader) Err() error {
	if r.pos.EofSeen() {
		return errReadPastEof
	}
	return nil
}
