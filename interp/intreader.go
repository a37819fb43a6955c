package interp

import (
	"errors"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

var errIntStreamShape = errors.New("interp: integer stream out of shape")

// IntReader adapts an integer stream to the Reader interface. Every numeric
// read returns the next logical value regardless of requested width; block
// entry and exit consume the stream's markers.
type IntReader struct {
	pos     *stream.IntReadCursor
	violate bool
}

func NewIntReader(s *stream.IntStream) *IntReader {
	return &IntReader{pos: stream.NewIntReadCursor(s)}
}

func (r *IntReader) StreamType() stream.StreamType { return stream.Int }

func (r *IntReader) read() stream.IntType { return r.pos.Read() }

func (r *IntReader) ReadUint8() uint8      { return uint8(r.read()) }
func (r *IntReader) ReadUint32() uint32    { return uint32(r.read()) }
func (r *IntReader) ReadUint64() uint64    { return uint64(r.read()) }
func (r *IntReader) ReadVarint32() int32   { return int32(r.read()) }
func (r *IntReader) ReadVarint64() int64   { return int64(r.read()) }
func (r *IntReader) ReadVaruint32() uint32 { return uint32(r.read()) }
func (r *IntReader) ReadVaruint64() uint64 { return uint64(r.read()) }

func (r *IntReader) ReadBits(n uint32) stream.IntType { return r.read() }

func (r *IntReader) ReadHeaderValue(f stream.IntTypeFormat) (stream.IntType, bool) {
	return r.pos.ReadHeader(f)
}

func (r *IntReader) EnterBlock() bool {
	if !r.pos.OpenBlock() {
		r.violate = true
		return false
	}
	return true
}

func (r *IntReader) ExitBlock() {
	if !r.pos.CloseBlock() {
		r.violate = true
	}
}

func (r *IntReader) AlignToByte() {}

func (r *IntReader) AtBlockEob() bool { return r.pos.AtEob() }
func (r *IntReader) AtEof() bool      { return r.pos.AtEof() }

func (r *IntReader) HasEnoughHeadroom() bool { return r.pos.HasEnoughHeadroom() }

// FillMoreInput cannot grow an integer stream: producers freeze them before
// read-back, and with no producer attached there is nothing to wait for.
func (r *IntReader) FillMoreInput() error {
	return errors.New("interp: unfrozen integer stream cannot be back-filled")
}

func (r *IntReader) PushPeekPos() { r.pos.PushPeekPos() }
func (r *IntReader) PopPeekPos()  { r.pos.PopPeekPos() }

func (r *IntReader) Err() error {
	if r.violate || r.pos.EofSeen() {
		return errIntStreamShape
	}
	return nil
}
