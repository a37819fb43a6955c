package interp

import (
	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// IntWriter adapts an integer stream to the Writer interface, recording each
// value with the format it was written under and block actions as markers.
type IntWriter struct {
	pos *stream.IntWriteCursor
}

func NewIntWriter(s *stream.IntStream) *IntWriter {
	return &IntWriter{pos: stream.NewIntWriteCursor(s)}
}

func (w *IntWriter) StreamType() stream.StreamType { return stream.Int }

func (w *IntWriter) WriteUint8(v uint8)      { w.pos.Write(stream.IntType(v), stream.Uint8) }
func (w *IntWriter) WriteUint32(v uint32)    { w.pos.Write(stream.IntType(v), stream.Uint32) }
func (w *IntWriter) WriteUint64(v uint64)    { w.pos.Write(stream.IntType(v), stream.Uint64) }
func (w *IntWriter) WriteVarint32(v int32)   { w.pos.Write(stream.IntType(int64(v)), stream.Varint32) }
func (w *IntWriter) WriteVarint64(v int64)   { w.pos.Write(stream.IntType(v), stream.Varint64) }
func (w *IntWriter) WriteVaruint32(v uint32) { w.pos.Write(stream.IntType(v), stream.Varuint32) }
func (w *IntWriter) WriteVaruint64(v uint64) { w.pos.Write(stream.IntType(v), stream.Varuint64) }

func (w *IntWriter) WriteBits(v stream.IntType, n uint32) {
	w.pos.Write(v, stream.Varuint64)
}

func (w *IntWriter) WriteHeaderValue(v stream.IntType, f stream.IntTypeFormat) {
	w.pos.WriteHeader(v, f)
}

func (w *IntWriter) WriteAction(sym *filt.Node) bool {
	switch sym.Predefined() {
	case filt.PredefinedBlockEnter, filt.PredefinedBlockEnterWriteonly:
		w.pos.OpenBlock()
	case filt.PredefinedBlockExit, filt.PredefinedBlockExitWriteonly:
		w.pos.CloseBlock()
	case filt.PredefinedAlign:
		w.pos.Align()
	default:
		return false
	}
	return true
}

func (w *IntWriter) BeginBlock() { w.pos.OpenBlock() }
func (w *IntWriter) EndBlock()   { w.pos.CloseBlock() }

func (w *IntWriter) AlignToByte() {}

func (w *IntWriter) WriteFreezeEof() { w.pos.FreezeEof() }

func (w *IntWriter) Err() error { return w.pos.Err() }
