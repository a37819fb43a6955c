package interp

import (
	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// ByteWriter adapts a byte queue to the Writer interface and owns the block
// size machinery: BeginBlock reserves a size slot at the maximum fixed
// width, EndBlock backpatches it in place or writes the minimized varuint
// and shifts the payload down to close the gap.
type ByteWriter struct {
	pos      *stream.WriteCursor
	minimize bool
	blocks   []openBlock
}

type openBlock struct {
	sizeSlot     int
	payloadStart int
}

func NewByteWriter(q *stream.Queue) *ByteWriter {
	return &ByteWriter{pos: stream.NewWriteCursor(q)}
}

// SetMinimizeBlockSize selects the variable-size block form for every block
// closed after the call.
func (w *ByteWriter) SetMinimizeBlockSize(minimize bool) { w.minimize = minimize }

func (w *ByteWriter) Pos() *stream.WriteCursor { return w.pos }

func (w *ByteWriter) StreamType() stream.StreamType { return stream.Byte }

func (w *ByteWriter) WriteUint8(v uint8)      { w.pos.WriteUint8(v) }
func (w *ByteWriter) WriteUint32(v uint32)    { w.pos.WriteUint32(v) }
func (w *ByteWriter) WriteUint64(v uint64)    { w.pos.WriteUint64(v) }
func (w *ByteWriter) WriteVarint32(v int32)   { w.pos.WriteVarint32(v) }
func (w *ByteWriter) WriteVarint64(v int64)   { w.pos.WriteVarint64(v) }
func (w *ByteWriter) WriteVaruint32(v uint32) { w.pos.WriteVaruint32(v) }
func (w *ByteWriter) WriteVaruint64(v uint64) { w.pos.WriteVaruint64(v) }

func (w *ByteWriter) WriteBits(v stream.IntType, n uint32) { w.pos.WriteBits(v, n) }

func (w *ByteWriter) WriteHeaderValue(v stream.IntType, f stream.IntTypeFormat) {
	w.WriteValue(v, f)
}

// WriteValue writes v in the encoding format f selects.
func (w *ByteWriter) WriteValue(v stream.IntType, f stream.IntTypeFormat) {
	switch f {
	case stream.Uint8:
		w.pos.WriteUint8(uint8(v))
	case stream.Uint32:
		w.pos.WriteUint32(uint32(v))
	case stream.Uint64:
		w.pos.WriteUint64(uint64(v))
	case stream.Varint32:
		w.pos.WriteVarint32(int32(v))
	case stream.Varint64:
		w.pos.WriteVarint64(int64(v))
	case stream.Varuint32:
		w.pos.WriteVaruint32(uint32(v))
	case stream.Varuint64:
		w.pos.WriteVaruint64(uint64(v))
	}
}

func (w *ByteWriter) WriteAction(sym *filt.Node) bool {
	switch sym.Predefined() {
	case filt.PredefinedBlockEnter, filt.PredefinedBlockEnterWriteonly:
		w.BeginBlock()
	case filt.PredefinedBlockExit, filt.PredefinedBlockExitWriteonly:
		w.EndBlock()
	case filt.PredefinedAlign:
		w.AlignToByte()
	default:
		return false
	}
	return true
}

func (w *ByteWriter) BeginBlock() {
	slot := w.pos.CurByteAddress()
	w.pos.WriteFixedBlockSize(0)
	w.blocks = append(w.blocks, openBlock{sizeSlot: slot, payloadStart: w.pos.CurByteAddress()})
}

func (w *ByteWriter) EndBlock() {
	n := len(w.blocks)
	if n == 0 {
		return
	}
	blk := w.blocks[n-1]
	w.blocks = w.blocks[:n-1]

	w.pos.AlignToByte()
	end := w.pos.CurByteAddress()
	size := uint32(end - blk.payloadStart)
	w.pos.SeekByteAddress(blk.sizeSlot)
	if !w.minimize {
		w.pos.WriteFixedBlockSize(size)
		w.pos.SeekByteAddress(end)
		return
	}
	w.pos.WriteVaruintBlockSize(size)
	gap := blk.payloadStart - w.pos.CurByteAddress()
	w.pos.SeekByteAddress(end)
	if gap > 0 {
		w.pos.MoveDown(blk.payloadStart, gap)
	}
}

func (w *ByteWriter) AlignToByte() { w.pos.AlignToByte() }

func (w *ByteWriter) WriteFreezeEof() { w.pos.FreezeEof() }

func (w *ByteWriter) Err() error { return w.pos.Err() }
