package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaruintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, 1<<32 - 1, 1<<63 + 17}
	for _, v := range values {
		q := NewQueue()
		w := NewWriteCursor(q)
		w.WriteVaruint64(v)
		require.NoError(t, w.Err())
		q.FreezeEof()
		r := NewReadCursor(q)
		assert.Equal(t, v, r.ReadVaruint64(), "value %d", v)
		assert.True(t, r.AtEof())
	}
}

func TestVaruint32Value300(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteVaruint32(300)
	assert.Equal(t, []byte{0xAC, 0x02}, q.Bytes())
	q.FreezeEof()
	r := NewReadCursor(q)
	assert.Equal(t, uint32(300), r.ReadVaruint32())
}

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, 64, -64, -65, 300, -300, 1 << 40, -(1 << 40)}
	for _, v := range values {
		q := NewQueue()
		w := NewWriteCursor(q)
		w.WriteVarint64(v)
		q.FreezeEof()
		r := NewReadCursor(q)
		assert.Equal(t, v, r.ReadVarint64(), "value %d", v)
	}
}

func TestUint32LittleEndian(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteUint32(0x6d736100)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d}, q.Bytes())
	q.FreezeEof()
	r := NewReadCursor(q)
	assert.Equal(t, uint32(0x6d736100), r.ReadUint32())
}

func TestBitPackingMsbFirst(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteBit(1)
	w.WriteBit(0)
	w.WriteBit(1)
	w.AlignToByte()
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0xA0}, q.Bytes())

	q.FreezeEof()
	r := NewReadCursor(q)
	assert.Equal(t, IntType(1), r.ReadBit())
	assert.Equal(t, IntType(0), r.ReadBit())
	assert.Equal(t, IntType(1), r.ReadBit())
	r.AlignToByte()
	assert.True(t, r.AtEof())
}

func TestReadBitsAcrossBytes(t *testing.T) {
	q := NewFrozenQueue([]byte{0xAB, 0xCD})
	r := NewReadCursor(q)
	assert.Equal(t, IntType(0xABC), r.ReadBits(12))
	assert.Equal(t, IntType(0xD), r.ReadBits(4))
}

func TestFrozenStreamSemantics(t *testing.T) {
	q := NewFrozenQueue([]byte{0x7f})
	r := NewReadCursor(q)
	assert.Equal(t, uint8(0x7f), r.ReadUint8())
	assert.True(t, r.AtEof())
	assert.False(t, r.EofSeen())

	// Reads past the frozen end return 0 and latch EOF.
	assert.Equal(t, uint8(0), r.ReadUint8())
	assert.True(t, r.EofSeen())

	// Writes to a frozen stream fail.
	w := NewWriteCursor(q)
	w.WriteUint8(1)
	assert.ErrorIs(t, w.Err(), ErrFrozen)
	assert.Error(t, q.Write([]byte{1}))
}

func TestFixedBlockSizeIsPaddedVaruint(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteFixedBlockSize(5)
	require.Equal(t, FixedBlockSizeWidth, q.Size())
	q.FreezeEof()
	r := NewReadCursor(q)
	assert.Equal(t, uint32(5), r.ReadBlockSize())
	assert.Equal(t, FixedBlockSizeWidth, r.CurByteAddress())
}

func TestMinimizedBlockSize(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteVaruintBlockSize(5)
	assert.Equal(t, []byte{0x05}, q.Bytes())
}

func TestMoveDownClosesBackpatchGap(t *testing.T) {
	q := NewQueue()
	w := NewWriteCursor(q)
	w.WriteFixedBlockSize(0) // placeholder
	payload := []byte{1, 2, 3, 4, 5}
	for _, b := range payload {
		w.WriteByte(b)
	}
	end := w.CurByteAddress()

	// Backpatch with the minimized form and shift the payload down.
	w.SeekByteAddress(0)
	w.WriteVaruintBlockSize(uint32(len(payload)))
	gap := FixedBlockSizeWidth - w.CurByteAddress()
	w.SeekByteAddress(end)
	w.MoveDown(FixedBlockSizeWidth, gap)
	require.NoError(t, w.Err())

	assert.Equal(t, append([]byte{0x05}, payload...), q.Bytes())
	assert.Equal(t, end-gap, w.CurByteAddress())
}

func TestCursorCloneRestoresBitExact(t *testing.T) {
	q := NewFrozenQueue([]byte{0xF0, 0x0F, 0xAA})
	r := NewReadCursor(q)
	r.ReadBits(5)
	saved := r.Clone()
	r.ReadBits(9)
	r.ReadUint8()
	// Speculatively run past the frozen end; the latch must not survive
	// the rewind.
	r.ReadUint8()
	require.True(t, r.EofSeen())
	r.ResetTo(saved)
	assert.Equal(t, saved.CurByteAddress(), r.CurByteAddress())
	assert.Equal(t, saved.BitOffset(), r.BitOffset())
	assert.False(t, r.EofSeen())
	assert.Equal(t, IntType(0x0), r.ReadBits(3))
}

func TestEobStackBoundsReads(t *testing.T) {
	q := NewFrozenQueue([]byte{1, 2, 3, 4})
	r := NewReadCursor(q)
	r.PushEobAddress(2)
	assert.False(t, r.AtByteEob())
	assert.Equal(t, uint8(1), r.ReadUint8())
	assert.Equal(t, uint8(2), r.ReadUint8())
	assert.True(t, r.AtByteEob())
	assert.Equal(t, uint8(0), r.ReadUint8())
	assert.True(t, r.EofSeen())
	r.PopEobAddress()
	assert.False(t, r.AtByteEob())
}

func TestQueueFillFrom(t *testing.T) {
	q := NewQueue()
	src := bytes.NewReader(bytes.Repeat([]byte{0xCC}, PageSize+10))
	require.NoError(t, q.FillFrom(src))
	assert.Equal(t, PageSize, q.Size())
	assert.False(t, q.IsFrozen())
	require.NoError(t, q.FillFrom(src))
	assert.Equal(t, PageSize+10, q.Size())
	require.NoError(t, q.FillFrom(src))
	assert.True(t, q.IsFrozen())
}

func TestIntStreamBlocksAndHeader(t *testing.T) {
	s := NewIntStream()
	w := NewIntWriteCursor(s)
	w.WriteHeader(0x6d736100, Uint32)
	w.WriteHeader(1, Uint32)
	w.Write(7, Varuint64)
	w.OpenBlock()
	w.Write(8, Uint8)
	w.Write(9, Uint8)
	w.CloseBlock()
	w.FreezeEof()
	require.NoError(t, w.Err())

	r := NewIntReadCursor(s)
	magic, ok := r.ReadHeader(Uint32)
	require.True(t, ok)
	assert.Equal(t, IntType(0x6d736100), magic)
	_, ok = r.ReadHeader(Uint32)
	require.True(t, ok)
	_, ok = r.ReadHeader(Uint32)
	assert.False(t, ok, "header exhausted")

	assert.Equal(t, IntType(7), r.Read())
	require.True(t, r.OpenBlock())
	assert.False(t, r.AtEob())
	assert.Equal(t, IntType(8), r.Read())
	assert.Equal(t, IntType(9), r.Read())
	assert.True(t, r.AtEob())
	assert.False(t, r.AtEof())
	require.True(t, r.CloseBlock())
	assert.True(t, r.AtEof())
}

func TestIntStreamPeekStack(t *testing.T) {
	s := NewIntStream()
	w := NewIntWriteCursor(s)
	for i := 0; i < 4; i++ {
		w.Write(IntType(i), Varuint64)
	}
	w.FreezeEof()

	r := NewIntReadCursor(s)
	r.Read()
	r.PushPeekPos()
	assert.Equal(t, IntType(1), r.Read())
	assert.Equal(t, IntType(2), r.Read())
	r.PopPeekPos()
	assert.Equal(t, IntType(1), r.Read())
}

func TestFrozenIntStreamRejectsWrites(t *testing.T) {
	s := NewIntStream()
	w := NewIntWriteCursor(s)
	w.Write(1, Varuint64)
	w.FreezeEof()
	w.Write(2, Varuint64)
	assert.ErrorIs(t, w.Err(), ErrFrozen)
	assert.Equal(t, 1, s.Size())
}

func TestParseIntTypeFormat(t *testing.T) {
	f, err := ParseIntTypeFormat("varuint32")
	require.NoError(t, err)
	assert.Equal(t, Varuint32, f)
	_, err = ParseIntTypeFormat("float32")
	assert.Error(t, err)
}
