package interp

import (
	"bytes"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

func wasmHeader() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
}

// moduleWithSection appends one section in minimized block size form.
func moduleWithSection(name string, payload []byte) []byte {
	m := wasmHeader()
	m = append(m, byte(len(name)))
	m = append(m, name...)
	m = append(m, byte(len(payload)))
	m = append(m, payload...)
	return m
}

// fileIdentity installs the filter that copies any byte stream unchanged.
func fileIdentity(t *testing.T, symtab *filt.SymbolTable) {
	t.Helper()
	define := symtab.Create(filt.OpDefine,
		symtab.GetPredefined(filt.PredefinedFile),
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		symtab.Create(filt.OpLoopUnbounded,
			symtab.Create(filt.OpWrite,
				symtab.Create(filt.OpUint8NoArgs),
				symtab.Create(filt.OpUint8NoArgs))))
	require.NoError(t, symtab.Install(symtab.Create(filt.OpFile, define)))
}

func TestDecompressEmptyModule(t *testing.T) {
	in := wasmHeader()
	outQ := stream.NewQueue()
	i := New(
		NewByteReader(stream.NewFrozenQueue(in), nil),
		NewByteWriter(outQ),
		filt.NewSymbolTable())
	require.NoError(t, i.DecompressModule())
	assert.Equal(t, in, outQ.Bytes())
	assert.True(t, outQ.IsFrozen())
	assert.Equal(t, stream.IntType(filt.WasmBinaryMagic), i.Magic())
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	in := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x00, 0x00, 0x00}
	i := New(
		NewByteReader(stream.NewFrozenQueue(in), nil),
		NewByteWriter(stream.NewQueue()),
		filt.NewSymbolTable())
	assert.Error(t, i.DecompressModule())
}

func TestDecompressSectionCopyThrough(t *testing.T) {
	in := moduleWithSection("data", []byte{1, 2, 3, 4, 5})
	outQ := stream.NewQueue()
	w := NewByteWriter(outQ)
	w.SetMinimizeBlockSize(true)
	i := New(NewByteReader(stream.NewFrozenQueue(in), nil), w, filt.NewSymbolTable())
	require.NoError(t, i.DecompressModule())
	assert.Equal(t, in, outQ.Bytes())
}

// A block whose payload is 5 bytes is emitted with minimized sizes as
// varuint 0x05 plus the payload, not the 10-byte fixed form (a 5-byte padded
// size slot plus the payload).
func TestBlockSizeMinimization(t *testing.T) {
	in := moduleWithSection("d", []byte{9, 8, 7, 6, 5})
	for _, minimize := range []bool{true, false} {
		outQ := stream.NewQueue()
		w := NewByteWriter(outQ)
		w.SetMinimizeBlockSize(minimize)
		i := New(NewByteReader(stream.NewFrozenQueue(in), nil), w, filt.NewSymbolTable())
		require.NoError(t, i.DecompressModule())
		// 8 header + 1 name len + 1 name + size prefix + 5 payload.
		prefix := 1
		if !minimize {
			prefix = stream.FixedBlockSizeWidth
		}
		assert.Equal(t, 10+prefix+5, outQ.Size(), "minimize=%v", minimize)
		if minimize {
			assert.Equal(t, byte(0x05), outQ.Bytes()[10])
			assert.Equal(t, in, outQ.Bytes())
		}
	}
}

func TestRunFileIdentityFilter(t *testing.T) {
	payload := []byte{0x00, 0xff, 0x10, 0x20, 0x30, 0x7f}
	symtab := filt.NewSymbolTable()
	fileIdentity(t, symtab)

	outQ := stream.NewQueue()
	i := New(NewByteReader(stream.NewFrozenQueue(payload), nil), NewByteWriter(outQ), symtab)
	require.NoError(t, i.RunFile())
	assert.Equal(t, payload, outQ.Bytes())
	assert.True(t, outQ.IsFrozen())
}

// Identical output whether the input arrives in one shot or one byte at a
// time through the back-filled pull.
func TestRunFileByteAtATime(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB, 0x12, 0x7f, 0x80}, 60)
	symtab := filt.NewSymbolTable()
	fileIdentity(t, symtab)

	oneShotQ := stream.NewQueue()
	i := New(NewByteReader(stream.NewFrozenQueue(payload), nil), NewByteWriter(oneShotQ), symtab)
	require.NoError(t, i.RunFile())

	symtab2 := filt.NewSymbolTable()
	fileIdentity(t, symtab2)
	trickleQ := stream.NewQueue()
	src := iotest.OneByteReader(bytes.NewReader(payload))
	i2 := New(NewByteReader(stream.NewQueue(), src), NewByteWriter(trickleQ), symtab2)
	require.NoError(t, i2.RunFile())

	assert.Equal(t, oneShotQ.Bytes(), trickleQ.Bytes())
}

// Scenario: a define reading one varuint32 and writing one copies the bytes
// 0xAC 0x02 and leaves LastReadValue = 300.
func TestVaruint32CopySection(t *testing.T) {
	symtab := filt.NewSymbolTable()
	counts := symtab.GetOrCreateSymbol("counts")
	define := symtab.Create(filt.OpDefine,
		counts,
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		symtab.Create(filt.OpWrite,
			symtab.Create(filt.OpVaruint32NoArgs),
			symtab.Create(filt.OpVaruint32NoArgs)))
	require.NoError(t, symtab.Install(symtab.Create(filt.OpFile, define)))

	in := moduleWithSection("counts", []byte{0xAC, 0x02})
	outQ := stream.NewQueue()
	w := NewByteWriter(outQ)
	w.SetMinimizeBlockSize(true)
	i := New(NewByteReader(stream.NewFrozenQueue(in), nil), w, symtab)
	require.NoError(t, i.DecompressModule())
	assert.Equal(t, in, outQ.Bytes())
	assert.Equal(t, stream.IntType(300), i.LastReadValue())
}

// The interpreter rebuilds module bytes from a decoded integer stream read
// through an IntReader: header pairs become the magic words, values the
// names and payload octets, markers the size-prefixed blocks.
func TestDecompressModuleFromIntStream(t *testing.T) {
	s := stream.NewIntStream()
	iw := stream.NewIntWriteCursor(s)
	iw.WriteHeader(filt.WasmBinaryMagic, stream.Uint32)
	iw.WriteHeader(filt.WasmBinaryVersion, stream.Uint32)
	iw.Write(4, stream.Varuint32)
	for _, b := range []byte("code") {
		iw.Write(stream.IntType(b), stream.Uint8)
	}
	iw.OpenBlock()
	for _, b := range []byte{9, 8, 7} {
		iw.Write(stream.IntType(b), stream.Uint8)
	}
	iw.CloseBlock()
	iw.FreezeEof()
	require.NoError(t, iw.Err())

	outQ := stream.NewQueue()
	w := NewByteWriter(outQ)
	w.SetMinimizeBlockSize(true)
	i := New(NewIntReader(s), w, filt.NewSymbolTable())
	require.NoError(t, i.DecompressModule())
	assert.Equal(t, moduleWithSection("code", []byte{9, 8, 7}), outQ.Bytes())
}

// A decoded stream whose section block never opens is a shape violation,
// not a hang.
func TestDecompressModuleFromMalformedIntStream(t *testing.T) {
	s := stream.NewIntStream()
	iw := stream.NewIntWriteCursor(s)
	iw.WriteHeader(filt.WasmBinaryMagic, stream.Uint32)
	iw.WriteHeader(filt.WasmBinaryVersion, stream.Uint32)
	iw.Write(1, stream.Varuint32)
	iw.Write('d', stream.Uint8)
	iw.Write(5, stream.Uint8) // payload value without a block marker
	iw.FreezeEof()

	i := New(NewIntReader(s), NewByteWriter(stream.NewQueue()), filt.NewSymbolTable())
	assert.Error(t, i.DecompressModule())
}

func TestEvalCallAndParams(t *testing.T) {
	symtab := filt.NewSymbolTable()
	emit := symtab.GetOrCreateSymbol("emit")
	// (define emit (params 1) (locals none) (write uint8 (param 0)))
	define := symtab.Create(filt.OpDefine,
		emit,
		symtab.CreateInt(filt.OpParamValues, 1),
		symtab.Create(filt.OpNoLocals),
		symtab.Create(filt.OpWrite,
			symtab.Create(filt.OpUint8NoArgs),
			symtab.CreateInt(filt.OpParam, 0)))
	call := symtab.Create(filt.OpEval, emit, symtab.CreateInt(filt.OpU8Const, 0x42))
	fileDefine := symtab.Create(filt.OpDefine,
		symtab.GetPredefined(filt.PredefinedFile),
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		call)
	require.NoError(t, symtab.Install(symtab.Create(filt.OpFile, define, fileDefine)))

	outQ := stream.NewQueue()
	i := New(NewByteReader(stream.NewFrozenQueue(nil), nil), NewByteWriter(outQ), symtab)
	require.NoError(t, i.RunFile())
	assert.Equal(t, []byte{0x42}, outQ.Bytes())
}

func TestEvalCallArityMismatch(t *testing.T) {
	symtab := filt.NewSymbolTable()
	emit := symtab.GetOrCreateSymbol("emit")
	define := symtab.Create(filt.OpDefine,
		emit,
		symtab.CreateInt(filt.OpParamValues, 2),
		symtab.Create(filt.OpNoLocals),
		symtab.Create(filt.OpVoid))
	call := symtab.Create(filt.OpEval, emit, symtab.CreateInt(filt.OpU8Const, 1))
	fileDefine := symtab.Create(filt.OpDefine,
		symtab.GetPredefined(filt.PredefinedFile),
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		call)
	require.NoError(t, symtab.Install(symtab.Create(filt.OpFile, define, fileDefine)))

	i := New(NewByteReader(stream.NewFrozenQueue(nil), nil), NewByteWriter(stream.NewQueue()), symtab)
	assert.Error(t, i.RunFile())
}

func TestPeekRestoresReadCursor(t *testing.T) {
	symtab := filt.NewSymbolTable()
	q := stream.NewFrozenQueue([]byte{0x11, 0x22})
	r := NewByteReader(q, nil)
	i := New(r, NewByteWriter(stream.NewQueue()), symtab)

	peek := symtab.Create(filt.OpPeek, symtab.Create(filt.OpUint8NoArgs))
	assert.Equal(t, stream.IntType(0x11), i.read(peek))
	// The cursor is back at its pre-peek position bit for bit.
	assert.Equal(t, 0, r.Pos().CurByteAddress())
	assert.Equal(t, uint32(0), r.Pos().BitOffset())
	assert.Equal(t, stream.IntType(0x11), i.read(symtab.Create(filt.OpUint8NoArgs)))
}

func TestMapEval(t *testing.T) {
	symtab := filt.NewSymbolTable()
	m := symtab.Create(filt.OpMap,
		symtab.Create(filt.OpLastRead),
		symtab.Create(filt.OpCase,
			symtab.CreateInt(filt.OpU64Const, 2),
			symtab.CreateInt(filt.OpU32Const, 16767)))

	i := New(NewByteReader(stream.NewFrozenQueue(nil), nil),
		NewByteWriter(stream.NewQueue()), symtab)
	i.lastReadValue = 2
	assert.Equal(t, stream.IntType(16767), i.eval(m))
	assert.NoError(t, i.Err())

	// A key with no matching case is fatal.
	i.lastReadValue = 9
	i.eval(m)
	assert.Error(t, i.Err())
}

func TestSwitchSelectsCaseOrDefault(t *testing.T) {
	symtab := filt.NewSymbolTable()
	sw := symtab.Create(filt.OpSwitch,
		symtab.Create(filt.OpUint8NoArgs),
		symtab.Create(filt.OpError),
		symtab.Create(filt.OpCase,
			symtab.CreateInt(filt.OpU64Const, 7),
			symtab.Create(filt.OpWrite,
				symtab.Create(filt.OpUint8NoArgs),
				symtab.CreateInt(filt.OpU8Const, 0x55))))
	fileDefine := symtab.Create(filt.OpDefine,
		symtab.GetPredefined(filt.PredefinedFile),
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		sw)
	require.NoError(t, symtab.Install(symtab.Create(filt.OpFile, fileDefine)))

	outQ := stream.NewQueue()
	i := New(NewByteReader(stream.NewFrozenQueue([]byte{7}), nil), NewByteWriter(outQ), symtab)
	require.NoError(t, i.RunFile())
	// A bare primitive selector is evaluated as read-then-write, so the
	// selector byte 7 is copied before the selected case writes 0x55.
	assert.Equal(t, []byte{0x07, 0x55}, outQ.Bytes())

	// The no-match arm is Error: a selector with no case fails the run.
	symtab2 := filt.NewSymbolTable()
	sw2 := symtab2.Create(filt.OpSwitch,
		symtab2.Create(filt.OpUint8NoArgs),
		symtab2.Create(filt.OpError),
		symtab2.Create(filt.OpCase,
			symtab2.CreateInt(filt.OpU64Const, 7),
			symtab2.Create(filt.OpVoid)))
	fileDefine2 := symtab2.Create(filt.OpDefine,
		symtab2.GetPredefined(filt.PredefinedFile),
		symtab2.Create(filt.OpNoParams),
		symtab2.Create(filt.OpNoLocals),
		sw2)
	require.NoError(t, symtab2.Install(symtab2.Create(filt.OpFile, fileDefine2)))
	i2 := New(NewByteReader(stream.NewFrozenQueue([]byte{9}), nil),
		NewByteWriter(stream.NewQueue()), symtab2)
	assert.Error(t, i2.RunFile())
}

func TestBinaryEvalReadAndWrite(t *testing.T) {
	symtab := filt.NewSymbolTable()
	// select(accept(0), select(accept(1), accept(2))): codes 0, 10, 11.
	tree := symtab.Create(filt.OpBinarySelect,
		symtab.CreateInt(filt.OpBinaryAccept, 0),
		symtab.Create(filt.OpBinarySelect,
			symtab.CreateInt(filt.OpBinaryAccept, 1),
			symtab.CreateInt(filt.OpBinaryAccept, 2)))
	be := symtab.Create(filt.OpBinaryEval, tree)

	// 0b0_10_11_000 reads symbols 0, 1, 2.
	q := stream.NewFrozenQueue([]byte{0x58})
	i := New(NewByteReader(q, nil), NewByteWriter(stream.NewQueue()), symtab)
	assert.Equal(t, stream.IntType(0), i.read(be))
	assert.Equal(t, stream.IntType(1), i.read(be))
	assert.Equal(t, stream.IntType(2), i.read(be))
	require.NoError(t, i.Err())

	outQ := stream.NewQueue()
	i2 := New(NewByteReader(stream.NewFrozenQueue(nil), nil), NewByteWriter(outQ), symtab)
	i2.write(0, be)
	i2.write(1, be)
	i2.write(2, be)
	i2.writer.AlignToByte()
	require.NoError(t, i2.Err())
	assert.Equal(t, []byte{0x58}, outQ.Bytes())
}

func TestFatalClearsFrameStack(t *testing.T) {
	symtab := filt.NewSymbolTable()
	i := New(NewByteReader(stream.NewFrozenQueue(nil), nil),
		NewByteWriter(stream.NewQueue()), symtab)
	i.call(methodRead, symtab.Create(filt.OpUint8NoArgs))
	i.fatal("boom")
	assert.Empty(t, i.frameStack)
	assert.Error(t, i.Err())
	// Later steps observe the terminal state.
	assert.Equal(t, stream.IntType(0), i.read(symtab.Create(filt.OpUint8NoArgs)))
}
