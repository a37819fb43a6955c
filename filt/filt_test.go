package filt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

// identityAlgorithm builds File(header, Define(file, NoParams, NoLocals,
// LoopUnbounded(Write(uint8, uint8)))): the filter that copies any byte
// stream through unchanged.
func identityAlgorithm(t *testing.T, symtab *SymbolTable) *Node {
	t.Helper()
	header := symtab.Create(OpFileHeader,
		symtab.CreateInt(OpU32Const, WasmBinaryMagic),
		symtab.CreateInt(OpU32Const, WasmBinaryVersion))
	body := symtab.Create(OpLoopUnbounded,
		symtab.Create(OpWrite,
			symtab.Create(OpUint8NoArgs),
			symtab.Create(OpUint8NoArgs)))
	define := symtab.Create(OpDefine,
		symtab.GetPredefined(PredefinedFile),
		symtab.Create(OpNoParams),
		symtab.Create(OpNoLocals),
		body)
	file := symtab.Create(OpFile, header, define)
	require.NoError(t, symtab.Install(file))
	return file
}

func TestSymbolTableUpsert(t *testing.T) {
	symtab := NewSymbolTable()
	a := symtab.GetOrCreateSymbol("opcode")
	b := symtab.GetOrCreateSymbol("opcode")
	assert.Same(t, a, b)
	assert.Nil(t, symtab.GetSymbol("categorize"))
	assert.Equal(t, PredefinedBlockEnter, symtab.GetPredefined(PredefinedBlockEnter).Predefined())
}

func TestSymbolTableEnclosingScope(t *testing.T) {
	outer := NewSymbolTable()
	sym := outer.GetOrCreateSymbol("process")
	inner := NewSymbolTable()
	inner.SetEnclosingScope(outer)
	assert.Same(t, sym, inner.GetSymbol("process"))
	assert.Same(t, sym, inner.GetOrCreateSymbol("process"))
}

func TestInstallBindsDefinesRenamesUndefines(t *testing.T) {
	symtab := NewSymbolTable()
	opcode := symtab.GetOrCreateSymbol("opcode")
	opcodeOld := symtab.GetOrCreateSymbol("opcode.old")
	oldDef := symtab.Create(OpDefine, opcode,
		symtab.Create(OpNoParams), symtab.Create(OpNoLocals), symtab.Create(OpVoid))
	opcode.SetDefineDefinition(oldDef)

	newDef := symtab.Create(OpDefine, opcode,
		symtab.Create(OpNoParams), symtab.Create(OpNoLocals), symtab.Create(OpVaruint64NoArgs))
	file := symtab.Create(OpFile,
		symtab.Create(OpRename, opcode, opcodeOld),
		newDef)
	require.NoError(t, symtab.Install(file))

	assert.Same(t, oldDef, opcodeOld.DefineDefinition())
	assert.Same(t, newDef, opcode.DefineDefinition())

	require.NoError(t, symtab.Install(symtab.Create(OpFile, symtab.Create(OpUndefine, opcode))))
	assert.Nil(t, opcode.DefineDefinition())
}

func TestInstallResolvesParamDefiningSymbol(t *testing.T) {
	symtab := NewSymbolTable()
	cat := symtab.GetOrCreateSymbol("categorize")
	param := symtab.CreateInt(OpParam, 0)
	define := symtab.Create(OpDefine, cat,
		symtab.CreateInt(OpParamValues, 1),
		symtab.Create(OpNoLocals),
		symtab.Create(OpMap, param))
	require.NoError(t, symtab.Install(symtab.Create(OpFile, define)))
	assert.Same(t, cat, param.DefiningSymbol())
}

func TestDefaultValuePredicate(t *testing.T) {
	symtab := NewSymbolTable()
	assert.True(t, symtab.CreateInt(OpU32Const, 0).IsDefaultValue())
	assert.False(t, symtab.CreateInt(OpU32Const, 7).IsDefaultValue())
}

func TestDefinesIntTypeFormat(t *testing.T) {
	symtab := NewSymbolTable()
	assert.True(t, symtab.CreateInt(OpU32Const, WasmBinaryMagic).DefinesIntTypeFormat())
	assert.True(t, symtab.CreateInt(OpU8Const, 0xff).DefinesIntTypeFormat())
	assert.False(t, symtab.CreateInt(OpU8Const, 0x100).DefinesIntTypeFormat(),
		"u8 literal out of range")
	assert.False(t, symtab.CreateInt(OpI32Const, 1).DefinesIntTypeFormat(),
		"varint literals cannot appear in headers")
}

func TestFlattenDefaultLiteralForm(t *testing.T) {
	symtab := NewSymbolTable()
	file := symtab.Create(OpFile, symtab.CreateInt(OpU32Const, 0))
	require.NoError(t, symtab.Install(file))

	out := stream.NewIntStream()
	flattener := NewFlattenAst(stream.NewIntWriteCursor(out), symtab)
	require.True(t, flattener.Flatten())

	values := out.Values()
	// Snapshot (no symbols): count 0. Then opcode, 0.
	require.Len(t, values, 3)
	assert.Equal(t, stream.IntType(0), values[0].Value)
	assert.Equal(t, stream.IntType(OpU32Const), values[1].Value)
	assert.Equal(t, stream.IntType(0), values[2].Value)
}

func TestFlattenNonDefaultLiteralForm(t *testing.T) {
	symtab := NewSymbolTable()
	file := symtab.Create(OpFile, symtab.CreateInt(OpU32Const, 9))
	require.NoError(t, symtab.Install(file))

	out := stream.NewIntStream()
	flattener := NewFlattenAst(stream.NewIntWriteCursor(out), symtab)
	require.True(t, flattener.Flatten())

	values := out.Values()
	require.Len(t, values, 4)
	assert.Equal(t, stream.IntType(OpU32Const), values[1].Value)
	assert.Equal(t, stream.IntType(stream.Uint32)+1, values[2].Value)
	assert.Equal(t, stream.IntType(9), values[3].Value)
}

func TestFlattenBadHeaderLiteral(t *testing.T) {
	symtab := NewSymbolTable()
	header := symtab.Create(OpFileHeader, symtab.CreateInt(OpU8Const, 0x1ff))
	file := symtab.Create(OpFile, header)
	require.NoError(t, symtab.Install(file))

	out := stream.NewIntStream()
	flattener := NewFlattenAst(stream.NewIntWriteCursor(out), symtab)
	assert.False(t, flattener.Flatten())
	assert.True(t, flattener.HasErrors())
	assert.Empty(t, out.Header(), "nothing emitted for a bad header literal")
}

func TestFlattenUnflattenIdentityAlgorithm(t *testing.T) {
	symtab := NewSymbolTable()
	file := identityAlgorithm(t, symtab)

	out := stream.NewIntStream()
	flattener := NewFlattenAst(stream.NewIntWriteCursor(out), symtab)
	require.True(t, flattener.Flatten())
	require.True(t, out.IsFrozen())

	symtab2 := NewSymbolTable()
	got, err := Unflatten(out, symtab2)
	require.NoError(t, err)
	assert.True(t, NodesEquivalent(file, got), "got %s", NodeString(got))
	require.NotNil(t, symtab2.GetSymbol("file"))
	assert.NotNil(t, symtab2.GetSymbol("file").DefineDefinition())
}

func TestFlattenUnflattenSwitchAlgorithm(t *testing.T) {
	symtab := NewSymbolTable()
	header := symtab.Create(OpFileHeader,
		symtab.CreateInt(OpU32Const, CasmBinaryMagic),
		symtab.CreateInt(OpU32Const, CasmBinaryVersion))
	readHdr := symtab.Create(OpReadHeader,
		symtab.CreateInt(OpU32Const, WasmBinaryMagic),
		symtab.CreateInt(OpU32Const, WasmBinaryVersion))
	sw := symtab.Create(OpSwitch,
		symtab.Create(OpVaruint64NoArgs),
		symtab.Create(OpError),
		symtab.Create(OpCase,
			symtab.CreateInt(OpU64Const, 0),
			symtab.Create(OpWrite,
				symtab.Create(OpVaruint64NoArgs),
				symtab.CreateInt(OpU64Const, 10),
				symtab.CreateInt(OpU64Const, 20))),
		symtab.Create(OpCase,
			symtab.CreateInt(OpU64Const, 1),
			symtab.Create(OpVarint64NoArgs)))
	define := symtab.Create(OpDefine,
		symtab.GetPredefined(PredefinedFile),
		symtab.Create(OpNoParams),
		symtab.Create(OpNoLocals),
		symtab.Create(OpLoopUnbounded, sw))
	file := symtab.Create(OpFile, header, readHdr, define)
	require.NoError(t, symtab.Install(file))

	out := stream.NewIntStream()
	require.True(t, NewFlattenAst(stream.NewIntWriteCursor(out), symtab).Flatten())

	require.Len(t, out.Header(), 4, "source and read header pairs")

	symtab2 := NewSymbolTable()
	got, err := Unflatten(out, symtab2)
	require.NoError(t, err)
	assert.True(t, NodesEquivalent(file, got), "got %s", NodeString(got))
}

func TestFlattenUnflattenSection(t *testing.T) {
	symtab := NewSymbolTable()
	name := symtab.GetOrCreateSymbol("memory")
	section := symtab.Create(OpSection, name,
		symtab.Create(OpDefine, name,
			symtab.Create(OpNoParams),
			symtab.Create(OpNoLocals),
			symtab.Create(OpVoid)))
	file := symtab.Create(OpFile, section)
	require.NoError(t, symtab.Install(file))

	out := stream.NewIntStream()
	require.True(t, NewFlattenAst(stream.NewIntWriteCursor(out), symtab).Flatten())

	symtab2 := NewSymbolTable()
	got, err := Unflatten(out, symtab2)
	require.NoError(t, err)
	assert.True(t, NodesEquivalent(file, got), "got %s", NodeString(got))
}

func TestUnflattenTruncatedStream(t *testing.T) {
	s := stream.NewIntStream()
	w := stream.NewIntWriteCursor(s)
	w.Write(0, stream.Varuint64)                          // empty snapshot
	w.Write(stream.IntType(OpU32Const), stream.Varuint64) // literal opcode, then nothing
	w.FreezeEof()

	_, err := Unflatten(s, NewSymbolTable())
	assert.Error(t, err)
}

func TestSectionSymbolTableDenseIndices(t *testing.T) {
	symtab := NewSymbolTable()
	sec := NewSectionSymbolTable(symtab)
	a := sec.AddName("alpha")
	b := sec.AddName("beta")
	idx, ok := sec.SymbolIndex(a)
	require.True(t, ok)
	assert.Equal(t, uint32(0), idx)
	idx, ok = sec.SymbolIndex(b)
	require.True(t, ok)
	assert.Equal(t, uint32(1), idx)
	assert.Same(t, a, sec.Lookup(0))
	sec.Clear()
	assert.Equal(t, 0, sec.Size())
}
