// Package filt defines the filter AST: the closed set of typed nodes a
// filter program is built from, the symbol tables anchoring installed
// algorithms, and the flattener that serializes an AST to a CASM integer
// stream (and its inverse).
package filt

import (
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// NodeType tags a filter AST node. The numeric value is the wire opcode
// written by the flattener, so the table below is a frozen format: new tags
// append, existing tags never renumber.
type NodeType int

const (
	NoSuchNodeType NodeType = 0

	// Integer literals.
	OpI32Const NodeType = 1
	OpI64Const NodeType = 2
	OpU8Const  NodeType = 3
	OpU32Const NodeType = 4
	OpU64Const NodeType = 5

	// Primitive read/write typed nodes. OneArg flavors carry a bit count.
	OpUint8NoArgs     NodeType = 6
	OpUint8OneArg     NodeType = 7
	OpUint32NoArgs    NodeType = 8
	OpUint32OneArg    NodeType = 9
	OpUint64NoArgs    NodeType = 10
	OpUint64OneArg    NodeType = 11
	OpVarint32NoArgs  NodeType = 12
	OpVarint32OneArg  NodeType = 13
	OpVarint64NoArgs  NodeType = 14
	OpVarint64OneArg  NodeType = 15
	OpVaruint32NoArgs NodeType = 16
	OpVaruint32OneArg NodeType = 17
	OpVaruint64NoArgs NodeType = 18
	OpVaruint64OneArg NodeType = 19

	// Control flow.
	OpBlock         NodeType = 20
	OpLoop          NodeType = 21
	OpLoopUnbounded NodeType = 22
	OpIfThen        NodeType = 23
	OpIfThenElse    NodeType = 24
	OpSwitch        NodeType = 25
	OpCase          NodeType = 26
	OpSequence      NodeType = 27
	OpEval          NodeType = 28
	OpDefine        NodeType = 29
	OpParam         NodeType = 30
	OpMap           NodeType = 31
	OpOpcode        NodeType = 32

	// Boolean, arithmetic and bit operations.
	OpAnd           NodeType = 33
	OpOr            NodeType = 34
	OpNot           NodeType = 35
	OpBitwiseAnd    NodeType = 36
	OpBitwiseOr     NodeType = 37
	OpBitwiseXor    NodeType = 38
	OpBitwiseNegate NodeType = 39
	OpLastSymbolIs  NodeType = 40

	// Structural.
	OpFile                NodeType = 41
	OpFileHeader          NodeType = 42
	OpReadHeader          NodeType = 43
	OpWriteHeader         NodeType = 44
	OpEnclosingAlgorithms NodeType = 45
	OpStream              NodeType = 46
	OpSection             NodeType = 47
	OpSymbol              NodeType = 48
	OpCallback            NodeType = 49
	OpRename              NodeType = 50
	OpUndefine            NodeType = 51
	OpLiteralDef          NodeType = 52
	OpLiteralUse          NodeType = 53
	OpError               NodeType = 54
	OpVoid                NodeType = 55
	OpPeek                NodeType = 56
	OpRead                NodeType = 57
	OpWrite               NodeType = 58
	OpLastRead            NodeType = 59
	OpConvert             NodeType = 60
	OpFilter              NodeType = 61
	OpUnknownSection      NodeType = 62

	// Parameter and local declarations.
	OpNoParams    NodeType = 63
	OpParamValues NodeType = 64
	OpNoLocals    NodeType = 65

	// Huffman prefix code selectors.
	OpBinaryEval   NodeType = 66
	OpBinarySelect NodeType = 67
	OpBinaryAccept NodeType = 68

	NumNodeTypes = 69
)

// flattenKind selects the write-as-opcode rule applied by the flattener.
type flattenKind int

const (
	flattenIllegal flattenKind = iota
	flattenLiteral
	flattenPostorder      // fixed arity: kids first, then opcode
	flattenPostorderCount // variable arity: kids, opcode, kid count
	flattenInline         // File: kids only, no enclosing opcode
	flattenHeader         // integer literal kids emitted as raw header pairs
	flattenStream         // opcode plus encoding tag
	flattenSection        // block-bracketed with a symbol table snapshot
	flattenSymbol         // opcode plus dense section-symbol index
)

// NodeDesc is one row of the closed opcode table. NumKids < 0 marks variable
// arity. Integer-carrying tags set HasValue and the wire format of their
// payload.
type NodeDesc struct {
	Name     string
	NumKids  int
	Kind     flattenKind
	HasValue bool
	Format   stream.IntTypeFormat
}

var nodeTable = [NumNodeTypes]NodeDesc{
	NoSuchNodeType: {Name: "NO_SUCH_NODETYPE", Kind: flattenIllegal},

	OpI32Const: {Name: "i32.const", Kind: flattenLiteral, HasValue: true, Format: stream.Varint32},
	OpI64Const: {Name: "i64.const", Kind: flattenLiteral, HasValue: true, Format: stream.Varint64},
	OpU8Const:  {Name: "u8.const", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpU32Const: {Name: "u32.const", Kind: flattenLiteral, HasValue: true, Format: stream.Uint32},
	OpU64Const: {Name: "u64.const", Kind: flattenLiteral, HasValue: true, Format: stream.Uint64},

	OpUint8NoArgs:     {Name: "uint8", Kind: flattenPostorder},
	OpUint8OneArg:     {Name: "uint8.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpUint32NoArgs:    {Name: "uint32", Kind: flattenPostorder},
	OpUint32OneArg:    {Name: "uint32.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpUint64NoArgs:    {Name: "uint64", Kind: flattenPostorder},
	OpUint64OneArg:    {Name: "uint64.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpVarint32NoArgs:  {Name: "varint32", Kind: flattenPostorder},
	OpVarint32OneArg:  {Name: "varint32.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpVarint64NoArgs:  {Name: "varint64", Kind: flattenPostorder},
	OpVarint64OneArg:  {Name: "varint64.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpVaruint32NoArgs: {Name: "varuint32", Kind: flattenPostorder},
	OpVaruint32OneArg: {Name: "varuint32.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},
	OpVaruint64NoArgs: {Name: "varuint64", Kind: flattenPostorder},
	OpVaruint64OneArg: {Name: "varuint64.bits", Kind: flattenLiteral, HasValue: true, Format: stream.Uint8},

	OpBlock:         {Name: "block", NumKids: 1, Kind: flattenPostorder},
	OpLoop:          {Name: "loop", NumKids: 2, Kind: flattenPostorder},
	OpLoopUnbounded: {Name: "loop.unbounded", NumKids: 1, Kind: flattenPostorder},
	OpIfThen:        {Name: "if", NumKids: 2, Kind: flattenPostorder},
	OpIfThenElse:    {Name: "if.else", NumKids: 3, Kind: flattenPostorder},
	OpSwitch:        {Name: "switch", NumKids: -1, Kind: flattenPostorderCount},
	OpCase:          {Name: "case", NumKids: 2, Kind: flattenPostorder},
	OpSequence:      {Name: "seq", NumKids: -1, Kind: flattenPostorderCount},
	OpEval:          {Name: "eval", NumKids: -1, Kind: flattenPostorderCount},
	OpDefine:        {Name: "define", NumKids: -1, Kind: flattenPostorderCount},
	OpParam:         {Name: "param", Kind: flattenLiteral, HasValue: true, Format: stream.Varuint32},
	OpMap:           {Name: "map", NumKids: -1, Kind: flattenPostorderCount},
	OpOpcode:        {Name: "opcode", NumKids: -1, Kind: flattenPostorderCount},

	OpAnd:           {Name: "and", NumKids: 2, Kind: flattenPostorder},
	OpOr:            {Name: "or", NumKids: 2, Kind: flattenPostorder},
	OpNot:           {Name: "not", NumKids: 1, Kind: flattenPostorder},
	OpBitwiseAnd:    {Name: "bitwise.and", NumKids: 2, Kind: flattenPostorder},
	OpBitwiseOr:     {Name: "bitwise.or", NumKids: 2, Kind: flattenPostorder},
	OpBitwiseXor:    {Name: "bitwise.xor", NumKids: 2, Kind: flattenPostorder},
	OpBitwiseNegate: {Name: "bitwise.negate", NumKids: 1, Kind: flattenPostorder},
	OpLastSymbolIs:  {Name: "last.symbol.is", NumKids: 1, Kind: flattenPostorder},

	OpFile:                {Name: "file", NumKids: -1, Kind: flattenInline},
	OpFileHeader:          {Name: "header", NumKids: -1, Kind: flattenHeader},
	OpReadHeader:          {Name: "header.read", NumKids: -1, Kind: flattenHeader},
	OpWriteHeader:         {Name: "header.write", NumKids: -1, Kind: flattenHeader},
	OpEnclosingAlgorithms: {Name: "enclosing.algorithms", NumKids: -1, Kind: flattenPostorderCount},
	OpStream:              {Name: "stream", Kind: flattenStream, HasValue: true, Format: stream.Varuint32},
	OpSection:             {Name: "section", NumKids: -1, Kind: flattenSection},
	OpSymbol:              {Name: "symbol", Kind: flattenSymbol},
	OpCallback:            {Name: "callback", NumKids: 1, Kind: flattenPostorder},
	OpRename:              {Name: "rename", NumKids: 2, Kind: flattenPostorder},
	OpUndefine:            {Name: "undefine", NumKids: 1, Kind: flattenPostorder},
	OpLiteralDef:          {Name: "literal", NumKids: 2, Kind: flattenPostorder},
	OpLiteralUse:          {Name: "literal.use", NumKids: 1, Kind: flattenPostorder},
	OpError:               {Name: "error", Kind: flattenPostorder},
	OpVoid:                {Name: "void", Kind: flattenPostorder},
	OpPeek:                {Name: "peek", NumKids: 1, Kind: flattenPostorder},
	OpRead:                {Name: "read", NumKids: 1, Kind: flattenPostorder},
	OpWrite:               {Name: "write", NumKids: -1, Kind: flattenPostorderCount},
	OpLastRead:            {Name: "read.last", Kind: flattenPostorder},
	OpConvert:             {Name: "convert", NumKids: 2, Kind: flattenPostorder},
	OpFilter:              {Name: "filter", NumKids: -1, Kind: flattenPostorderCount},
	OpUnknownSection:      {Name: "unknown.section", Kind: flattenIllegal},

	OpNoParams:    {Name: "params.none", Kind: flattenPostorder},
	OpParamValues: {Name: "params.values", Kind: flattenLiteral, HasValue: true, Format: stream.Varuint32},
	OpNoLocals:    {Name: "locals.none", Kind: flattenPostorder},

	OpBinaryEval:   {Name: "binary.eval", NumKids: 1, Kind: flattenPostorder},
	OpBinarySelect: {Name: "binary.select", NumKids: 2, Kind: flattenPostorder},
	OpBinaryAccept: {Name: "binary.accept", Kind: flattenLiteral, HasValue: true, Format: stream.Varuint64},
}

// Desc returns the table row for t, or the NoSuchNodeType row when t is out
// of range.
func Desc(t NodeType) *NodeDesc {
	if t <= 0 || int(t) >= NumNodeTypes {
		return &nodeTable[NoSuchNodeType]
	}
	return &nodeTable[t]
}

func (t NodeType) String() string { return Desc(t).Name }
