package intcomp

import (
	"fmt"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// CISM categorize tags for the synthetic abbreviations.
const (
	cismDefaultSingleValue   = 16767
	cismDefaultMultipleValue = 16764
	cismBlockEnterValue      = 16768
	cismBlockExitValue       = 16769
	cismAlignValue           = 16770
)

const (
	categorizeName = "categorize"
	opcodeName     = "opcode"
	oldSuffix      = ".old"
	cismName       = "cism"
)

// AbbreviationCodegen produces the filter algorithm that decodes (or, on
// the write side, re-encodes) an abbreviation stream against the assigned
// table.
type AbbreviationCodegen struct {
	flags        CompressionFlags
	root         *CountNode
	encodingRoot *HuffmanNode
	assignments  []*CountNode
	toRead       bool
	symtab       *filt.SymbolTable
}

func NewAbbreviationCodegen(flags CompressionFlags, root *CountNode,
	encodingRoot *HuffmanNode, assignments []*CountNode, toRead bool) *AbbreviationCodegen {
	return &AbbreviationCodegen{
		flags:        flags,
		root:         root,
		encodingRoot: encodingRoot,
		assignments:  assignments,
		toRead:       toRead,
	}
}

// GenerateCodeSymtab builds a fresh symbol table holding the decoder
// algorithm and installs it.
func (g *AbbreviationCodegen) GenerateCodeSymtab() (*filt.SymbolTable, error) {
	g.symtab = filt.NewSymbolTable()
	alg := g.symtab.Create(filt.OpFile)
	alg.Append(g.generateHeader(filt.OpFileHeader, filt.CasmBinaryMagic, filt.CasmBinaryVersion))
	if g.flags.UseCismModel {
		if g.toRead {
			alg.Append(g.generateHeader(filt.OpReadHeader, filt.CismBinaryMagic, filt.CismBinaryVersion))
			alg.Append(g.generateHeader(filt.OpWriteHeader, filt.WasmBinaryMagic, filt.WasmBinaryVersion))
		} else {
			alg.Append(g.generateHeader(filt.OpReadHeader, filt.WasmBinaryMagic, filt.WasmBinaryVersion))
			alg.Append(g.generateHeader(filt.OpWriteHeader, filt.CismBinaryMagic, filt.CismBinaryVersion))
		}
	} else {
		alg.Append(g.generateHeader(filt.OpReadHeader, filt.WasmBinaryMagic, filt.WasmBinaryVersion))
	}
	if err := g.generateFunctions(alg); err != nil {
		return nil, err
	}
	if err := g.symtab.Install(alg); err != nil {
		return nil, err
	}
	return g.symtab, nil
}

func (g *AbbreviationCodegen) generateHeader(kind filt.NodeType, magic, version stream.IntType) *filt.Node {
	return g.symtab.Create(kind,
		g.symtab.CreateInt(filt.OpU32Const, magic),
		g.symtab.CreateInt(filt.OpU32Const, version))
}

func (g *AbbreviationCodegen) generateFunctions(alg *filt.Node) error {
	if g.flags.UseCismModel {
		alg.Append(g.generateEnclosingAlg(cismName))
		alg.Append(g.generateRename(categorizeName))
		alg.Append(g.generateRename(opcodeName))
		alg.Append(g.generateOpcodeFunction())
		cat, err := g.generateCategorizeFunction()
		if err != nil {
			return err
		}
		alg.Append(cat)
	}
	alg.Append(g.generateStartFunction())
	return nil
}

func (g *AbbreviationCodegen) generateEnclosingAlg(name string) *filt.Node {
	return g.symtab.Create(filt.OpEnclosingAlgorithms, g.symtab.GetOrCreateSymbol(name))
}

func (g *AbbreviationCodegen) generateRename(name string) *filt.Node {
	return g.symtab.Create(filt.OpRename,
		g.symtab.GetOrCreateSymbol(name),
		g.symtab.GetOrCreateSymbol(name+oldSuffix))
}

func (g *AbbreviationCodegen) generateOpcodeFunction() *filt.Node {
	return g.symtab.Create(filt.OpDefine,
		g.symtab.GetOrCreateSymbol(opcodeName),
		g.symtab.Create(filt.OpNoParams),
		g.symtab.Create(filt.OpNoLocals),
		g.generateAbbreviationRead())
}

// generateCategorizeFunction maps each synthetic abbreviation index to its
// fixed CISM tag.
func (g *AbbreviationCodegen) generateCategorizeFunction() (*filt.Node, error) {
	mapNd := g.symtab.Create(filt.OpMap, g.symtab.CreateInt(filt.OpParam, 0))
	for _, nd := range g.assignments {
		if !nd.HasAbbrevIndex() {
			return nil, fmt.Errorf("intcomp: assignment %s without abbreviation index", nd.describe())
		}
		var tag stream.IntType
		switch nd.Kind() {
		case KindDefaultSingle:
			tag = cismDefaultSingleValue
		case KindDefaultMultiple:
			tag = cismDefaultMultipleValue
		case KindBlockEnter:
			tag = cismBlockEnterValue
		case KindBlockExit:
			tag = cismBlockExitValue
		case KindAlign:
			tag = cismAlignValue
		default:
			continue
		}
		mapNd.Append(g.symtab.Create(filt.OpCase,
			g.symtab.CreateInt(filt.OpU64Const, stream.IntType(nd.AbbrevIndex())),
			g.symtab.CreateInt(filt.OpU32Const, tag)))
	}
	return g.symtab.Create(filt.OpDefine,
		g.symtab.GetOrCreateSymbol(categorizeName),
		g.symtab.CreateInt(filt.OpParamValues, 1),
		g.symtab.Create(filt.OpNoLocals),
		mapNd), nil
}

func (g *AbbreviationCodegen) generateStartFunction() *filt.Node {
	return g.symtab.Create(filt.OpDefine,
		g.symtab.GetPredefined(filt.PredefinedFile),
		g.symtab.Create(filt.OpNoParams),
		g.symtab.Create(filt.OpNoLocals),
		g.symtab.Create(filt.OpLoopUnbounded, g.generateSwitchStatement()))
}

func (g *AbbreviationCodegen) generateSwitchStatement() *filt.Node {
	sw := g.symtab.Create(filt.OpSwitch, g.generateAbbreviationRead(), g.symtab.Create(filt.OpError))
	for _, nd := range g.assignments {
		sw.Append(g.symtab.Create(filt.OpCase,
			g.symtab.CreateInt(filt.OpU64Const, stream.IntType(nd.AbbrevIndex())),
			g.generateAction(nd)))
	}
	return sw
}

// generateAbbreviationRead produces the selector that pulls one
// abbreviation index off the stream: the Huffman selector tree when a
// prefix code is in force, the plain abbreviation format otherwise.
func (g *AbbreviationCodegen) generateAbbreviationRead() *filt.Node {
	var format *filt.Node
	if g.encodingRoot != nil {
		format = g.symtab.Create(filt.OpBinaryEval, g.generateHuffmanEncoding(g.encodingRoot))
	} else {
		format = g.generateAbbrevFormat(g.flags.AbbrevFormat)
	}
	if g.toRead {
		format = g.symtab.Create(filt.OpRead, format)
	}
	return format
}

func (g *AbbreviationCodegen) generateHuffmanEncoding(nd *HuffmanNode) *filt.Node {
	if nd.IsLeaf() {
		return g.symtab.CreateInt(filt.OpBinaryAccept, stream.IntType(nd.Symbol().AbbrevIndex()))
	}
	return g.symtab.Create(filt.OpBinarySelect,
		g.generateHuffmanEncoding(nd.Kid(0)),
		g.generateHuffmanEncoding(nd.Kid(1)))
}

func (g *AbbreviationCodegen) generateAction(nd *CountNode) *filt.Node {
	switch nd.Kind() {
	case KindInt:
		return g.generateIntLitAction(nd)
	case KindBlockEnter, KindBlockExit:
		return g.generateBlockAction(nd)
	case KindDefaultSingle:
		return g.generateDefaultSingleAction()
	case KindDefaultMultiple:
		return g.generateDefaultMultipleAction()
	case KindAlign:
		return g.generateUseAction(g.symtab.GetPredefined(filt.PredefinedAlign))
	}
	return g.symtab.Create(filt.OpError)
}

func (g *AbbreviationCodegen) generateUseAction(sym *filt.Node) *filt.Node {
	return g.symtab.Create(filt.OpCallback, g.symtab.Create(filt.OpLiteralUse, sym))
}

func (g *AbbreviationCodegen) generateBlockAction(nd *CountNode) *filt.Node {
	var sym filt.PredefinedSymbol
	if nd.Kind() == KindBlockEnter {
		sym = filt.PredefinedBlockEnter
		if !g.toRead {
			sym = filt.PredefinedBlockEnterWriteonly
		}
	} else {
		sym = filt.PredefinedBlockExit
		if !g.toRead {
			sym = filt.PredefinedBlockExitWriteonly
		}
	}
	return g.generateUseAction(g.symtab.GetPredefined(sym))
}

func (g *AbbreviationCodegen) generateDefaultSingleAction() *filt.Node {
	return g.symtab.Create(filt.OpVarint64NoArgs)
}

func (g *AbbreviationCodegen) generateDefaultMultipleAction() *filt.Node {
	loopSize := g.symtab.Create(filt.OpVaruint64NoArgs)
	if g.toRead {
		loopSize = g.symtab.Create(filt.OpRead, loopSize)
	}
	return g.symtab.Create(filt.OpLoop, loopSize, g.generateDefaultSingleAction())
}

// generateIntLitAction emits the matched path's literals in order on read.
func (g *AbbreviationCodegen) generateIntLitAction(nd *CountNode) *filt.Node {
	if !g.toRead {
		return g.symtab.Create(filt.OpVoid)
	}
	w := g.symtab.Create(filt.OpWrite, g.symtab.Create(filt.OpVaruint64NoArgs))
	for _, v := range nd.Path() {
		w.Append(g.symtab.CreateInt(filt.OpU64Const, v))
	}
	return w
}

func (g *AbbreviationCodegen) generateAbbrevFormat(f stream.IntTypeFormat) *filt.Node {
	switch f {
	case stream.Uint8:
		return g.symtab.Create(filt.OpUint8NoArgs)
	case stream.Uint32:
		return g.symtab.Create(filt.OpUint32NoArgs)
	case stream.Uint64:
		return g.symtab.Create(filt.OpUint64NoArgs)
	case stream.Varint32:
		return g.symtab.Create(filt.OpVarint32NoArgs)
	case stream.Varint64:
		return g.symtab.Create(filt.OpVarint64NoArgs)
	case stream.Varuint32:
		return g.symtab.Create(filt.OpVaruint32NoArgs)
	default:
		return g.symtab.Create(filt.OpVaruint64NoArgs)
	}
}
