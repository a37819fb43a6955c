package filt

import (
	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// FlattenAst serializes an installed filter AST into the CASM integer
// opcode stream. Non-fatal errors accumulate on HasErrors; Flatten drains to
// freeze-eof and returns false when any were seen.
//
// The stream opens with a snapshot of every symbol the algorithm references
// (count, then each name as length plus octets), so Symbol opcodes can be
// written as dense indices; Section nodes snapshot and clear their own
// subordinate table the same way.
type FlattenAst struct {
	writer        *stream.IntWriteCursor
	symtab        *SymbolTable
	sectionSymtab *SectionSymbolTable
	freezeOnDone  bool
	hasErrors     bool
}

func NewFlattenAst(writer *stream.IntWriteCursor, symtab *SymbolTable) *FlattenAst {
	return &FlattenAst{
		writer:        writer,
		symtab:        symtab,
		sectionSymtab: NewSectionSymbolTable(symtab),
		freezeOnDone:  true,
	}
}

func (f *FlattenAst) HasErrors() bool { return f.hasErrors }

// Flatten writes the installed algorithm and freezes the output.
func (f *FlattenAst) Flatten() bool {
	root := f.symtab.InstalledRoot()
	if root == nil {
		f.reportError("no algorithm installed", nil)
	} else {
		f.sectionSymtab.InstallSection(root)
		f.writeSymbolSnapshot()
		f.flattenNode(root)
	}
	f.freezeOutput()
	return !f.hasErrors
}

func (f *FlattenAst) freezeOutput() {
	if !f.freezeOnDone {
		return
	}
	f.freezeOnDone = false
	f.writer.FreezeEof()
}

func (f *FlattenAst) reportError(msg string, nd *Node) {
	if nd != nil {
		log.Error("flatten: "+msg, "sexp", NodeString(nd))
	} else {
		log.Error("flatten: " + msg)
	}
	f.hasErrors = true
}

func (f *FlattenAst) write(v stream.IntType) {
	f.writer.Write(v, stream.Varuint64)
}

func (f *FlattenAst) writeSymbolSnapshot() {
	vector := f.sectionSymtab.Vector()
	f.write(stream.IntType(len(vector)))
	for _, sym := range vector {
		name := sym.Name()
		f.write(stream.IntType(len(name)))
		for i := 0; i < len(name); i++ {
			f.write(stream.IntType(name[i]))
		}
	}
}

func (f *FlattenAst) flattenNode(nd *Node) {
	if f.hasErrors {
		return
	}
	opcode := nd.Type()
	desc := Desc(opcode)
	switch desc.Kind {
	case flattenIllegal:
		f.reportError("unexpected s-expression, can't write!", nd)

	case flattenLiteral:
		f.write(stream.IntType(opcode))
		if nd.IsDefaultValue() {
			f.write(0)
		} else {
			f.write(stream.IntType(nd.Format()) + 1)
			f.write(nd.Value())
		}

	case flattenPostorder:
		for _, kid := range nd.Kids() {
			f.flattenNode(kid)
		}
		f.write(stream.IntType(opcode))

	case flattenPostorderCount:
		for _, kid := range nd.Kids() {
			f.flattenNode(kid)
		}
		f.write(stream.IntType(opcode))
		f.write(stream.IntType(nd.NumKids()))

	case flattenInline:
		// The file is the outermost container; its header appears at the
		// start of the stream and carries no opcode.
		for _, kid := range nd.Kids() {
			f.flattenNode(kid)
		}

	case flattenHeader:
		for _, kid := range nd.Kids() {
			if !kid.IsIntegerNode() {
				f.reportError("unrecognized literal constant", nd)
				return
			}
			if !kid.DefinesIntTypeFormat() {
				f.reportError("bad literal constant", kid)
				return
			}
			f.writer.WriteHeader(kid.Value(), kid.Format())
		}

	case flattenStream:
		f.write(stream.IntType(opcode))
		f.write(nd.Value())

	case flattenSection:
		f.writer.OpenBlock()
		saved := f.sectionSymtab
		f.sectionSymtab = NewSectionSymbolTable(f.symtab)
		f.sectionSymtab.InstallSection(nd)
		f.writeSymbolSnapshot()
		for _, kid := range nd.Kids() {
			f.flattenNode(kid)
		}
		f.writer.Write(stream.IntType(opcode), stream.Uint8)
		f.writer.CloseBlock()
		f.sectionSymtab.Clear()
		f.sectionSymtab = saved

	case flattenSymbol:
		f.write(stream.IntType(opcode))
		idx, ok := f.sectionSymtab.SymbolIndex(nd)
		if !ok {
			f.reportError("symbol not in section symbol table", nd)
			return
		}
		f.write(stream.IntType(idx))
	}
}
