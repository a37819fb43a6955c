package filt

import (
	"fmt"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

// InflateAst reads a flattened opcode stream back into an equivalent AST,
// using the opcode table as dispatch. Symbols are resolved by name through
// the target symbol table, so round-tripped trees match up to symbol-table
// equivalence.
type InflateAst struct {
	reader        *stream.IntReadCursor
	symtab        *SymbolTable
	sectionSymtab *SectionSymbolTable
	stack         []*Node
	sections      []sectionMark
}

type sectionMark struct {
	depth  int
	symtab *SectionSymbolTable
}

func NewInflateAst(reader *stream.IntReadCursor, symtab *SymbolTable) *InflateAst {
	return &InflateAst{reader: reader, symtab: symtab}
}

// Unflatten reconstructs the AST carried by s and installs it on symtab.
func Unflatten(s *stream.IntStream, symtab *SymbolTable) (*Node, error) {
	inflator := NewInflateAst(stream.NewIntReadCursor(s), symtab)
	return inflator.Inflate()
}

func (f *InflateAst) Inflate() (*Node, error) {
	f.sectionSymtab = NewSectionSymbolTable(f.symtab)
	if err := f.readSymbolSnapshot(); err != nil {
		return nil, err
	}
	for !f.reader.AtEof() {
		if f.reader.OpenBlock() {
			f.sections = append(f.sections, sectionMark{depth: len(f.stack), symtab: f.sectionSymtab})
			f.sectionSymtab = NewSectionSymbolTable(f.symtab)
			if err := f.readSymbolSnapshot(); err != nil {
				return nil, err
			}
			continue
		}
		if f.reader.CloseBlock() {
			if n := len(f.sections); n > 0 {
				f.sectionSymtab = f.sections[n-1].symtab
				f.sections = f.sections[:n-1]
			}
			continue
		}
		if err := f.readNode(); err != nil {
			return nil, err
		}
	}
	file := f.buildFile()
	if err := f.symtab.Install(file); err != nil {
		return nil, err
	}
	return file, nil
}

func (f *InflateAst) read() (stream.IntType, error) {
	v := f.reader.Read()
	if f.reader.EofSeen() {
		return 0, fmt.Errorf("filt: flattened stream truncated")
	}
	return v, nil
}

func (f *InflateAst) readSymbolSnapshot() error {
	count, err := f.read()
	if err != nil {
		return err
	}
	for i := stream.IntType(0); i < count; i++ {
		size, err := f.read()
		if err != nil {
			return err
		}
		name := make([]byte, 0, size)
		for j := stream.IntType(0); j < size; j++ {
			ch, err := f.read()
			if err != nil {
				return err
			}
			name = append(name, byte(ch))
		}
		f.sectionSymtab.AddName(string(name))
	}
	return nil
}

func (f *InflateAst) popKids(n int) ([]*Node, error) {
	if n > len(f.stack) {
		return nil, fmt.Errorf("filt: flattened stream malformed: want %d kids, have %d", n, len(f.stack))
	}
	kids := append([]*Node(nil), f.stack[len(f.stack)-n:]...)
	f.stack = f.stack[:len(f.stack)-n]
	return kids, nil
}

func (f *InflateAst) readNode() error {
	op, err := f.read()
	if err != nil {
		return err
	}
	opcode := NodeType(op)
	desc := Desc(opcode)
	switch desc.Kind {
	case flattenLiteral:
		sel, err := f.read()
		if err != nil {
			return err
		}
		var value stream.IntType
		if sel != 0 {
			if stream.IntTypeFormat(sel-1) != desc.Format {
				return fmt.Errorf("filt: literal %s carries format %d, want %s",
					desc.Name, sel-1, desc.Format)
			}
			if value, err = f.read(); err != nil {
				return err
			}
		}
		f.stack = append(f.stack, f.symtab.CreateInt(opcode, value))

	case flattenPostorder:
		kids, err := f.popKids(desc.NumKids)
		if err != nil {
			return err
		}
		f.stack = append(f.stack, f.symtab.Create(opcode, kids...))

	case flattenPostorderCount:
		count, err := f.read()
		if err != nil {
			return err
		}
		kids, err := f.popKids(int(count))
		if err != nil {
			return err
		}
		f.stack = append(f.stack, f.symtab.Create(opcode, kids...))

	case flattenStream:
		enc, err := f.read()
		if err != nil {
			return err
		}
		f.stack = append(f.stack, f.symtab.CreateInt(OpStream, enc))

	case flattenSymbol:
		idx, err := f.read()
		if err != nil {
			return err
		}
		sym := f.sectionSymtab.Lookup(uint32(idx))
		if sym == nil {
			return fmt.Errorf("filt: symbol index %d outside section symbol table", idx)
		}
		f.stack = append(f.stack, sym)

	case flattenSection:
		if len(f.sections) == 0 {
			return fmt.Errorf("filt: section close without open block")
		}
		mark := f.sections[len(f.sections)-1]
		kids, err := f.popKids(len(f.stack) - mark.depth)
		if err != nil {
			return err
		}
		f.stack = append(f.stack, f.symtab.Create(OpSection, kids...))

	default:
		return fmt.Errorf("filt: unexpected opcode %d in flattened stream", op)
	}
	return nil
}

// buildFile wraps the remaining node stack in a File, prefixing the header
// nodes reconstructed from the stream's out-of-band header pairs: the first
// two pairs form the source header, a further two the read header, and two
// more the write header.
func (f *InflateAst) buildFile() *Node {
	var kids []*Node
	pairs := f.reader
	headerKinds := []NodeType{OpFileHeader, OpReadHeader, OpWriteHeader}
	for _, kind := range headerKinds {
		hdr := f.symtab.Create(kind)
		for i := 0; i < 2; i++ {
			for _, format := range []stream.IntTypeFormat{stream.Uint32, stream.Uint64, stream.Uint8} {
				if v, ok := pairs.ReadHeader(format); ok {
					hdr.Append(f.symtab.CreateInt(constForFormat(format), v))
					break
				}
			}
		}
		if hdr.NumKids() > 0 {
			kids = append(kids, hdr)
		}
	}
	kids = append(kids, f.stack...)
	f.stack = nil
	return f.symtab.Create(OpFile, kids...)
}

func constForFormat(f stream.IntTypeFormat) NodeType {
	switch f {
	case stream.Uint8:
		return OpU8Const
	case stream.Uint64:
		return OpU64Const
	default:
		return OpU32Const
	}
}
