package intcomp

import (
	"fmt"
	"io"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/interp"
	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// IntCompressor compresses an embedded module by abbreviating its most
// frequent integer runs. The collect phase decodes the module into an
// integer stream and counts usage; selection and codegen then fix the
// abbreviation table; the emit phase writes the CASM stream: header pairs,
// the flattened decoder algorithm in one block, and the abbreviated
// payload.
type IntCompressor struct {
	flags  CompressionFlags
	symtab *filt.SymbolTable
	input  *stream.IntStream
	root   *CountNode

	assignments []*CountNode
}

func NewIntCompressor(flags CompressionFlags) *IntCompressor {
	return &IntCompressor{flags: flags, symtab: filt.NewSymbolTable()}
}

// SetSymtab overrides the module-parse algorithm used by the collect phase.
func (c *IntCompressor) SetSymtab(symtab *filt.SymbolTable) { c.symtab = symtab }

// ErrorsFound reports whether the collect phase failed to produce input:
// true iff the input stream is nil or carries errors.
func (c *IntCompressor) ErrorsFound() bool {
	return c.input == nil || !c.input.IsFrozen()
}

// Root exposes the count trie between collect and codegen, for tracing.
func (c *IntCompressor) Root() *CountNode { return c.root }

// Assignments returns the selected abbreviation set in index order.
func (c *IntCompressor) Assignments() []*CountNode { return c.assignments }

// Compress reads a module from src and writes its CASM form to dst.
func (c *IntCompressor) Compress(src io.Reader, dst io.Writer) error {
	inQ := stream.NewQueue()
	input, err := ReadModule(inQ, src, c.symtab)
	if err != nil {
		return fmt.Errorf("intcomp: collect: %w", err)
	}
	c.input = input

	c.root = NewCountRoot()
	CollectUsage(input, c.root, c.flags.LengthLimit)
	c.assignments = AssignAbbreviations(c.root, input, c.flags)
	if log.ModuleEnabled("intcomp") {
		log.Trace("intcomp", "count trie after selection", "trie", c.root.ToTree().String())
	}

	if n := len(c.assignments); n > 0 && !c.flags.AbbrevFormat.Fits(stream.IntType(n-1)) {
		return fmt.Errorf("intcomp: %d abbreviations do not fit format %s", n, c.flags.AbbrevFormat)
	}

	var encodingRoot *HuffmanNode
	if c.flags.UseHuffmanEncoding {
		encodingRoot = BuildHuffmanEncoding(c.assignments)
	}

	codegen := NewAbbreviationCodegen(c.flags, c.root, encodingRoot, c.assignments, true)
	codeSymtab, err := codegen.GenerateCodeSymtab()
	if err != nil {
		return err
	}

	outQ := stream.NewQueue()
	w := interp.NewByteWriter(outQ)
	w.SetMinimizeBlockSize(c.flags.MinimizeBlockSize)
	if err := c.emitPrologue(w, codeSymtab); err != nil {
		return err
	}
	if err := c.emitPayload(w, encodingRoot); err != nil {
		return err
	}
	w.WriteFreezeEof()
	if err := w.Err(); err != nil {
		return err
	}
	_, err = dst.Write(outQ.Bytes())
	return err
}

// emitPrologue writes the CASM header pairs bit-exact, then the flattened
// decoder algorithm inside a single block.
func (c *IntCompressor) emitPrologue(w *interp.ByteWriter, codeSymtab *filt.SymbolTable) error {
	flat := stream.NewIntStream()
	flattener := filt.NewFlattenAst(stream.NewIntWriteCursor(flat), codeSymtab)
	if !flattener.Flatten() {
		return fmt.Errorf("intcomp: flattening decoder algorithm failed")
	}
	for _, pair := range flat.Header() {
		w.WriteHeaderValue(pair.Value, pair.Format)
	}
	w.BeginBlock()
	for _, v := range flat.Values() {
		if v.Kind != stream.KindValue {
			return fmt.Errorf("intcomp: decoder algorithm flattens with %s marker", v.Kind)
		}
		w.WriteValue(v.Value, v.Format)
	}
	w.EndBlock()
	return w.Err()
}

// emitPayload streams the collected integers through the longest-prefix
// matcher. Under a Huffman code the payload lands in a scratch queue first,
// so its exact bit length can prefix the copied bytes.
func (c *IntCompressor) emitPayload(w *interp.ByteWriter, encodingRoot *HuffmanNode) error {
	if encodingRoot == nil {
		sink := &emitSink{root: c.root, writer: w, format: c.flags.AbbrevFormat}
		writer := NewAbbrevAssignWriter(c.root, sink, c.flags.LengthLimit)
		return writer.WriteStream(c.input)
	}

	scratchQ := stream.NewQueue()
	scratch := interp.NewByteWriter(scratchQ)
	sink := &emitSink{
		root:    c.root,
		writer:  scratch,
		format:  c.flags.AbbrevFormat,
		encoder: encodingRoot.CodeTable(),
	}
	writer := NewAbbrevAssignWriter(c.root, sink, c.flags.LengthLimit)
	if err := writer.WriteStream(c.input); err != nil {
		return err
	}
	bits := int64(scratch.Pos().CurByteAddress())*8 + int64(scratch.Pos().BitOffset())
	scratch.AlignToByte()
	w.WriteVaruint64(uint64(bits))
	for _, b := range scratchQ.Bytes() {
		w.WriteUint8(b)
	}
	return w.Err()
}
