package intcomp

import (
	"fmt"
	"io"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/interp"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// Decompressor inverts the CASM transformation: the stream's prologue is
// unflattened back into the decoder algorithm, the interpreter applies it
// to the abbreviated payload, and the decoded integer stream is rewritten
// as module bytes.
type Decompressor struct {
	flags CompressionFlags
}

func NewDecompressor(flags CompressionFlags) *Decompressor {
	return &Decompressor{flags: flags}
}

// Decompress reads a CASM stream from src and writes the restored module to
// dst.
func (d *Decompressor) Decompress(src io.Reader, dst io.Writer) error {
	q := stream.NewQueue()
	r := interp.NewByteReader(q, src)
	for !r.HasEnoughHeadroom() {
		if err := r.FillMoreInput(); err != nil {
			return err
		}
	}

	pairs, err := readCasmHeader(r)
	if err != nil {
		return err
	}
	moduleMagic := pairs[len(pairs)-2].Value
	moduleVersion := pairs[len(pairs)-1].Value

	symtab, err := readPrologue(r, pairs)
	if err != nil {
		return err
	}

	// A decoder carrying a Huffman selector bounds its payload by a bit
	// count rather than the frozen end, since the last code can end
	// mid-octet.
	huffman := containsBinaryEval(symtab.InstalledRoot())
	if huffman {
		bits := r.ReadVaruint64()
		if err := r.Err(); err != nil {
			return err
		}
		r.Pos().PushEobBits(int64(bits))
	}

	decoded := stream.NewIntStream()
	iw := interp.NewIntWriter(decoded)
	iw.WriteHeaderValue(moduleMagic, stream.Uint32)
	iw.WriteHeaderValue(moduleVersion, stream.Uint32)
	ip := interp.New(r, iw, symtab)
	if err := ip.RunFile(); err != nil {
		return err
	}
	if huffman {
		r.Pos().PopEobAddress()
	}

	outQ := stream.NewQueue()
	w := interp.NewByteWriter(outQ)
	w.SetMinimizeBlockSize(d.flags.MinimizeBlockSize)
	if err := WriteModule(decoded, w); err != nil {
		return err
	}
	_, err = dst.Write(outQ.Bytes())
	return err
}

// readCasmHeader consumes the bit-exact header pairs: the CASM magic and
// version, then any read/write module header pairs that follow. The module
// pairs are recognized by peeking for a known magic word.
func readCasmHeader(r *interp.ByteReader) ([]stream.HeaderValue, error) {
	magic, ok := r.ReadHeaderValue(stream.Uint32)
	if !ok || magic != filt.CasmBinaryMagic {
		return nil, fmt.Errorf("intcomp: not a CASM stream (magic %#x)", magic)
	}
	version, ok := r.ReadHeaderValue(stream.Uint32)
	if !ok || version != filt.CasmBinaryVersion {
		return nil, fmt.Errorf("intcomp: unknown CASM version %#x", version)
	}
	pairs := []stream.HeaderValue{
		{Value: magic, Format: stream.Uint32},
		{Value: version, Format: stream.Uint32},
	}
	for {
		r.PushPeekPos()
		next, ok := r.ReadHeaderValue(stream.Uint32)
		r.PopPeekPos()
		if !ok || !isModuleMagic(next) {
			break
		}
		m, _ := r.ReadHeaderValue(stream.Uint32)
		v, ok := r.ReadHeaderValue(stream.Uint32)
		if !ok {
			return nil, fmt.Errorf("intcomp: truncated module header pair")
		}
		pairs = append(pairs,
			stream.HeaderValue{Value: m, Format: stream.Uint32},
			stream.HeaderValue{Value: v, Format: stream.Uint32})
	}
	if len(pairs) < 4 {
		return nil, fmt.Errorf("intcomp: CASM stream carries no module header")
	}
	return pairs, nil
}

func isModuleMagic(v stream.IntType) bool {
	switch v {
	case filt.WasmBinaryMagic, filt.CismBinaryMagic:
		return true
	}
	return false
}

// readPrologue reads the length-prefixed flattened algorithm and
// reconstructs the decoder's symbol table. Flattened prologues carry no
// Section nodes, so every element is a varuint64.
func readPrologue(r *interp.ByteReader, pairs []stream.HeaderValue) (*filt.SymbolTable, error) {
	if !r.EnterBlock() {
		return nil, fmt.Errorf("intcomp: truncated prologue block size")
	}
	flat := stream.NewIntStream()
	fw := stream.NewIntWriteCursor(flat)
	for _, pair := range pairs {
		fw.WriteHeader(pair.Value, pair.Format)
	}
	for !r.AtBlockEob() {
		fw.Write(stream.IntType(r.ReadVaruint64()), stream.Varuint64)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("intcomp: truncated prologue: %w", err)
		}
	}
	r.ExitBlock()
	fw.FreezeEof()

	symtab := filt.NewSymbolTable()
	if _, err := filt.Unflatten(flat, symtab); err != nil {
		return nil, err
	}
	return symtab, nil
}

func containsBinaryEval(nd *filt.Node) bool {
	if nd == nil {
		return false
	}
	if nd.Type() == filt.OpBinaryEval {
		return true
	}
	for _, kid := range nd.Kids() {
		if containsBinaryEval(kid) {
			return true
		}
	}
	return false
}
