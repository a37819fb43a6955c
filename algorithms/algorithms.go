// Package algorithms holds the built-in filter algorithms shipped with the
// compressor. The abbreviation decoder is always generated by intcomp's
// codegen; what lives here are the fixed module-structure algorithms.
package algorithms

import (
	"github.com/seanpm2001/decompressor-prototype/filt"
)

// NewWasmModule returns a symbol table for plain module streams: no
// per-section defines are installed, so every section payload copies
// through the interpreter byte for byte.
func NewWasmModule() *filt.SymbolTable {
	symtab := filt.NewSymbolTable()
	header := symtab.Create(filt.OpFileHeader,
		symtab.CreateInt(filt.OpU32Const, filt.WasmBinaryMagic),
		symtab.CreateInt(filt.OpU32Const, filt.WasmBinaryVersion))
	if err := symtab.Install(symtab.Create(filt.OpFile, header)); err != nil {
		panic(err)
	}
	return symtab
}

// NewFileIdentity returns a symbol table whose file define copies any byte
// stream through unchanged: an unbounded loop of one-octet reads and
// writes.
func NewFileIdentity() *filt.SymbolTable {
	symtab := filt.NewSymbolTable()
	define := symtab.Create(filt.OpDefine,
		symtab.GetPredefined(filt.PredefinedFile),
		symtab.Create(filt.OpNoParams),
		symtab.Create(filt.OpNoLocals),
		symtab.Create(filt.OpLoopUnbounded,
			symtab.Create(filt.OpWrite,
				symtab.Create(filt.OpUint8NoArgs),
				symtab.Create(filt.OpUint8NoArgs))))
	if err := symtab.Install(symtab.Create(filt.OpFile, define)); err != nil {
		panic(err)
	}
	return symtab
}
