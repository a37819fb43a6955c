package intcomp

import (
	"fmt"
	"io"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/interp"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// ReadModule drives the interpreter over module bytes in collect mode:
// magic and version land in the integer stream's header, section names ride
// as a length value plus one value per octet, and each payload becomes a
// block of byte values. The symbol table's per-section defines apply; with
// none installed every payload copies through.
func ReadModule(q *stream.Queue, src io.Reader, symtab *filt.SymbolTable) (*stream.IntStream, error) {
	s := stream.NewIntStream()
	ip := interp.New(interp.NewByteReader(q, src), interp.NewIntWriter(s), symtab)
	if err := ip.DecompressModule(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteModule is the exact inverse of ReadModule: the interpreter replays a
// decoded integer stream through an IntReader, re-deriving every byte
// encoding from the module structure (magic and version from the header
// pairs, name lengths as varuint32, names and payloads as octets, block
// size prefixes fixed or minimized per the writer's configuration).
func WriteModule(s *stream.IntStream, w *interp.ByteWriter) error {
	if !s.IsFrozen() {
		return fmt.Errorf("intcomp: decoded stream read back before freeze")
	}
	ip := interp.New(interp.NewIntReader(s), w, filt.NewSymbolTable())
	if err := ip.DecompressModule(); err != nil {
		return fmt.Errorf("intcomp: rewriting module: %w", err)
	}
	return w.Err()
}
