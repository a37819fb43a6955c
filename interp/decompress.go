package interp

import (
	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// DecompressModule drives the interpreter over an embedded module: magic and
// version are verified and mirrored, then sections stream through the
// installed per-section filters until input EOF, and the output freezes.
func (i *Interpreter) DecompressModule() error {
	i.lastReadValue = 0
	i.fillHeadroom()
	magic, ok := i.reader.ReadHeaderValue(stream.Uint32)
	if !ok || magic != filt.WasmBinaryMagic {
		i.fatal("unable to decompress, did not find binary magic number (got %#x)", magic)
		return i.err
	}
	i.magic = magic
	i.writer.WriteHeaderValue(magic, stream.Uint32)

	version, ok := i.reader.ReadHeaderValue(stream.Uint32)
	if !ok || version != filt.WasmBinaryVersion {
		i.fatal("unable to decompress, binary version %#x not known", version)
		return i.err
	}
	i.version = version
	i.writer.WriteHeaderValue(version, stream.Uint32)

	i.fillHeadroom()
	for !i.reader.AtEof() && !i.failed() {
		i.decompressSection()
		i.fillHeadroom()
	}
	if i.failed() {
		return i.err
	}
	i.writer.WriteFreezeEof()
	if err := i.reader.Err(); err != nil {
		return err
	}
	return i.writer.Err()
}

// decompressSection mirrors the section name, then runs the named symbol's
// define over the section block (or copies it through when none is
// installed). Both cursors finish octet-aligned.
func (i *Interpreter) decompressSection() {
	i.lastReadValue = 0
	i.readSectionName()
	if i.failed() {
		return
	}
	log.Trace("interp", "decompress section", "name", i.curSectionName)
	var code *filt.Node
	if sym := i.symtab.GetSymbol(i.curSectionName); sym != nil {
		code = sym.DefineDefinition()
	}
	i.decompressBlock(code)
	i.reader.AlignToByte()
	i.writer.AlignToByte()
}

func (i *Interpreter) readSectionName() {
	nameSize := i.reader.ReadVaruint32()
	i.writer.WriteVaruint32(nameSize)
	name := make([]byte, 0, nameSize)
	for n := uint32(0); n < nameSize; n++ {
		b := i.reader.ReadUint8()
		i.writer.WriteUint8(b)
		name = append(name, b)
	}
	if err := i.reader.Err(); err != nil {
		i.fatal("truncated section name: %v", err)
		return
	}
	i.curSectionName = string(name)
}

// decompressBlock brackets the evaluation of code with the block size
// machinery on both cursors. A nil code copies the block payload through
// byte for byte.
func (i *Interpreter) decompressBlock(code *filt.Node) {
	if !i.reader.EnterBlock() {
		i.fatal("truncated block size")
		return
	}
	i.writer.BeginBlock()
	i.evalOrCopy(code)
	i.writer.EndBlock()
	i.reader.ExitBlock()
}

func (i *Interpreter) evalOrCopy(nd *filt.Node) {
	if nd != nil {
		i.eval(nd)
		return
	}
	// Octet-aligned tail of section: copy through.
	for {
		i.fillHeadroom()
		if i.reader.AtBlockEob() || i.failed() {
			break
		}
		i.writer.WriteUint8(i.reader.ReadUint8())
		if err := i.reader.Err(); err != nil {
			i.fatal("section copy: %v", err)
		}
	}
}

// RunFile evaluates the installed `file` define against the attached
// streams until input EOB, then freezes the output. It is the driver for
// self-describing streams whose structure lives entirely in the algorithm.
func (i *Interpreter) RunFile() error {
	sym := i.symtab.GetPredefined(filt.PredefinedFile)
	defn := sym.DefineDefinition()
	if defn == nil {
		i.fatal("no file definition installed")
		return i.err
	}
	i.eval(defn)
	if i.failed() {
		return i.err
	}
	i.writer.WriteFreezeEof()
	if err := i.reader.Err(); err != nil {
		return err
	}
	return i.writer.Err()
}
