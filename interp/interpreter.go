package interp

import (
	"fmt"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

const defaultStackSize = 256

// interpMethod is the frame method of the run loop.
type interpMethod int

const (
	methodFinished interpMethod = iota
	methodRead
	methodWrite
)

// interpState is the per-frame resume point.
type interpState int

const (
	stateEnter interpState = iota
	stateExit
)

type frame struct {
	method interpMethod
	state  interpState
	nd     *filt.Node
}

// Interpreter evaluates a filter AST against a read cursor and a write
// cursor. Primitive reads and writes run through an explicit frame stack
// (runMethods), which holds all transient state across suspensions: when the
// input lacks headroom the loop exits and readBackFilled advances the fill
// by one page before re-entering. Structural evaluation (eval) recurses on
// the host stack but only suspends inside read/write frames.
type Interpreter struct {
	reader Reader
	writer Writer
	symtab *filt.SymbolTable

	lastReadValue  stream.IntType
	curSectionName string

	frameStack  []frame
	paramStack  []stream.IntType
	returnStack []stream.IntType
	evalStack   []*filt.Node

	magic   stream.IntType
	version stream.IntType

	err error
}

func New(reader Reader, writer Writer, symtab *filt.SymbolTable) *Interpreter {
	return &Interpreter{
		reader:      reader,
		writer:      writer,
		symtab:      symtab,
		frameStack:  make([]frame, 0, defaultStackSize),
		paramStack:  make([]stream.IntType, 0, defaultStackSize),
		returnStack: make([]stream.IntType, 0, defaultStackSize),
		evalStack:   make([]*filt.Node, 0, defaultStackSize),
	}
}

func (i *Interpreter) Err() error                    { return i.err }
func (i *Interpreter) LastReadValue() stream.IntType { return i.lastReadValue }
func (i *Interpreter) Magic() stream.IntType         { return i.magic }
func (i *Interpreter) Version() stream.IntType       { return i.version }

// fatal aborts the run: the frame stack is cleared and every later step
// observes the terminal state. There is no partial-output rollback.
func (i *Interpreter) fatal(format string, args ...any) {
	if i.err == nil {
		i.err = fmt.Errorf("interp: "+format, args...)
		log.Error("interpreter failed", "err", i.err)
	}
	i.frameStack = i.frameStack[:0]
}

func (i *Interpreter) failed() bool { return i.err != nil }

func (i *Interpreter) call(method interpMethod, nd *filt.Node) {
	i.frameStack = append(i.frameStack, frame{method: method, state: stateEnter, nd: nd})
}

func (i *Interpreter) popFrame() {
	if n := len(i.frameStack); n > 0 {
		i.frameStack = i.frameStack[:n-1]
	}
}

func (i *Interpreter) pushReturn(v stream.IntType) {
	i.returnStack = append(i.returnStack, v)
	i.popFrame()
}

func (i *Interpreter) popArgAndReturnValue(v stream.IntType) {
	i.paramStack = i.paramStack[:len(i.paramStack)-1]
	i.pushReturn(v)
}

// read evaluates nd in read mode through the frame machinery.
func (i *Interpreter) read(nd *filt.Node) stream.IntType {
	if i.failed() {
		return 0
	}
	i.call(methodRead, nd)
	i.readBackFilled()
	if i.failed() || len(i.returnStack) == 0 {
		return 0
	}
	v := i.returnStack[len(i.returnStack)-1]
	i.returnStack = i.returnStack[:len(i.returnStack)-1]
	return v
}

// write pushes v through nd in write mode.
func (i *Interpreter) write(v stream.IntType, nd *filt.Node) stream.IntType {
	if i.failed() {
		return 0
	}
	i.call(methodWrite, nd)
	i.paramStack = append(i.paramStack, v)
	i.readBackFilled()
	if i.failed() || len(i.returnStack) == 0 {
		return 0
	}
	r := i.returnStack[len(i.returnStack)-1]
	i.returnStack = i.returnStack[:len(i.returnStack)-1]
	return r
}

// readBackFilled drives runMethods, advancing the input fill whenever the
// reader reports insufficient headroom.
func (i *Interpreter) readBackFilled() {
	for len(i.frameStack) > 0 && !i.failed() {
		for !i.reader.HasEnoughHeadroom() {
			if err := i.reader.FillMoreInput(); err != nil {
				i.fatal("input fill: %v", err)
				return
			}
		}
		i.runMethods()
	}
}

// fillHeadroom is the suspension point used by driver loops outside the
// frame machinery.
func (i *Interpreter) fillHeadroom() {
	for !i.reader.HasEnoughHeadroom() && !i.failed() {
		if err := i.reader.FillMoreInput(); err != nil {
			i.fatal("input fill: %v", err)
		}
	}
}

// runMethods is the single top-level dispatch loop. It only proceeds while
// the reader has enough headroom for a bounded burst of primitives.
func (i *Interpreter) runMethods() {
	for len(i.frameStack) > 0 && i.reader.HasEnoughHeadroom() && !i.failed() {
		f := &i.frameStack[len(i.frameStack)-1]
		switch f.method {
		case methodRead:
			i.stepRead(f)
		case methodWrite:
			i.stepWrite(f)
		default:
			i.fatal("unrecoverable method state in runMethods")
		}
	}
}

func (i *Interpreter) stepRead(f *frame) {
	nd := f.nd
	switch nd.Type() {
	case filt.OpI32Const, filt.OpI64Const, filt.OpU8Const, filt.OpU32Const, filt.OpU64Const:
		i.pushReturn(nd.Value())

	case filt.OpLastRead:
		i.pushReturn(i.lastReadValue)

	case filt.OpParam:
		i.popFrame()
		target := i.getParam(nd)
		if i.failed() {
			return
		}
		v := i.read(target)
		i.returnStack = append(i.returnStack, v)

	case filt.OpPeek:
		i.popFrame()
		i.reader.PushPeekPos()
		v := i.read(nd.GetKid(0))
		i.reader.PopPeekPos()
		i.lastReadValue = v
		i.returnStack = append(i.returnStack, v)

	case filt.OpUint8NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadUint8()))
	case filt.OpUint8OneArg:
		i.pushReadValue(i.reader.ReadBits(uint32(nd.Value())))
	case filt.OpUint32NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadUint32()))
	case filt.OpUint32OneArg:
		i.pushReadValue(i.reader.ReadBits(uint32(nd.Value())))
	case filt.OpUint64NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadUint64()))
	case filt.OpUint64OneArg:
		i.pushReadValue(i.reader.ReadBits(uint32(nd.Value())))
	case filt.OpVarint32NoArgs:
		i.pushReadValue(stream.IntType(int64(i.reader.ReadVarint32())))
	case filt.OpVarint64NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadVarint64()))
	case filt.OpVarint32OneArg, filt.OpVarint64OneArg:
		i.pushReadValue(i.readVarintChunked(uint32(nd.Value())))
	case filt.OpVaruint32NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadVaruint32()))
	case filt.OpVaruint64NoArgs:
		i.pushReadValue(stream.IntType(i.reader.ReadVaruint64()))
	case filt.OpVaruint32OneArg, filt.OpVaruint64OneArg:
		i.pushReadValue(i.readVaruintChunked(uint32(nd.Value())))

	case filt.OpMap:
		i.popFrame()
		v := i.evalMap(nd)
		i.returnStack = append(i.returnStack, v)

	case filt.OpOpcode:
		i.popFrame()
		v := i.readOpcode(nd, 0, 0)
		i.returnStack = append(i.returnStack, v)

	case filt.OpBinaryEval:
		i.popFrame()
		v := i.readBinary(nd)
		i.lastReadValue = v
		i.returnStack = append(i.returnStack, v)

	case filt.OpRead:
		i.popFrame()
		v := i.read(nd.GetKid(0))
		i.returnStack = append(i.returnStack, v)

	case filt.OpVoid:
		i.pushReturn(0)

	default:
		i.fatal("read not implemented: %s", nd.Type())
	}
}

func (i *Interpreter) pushReadValue(v stream.IntType) {
	i.lastReadValue = v
	i.pushReturn(v)
}

func (i *Interpreter) stepWrite(f *frame) {
	nd := f.nd
	v := i.paramStack[len(i.paramStack)-1]
	switch nd.Type() {
	case filt.OpParam:
		switch f.state {
		case stateEnter:
			target := i.getParam(nd)
			if i.failed() {
				return
			}
			f.state = stateExit
			i.call(methodWrite, target)
		case stateExit:
			i.popFrame()
		}

	case filt.OpUint8NoArgs:
		i.writer.WriteUint8(uint8(v))
		i.popArgAndReturnValue(v)
	case filt.OpUint8OneArg:
		i.writer.WriteBits(v, uint32(nd.Value()))
		i.popArgAndReturnValue(v)
	case filt.OpUint32NoArgs:
		i.writer.WriteUint32(uint32(v))
		i.popArgAndReturnValue(v)
	case filt.OpUint32OneArg:
		i.writer.WriteBits(v, uint32(nd.Value()))
		i.popArgAndReturnValue(v)
	case filt.OpUint64NoArgs:
		i.writer.WriteUint64(uint64(v))
		i.popArgAndReturnValue(v)
	case filt.OpUint64OneArg:
		i.writer.WriteBits(v, uint32(nd.Value()))
		i.popArgAndReturnValue(v)
	case filt.OpVarint32NoArgs:
		i.writer.WriteVarint32(int32(int64(v)))
		i.popArgAndReturnValue(v)
	case filt.OpVarint64NoArgs:
		i.writer.WriteVarint64(int64(v))
		i.popArgAndReturnValue(v)
	case filt.OpVarint32OneArg, filt.OpVarint64OneArg:
		i.writeVarintChunked(v, uint32(nd.Value()))
		i.popArgAndReturnValue(v)
	case filt.OpVaruint32NoArgs:
		i.writer.WriteVaruint32(uint32(v))
		i.popArgAndReturnValue(v)
	case filt.OpVaruint64NoArgs:
		i.writer.WriteVaruint64(uint64(v))
		i.popArgAndReturnValue(v)
	case filt.OpVaruint32OneArg, filt.OpVaruint64OneArg:
		i.writeVaruintChunked(v, uint32(nd.Value()))
		i.popArgAndReturnValue(v)

	case filt.OpBinaryEval:
		i.writeBinary(nd, v)
		i.popArgAndReturnValue(v)

	case filt.OpOpcode:
		i.popFrame()
		i.paramStack = i.paramStack[:len(i.paramStack)-1]
		i.writeOpcode(nd, v)
		i.returnStack = append(i.returnStack, v)

	case filt.OpI32Const, filt.OpI64Const, filt.OpU8Const, filt.OpU32Const, filt.OpU64Const,
		filt.OpMap, filt.OpPeek, filt.OpVoid, filt.OpLastRead:
		// Identity writes: the value flows through unemitted.
		i.popArgAndReturnValue(v)

	default:
		i.fatal("write not implemented: %s", nd.Type())
	}
}

// getParam resolves a Param reference against the nearest enclosing Eval
// whose called symbol matches the param's defining symbol.
func (i *Interpreter) getParam(p *filt.Node) *filt.Node {
	if len(i.evalStack) == 0 {
		i.fatal("not inside a call frame, can't evaluate parameter accessor")
		return nil
	}
	paramIndex := int(p.Value()) + 1
	definingSym := p.DefiningSymbol()
	for j := len(i.evalStack) - 1; j >= 0; j-- {
		caller := i.evalStack[j]
		if caller.GetKid(0) != definingSym {
			continue
		}
		if paramIndex < caller.NumKids() {
			return caller.GetKid(paramIndex)
		}
	}
	i.fatal("can't evaluate parameter reference %s", filt.NodeString(p))
	return nil
}

// eval walks a filter AST node, reading and writing as its tag directs.
func (i *Interpreter) eval(nd *filt.Node) stream.IntType {
	if i.failed() || nd == nil {
		return 0
	}
	var ret stream.IntType
	switch nd.Type() {
	case filt.NoSuchNodeType, filt.OpConvert, filt.OpFilter, filt.OpSymbol:
		i.fatal("unable to evaluate filter s-expression: %s", nd.Type())

	case filt.OpFile, filt.OpSection, filt.OpUndefine, filt.OpRename, filt.OpUnknownSection,
		filt.OpFileHeader, filt.OpReadHeader, filt.OpWriteHeader, filt.OpEnclosingAlgorithms:
		i.fatal("evaluating not allowed: %s", nd.Type())

	case filt.OpParam:
		ret = i.eval(i.getParam(nd))

	case filt.OpDefine:
		ret = i.eval(nd.GetKid(nd.NumKids() - 1))

	case filt.OpMap:
		ret = i.evalMap(nd)

	case filt.OpOpcode:
		ret = i.write(i.read(nd), nd)

	case filt.OpLastRead:
		ret = i.read(nd)

	case filt.OpSwitch:
		sel := i.eval(nd.GetKid(0))
		if c := nd.SwitchCase(sel); c != nil {
			i.eval(c)
		} else {
			i.eval(nd.GetKid(1))
		}

	case filt.OpCase:
		i.eval(nd.GetKid(1))

	case filt.OpBlock:
		i.decompressBlock(nd.GetKid(0))

	case filt.OpAnd:
		if i.eval(nd.GetKid(0)) != 0 && i.eval(nd.GetKid(1)) != 0 {
			ret = 1
		}
	case filt.OpOr:
		if i.eval(nd.GetKid(0)) != 0 || i.eval(nd.GetKid(1)) != 0 {
			ret = 1
		}
	case filt.OpNot:
		if i.eval(nd.GetKid(0)) == 0 {
			ret = 1
		}
	case filt.OpBitwiseAnd:
		ret = i.eval(nd.GetKid(0)) & i.eval(nd.GetKid(1))
	case filt.OpBitwiseOr:
		ret = i.eval(nd.GetKid(0)) | i.eval(nd.GetKid(1))
	case filt.OpBitwiseXor:
		ret = i.eval(nd.GetKid(0)) ^ i.eval(nd.GetKid(1))
	case filt.OpBitwiseNegate:
		ret = ^i.eval(nd.GetKid(0))

	case filt.OpLastSymbolIs:
		if sym := nd.GetKid(0); sym != nil && sym.Name() == i.curSectionName {
			ret = 1
		}

	case filt.OpStream:
		ret = i.evalStream(nd)

	case filt.OpError:
		i.fatal("error found during evaluation")

	case filt.OpEval:
		ret = i.evalCall(nd)

	case filt.OpIfThen:
		if i.eval(nd.GetKid(0)) != 0 {
			i.eval(nd.GetKid(1))
		}
	case filt.OpIfThenElse:
		if i.eval(nd.GetKid(0)) != 0 {
			i.eval(nd.GetKid(1))
		} else {
			i.eval(nd.GetKid(2))
		}

	case filt.OpI32Const, filt.OpI64Const, filt.OpU8Const, filt.OpU32Const, filt.OpU64Const:
		ret = i.read(nd)

	case filt.OpLoop:
		count := i.eval(nd.GetKid(0))
		for n := stream.IntType(0); n < count && !i.failed(); n++ {
			i.eval(nd.GetKid(1))
		}

	case filt.OpLoopUnbounded:
		for {
			i.fillHeadroom()
			if i.reader.AtBlockEob() || i.failed() {
				break
			}
			i.eval(nd.GetKid(0))
		}

	case filt.OpWrite:
		for _, kid := range nd.Kids()[1:] {
			ret = i.write(i.read(kid), nd.GetKid(0))
		}

	case filt.OpPeek:
		ret = i.read(nd)

	case filt.OpRead:
		ret = i.read(nd.GetKid(0))

	case filt.OpBinaryEval:
		ret = i.write(i.read(nd), nd)

	case filt.OpSequence:
		for _, kid := range nd.Kids() {
			i.eval(kid)
		}

	case filt.OpCallback:
		i.evalCallback(nd)

	case filt.OpLiteralDef:
		// Definition only; nothing to do at eval.

	case filt.OpLiteralUse:
		i.evalCallbackSymbol(nd)

	case filt.OpNoParams, filt.OpNoLocals, filt.OpParamValues:
		// Declarations carry no behavior.

	case filt.OpUint8NoArgs, filt.OpUint8OneArg,
		filt.OpUint32NoArgs, filt.OpUint32OneArg,
		filt.OpUint64NoArgs, filt.OpUint64OneArg,
		filt.OpVarint32NoArgs, filt.OpVarint32OneArg,
		filt.OpVarint64NoArgs, filt.OpVarint64OneArg,
		filt.OpVaruint32NoArgs, filt.OpVaruint32OneArg,
		filt.OpVaruint64NoArgs, filt.OpVaruint64OneArg:
		ret = i.write(i.read(nd), nd)

	case filt.OpVoid:
		// Nothing read, nothing written.

	default:
		i.fatal("eval not implemented: %s", nd.Type())
	}
	return ret
}

// evalCall applies Eval(sym, args...): the argument count must match the
// define's parameter declaration, and the Eval node rides the evaluation
// stack for Param resolution.
func (i *Interpreter) evalCall(nd *filt.Node) stream.IntType {
	sym := nd.GetKid(0)
	if sym == nil || sym.Type() != filt.OpSymbol {
		i.fatal("eval call without symbol")
		return 0
	}
	defn := sym.DefineDefinition()
	if defn == nil || defn.Type() != filt.OpDefine {
		i.fatal("eval of undefined symbol %q", sym.Name())
		return 0
	}
	var numParams stream.IntType
	if params := defn.GetKid(1); params != nil && params.Type() == filt.OpParamValues {
		numParams = params.Value()
	}
	numArgs := stream.IntType(nd.NumKids() - 1)
	if numParams != numArgs {
		i.fatal("definition %q expects %d parameters, found %d", sym.Name(), numParams, numArgs)
		return 0
	}
	i.evalStack = append(i.evalStack, nd)
	ret := i.eval(defn)
	i.evalStack = i.evalStack[:len(i.evalStack)-1]
	return ret
}

func (i *Interpreter) evalMap(nd *filt.Node) stream.IntType {
	key := i.eval(nd.GetKid(0))
	c := nd.MapCase(key)
	if c == nil {
		i.fatal("map has no case for %d", key)
		return 0
	}
	return i.eval(c.GetKid(1))
}

func (i *Interpreter) evalCallback(nd *filt.Node) {
	i.evalCallbackSymbol(nd.GetKid(0))
}

func (i *Interpreter) evalCallbackSymbol(nd *filt.Node) {
	sym := nd
	if sym != nil && sym.Type() == filt.OpLiteralUse {
		sym = sym.GetKid(0)
	}
	if sym == nil || sym.Type() != filt.OpSymbol {
		i.fatal("callback without symbol action")
		return
	}
	if !i.writer.WriteAction(sym) {
		i.fatal("callback action %q not understood by writer", sym.Name())
	}
}

// evalStream checks the stream kind/type encoding against the attached
// cursors, with explicit input and output branches.
func (i *Interpreter) evalStream(nd *filt.Node) stream.IntType {
	kind, st := filt.DecodeStreamEncoding(nd.Value())
	var actual stream.StreamType
	switch kind {
	case filt.StreamInput:
		actual = i.reader.StreamType()
	case filt.StreamOutput:
		actual = i.writer.StreamType()
	default:
		i.fatal("stream check with unknown kind")
		return 0
	}
	if actual == st {
		return 1
	}
	return 0
}

// readOpcodeSelector reads one selector level, returning its bit width.
func (i *Interpreter) readOpcodeSelector(nd *filt.Node) (stream.IntType, uint32) {
	switch nd.Type() {
	case filt.OpUint8NoArgs:
		return i.read(nd), 8
	case filt.OpUint32NoArgs:
		return i.read(nd), 32
	case filt.OpUint64NoArgs:
		return i.read(nd), 64
	case filt.OpUint8OneArg, filt.OpUint32OneArg, filt.OpUint64OneArg:
		return i.read(nd), uint32(nd.Value())
	case filt.OpEval:
		sym := nd.GetKid(0)
		if sym != nil && sym.Type() == filt.OpSymbol && sym.DefineDefinition() != nil {
			return i.readOpcodeSelector(sym.DefineDefinition().GetKid(sym.DefineDefinition().NumKids() - 1))
		}
		i.fatal("can't evaluate opcode selector symbol")
		return 0, 0
	default:
		return i.read(nd), 0
	}
}

// readOpcode reads a (possibly nested) opcode selection: nested values
// accumulate as value = prefix<<width | raw.
func (i *Interpreter) readOpcode(nd *filt.Node, prefix stream.IntType, numOpcodes uint32) stream.IntType {
	if nd.Type() != filt.OpOpcode {
		i.fatal("illegal opcode selector: %s", nd.Type())
		return 0
	}
	value, width := i.readOpcodeSelector(nd.GetKid(0))
	if numOpcodes > 0 {
		if width < 1 || width >= 64 {
			i.fatal("opcode selector has illegal bitsize %d", width)
			return 0
		}
		value |= prefix << width
	}
	i.lastReadValue = value
	if c := nd.OpcodeCase(value); c != nil {
		body := c.GetKid(1)
		if body != nil && body.Type() == filt.OpOpcode {
			return i.readOpcode(body, value, numOpcodes+1)
		}
		i.lastReadValue = i.eval(c)
	}
	return i.lastReadValue
}

// selectorStaticWidth is the bit width a selector consumes, used to route
// the high-order bits of a written opcode to the outer selector.
func (i *Interpreter) selectorStaticWidth(nd *filt.Node) uint32 {
	switch nd.Type() {
	case filt.OpUint8NoArgs:
		return 8
	case filt.OpUint32NoArgs:
		return 32
	case filt.OpUint64NoArgs:
		return 64
	case filt.OpUint8OneArg, filt.OpUint32OneArg, filt.OpUint64OneArg:
		return uint32(nd.Value())
	}
	return 0
}

// writeOpcode inverts readOpcode: the case mask keeps the low-order bits for
// the inner case body while the rest shifts out to the outer selector.
func (i *Interpreter) writeOpcode(nd *filt.Node, value stream.IntType) {
	for _, kid := range nd.Kids()[1:] {
		if kid.Type() != filt.OpCase {
			continue
		}
		body := kid.GetKid(1)
		var shift uint32
		if body != nil && body.Type() == filt.OpOpcode {
			shift = i.selectorStaticWidth(body.GetKid(0))
		}
		if value>>shift != kid.GetKid(0).Value() {
			continue
		}
		i.write(value>>shift, nd.GetKid(0))
		if shift > 0 {
			mask := stream.IntType(1)<<shift - 1
			i.write(value&mask, body)
		}
		return
	}
	i.write(value, nd.GetKid(0))
}

// readBinary decodes one Huffman symbol: one bit per level, 0 selecting the
// first kid, until a BinaryAccept leaf supplies the value.
func (i *Interpreter) readBinary(nd *filt.Node) stream.IntType {
	n := nd.GetKid(0)
	for n != nil && n.Type() == filt.OpBinarySelect {
		b := i.reader.ReadBits(1)
		n = n.GetKid(int(b & 1))
	}
	if n == nil || n.Type() != filt.OpBinaryAccept {
		i.fatal("binary selector without accept leaf")
		return 0
	}
	return n.Value()
}

// writeBinary emits the code path of value through the selector tree.
func (i *Interpreter) writeBinary(nd *filt.Node, value stream.IntType) {
	bits, n, ok := filt.BinaryCodePath(nd.GetKid(0), value)
	if !ok {
		i.fatal("no binary code path for %d", value)
		return
	}
	i.writer.WriteBits(bits, n)
}

func (i *Interpreter) readVaruintChunked(chunkBits uint32) stream.IntType {
	var v stream.IntType
	var shift uint32
	for {
		chunk := i.reader.ReadBits(chunkBits + 1)
		v |= (chunk & (1<<chunkBits - 1)) << shift
		if chunk>>chunkBits == 0 {
			return v
		}
		shift += chunkBits
		if shift >= 64 {
			return v
		}
	}
}

func (i *Interpreter) writeVaruintChunked(v stream.IntType, chunkBits uint32) {
	mask := stream.IntType(1)<<chunkBits - 1
	for {
		chunk := v & mask
		v >>= chunkBits
		if v == 0 {
			i.writer.WriteBits(chunk, chunkBits+1)
			return
		}
		i.writer.WriteBits(chunk|(mask+1), chunkBits+1)
	}
}

func (i *Interpreter) readVarintChunked(chunkBits uint32) stream.IntType {
	return i.readVaruintChunked(chunkBits)
}

func (i *Interpreter) writeVarintChunked(v stream.IntType, chunkBits uint32) {
	i.writeVaruintChunked(v, chunkBits)
}
