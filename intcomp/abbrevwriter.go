package intcomp

import (
	"errors"
	"fmt"

	"github.com/seanpm2001/decompressor-prototype/interp"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

var errAbbrevIndexMissing = errors.New("intcomp: selected node without abbreviation index")

// abbrevSink receives the match decisions of an AbbrevAssignWriter. The
// counting sink runs during selection to size the default nodes; the emit
// sink writes the compressed payload.
type abbrevSink interface {
	emitAbbrev(nd *CountNode) error
	emitDefaultSingle(v stream.IntType) error
	emitDefaultRun(vs []stream.IntType) error
	freeze() error
}

// AbbrevAssignWriter streams values through a windowed longest-prefix
// matcher, substituting abbreviation indices for matched runs and buffering
// unmatched values as a pending default run.
type AbbrevAssignWriter struct {
	root    *CountNode
	sink    abbrevSink
	maxLen  int
	buffer  []stream.IntType
	pending []stream.IntType
	err     error
}

func NewAbbrevAssignWriter(root *CountNode, sink abbrevSink, maxAbbrevLength int) *AbbrevAssignWriter {
	return &AbbrevAssignWriter{
		root:   root,
		sink:   sink,
		maxLen: maxAbbrevLength,
		buffer: make([]stream.IntType, 0, maxAbbrevLength),
	}
}

func (w *AbbrevAssignWriter) Err() error { return w.err }

func (w *AbbrevAssignWriter) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// WriteValue buffers one value; a full buffer forces a match.
func (w *AbbrevAssignWriter) WriteValue(v stream.IntType) {
	if w.err != nil {
		return
	}
	w.buffer = append(w.buffer, v)
	if len(w.buffer) == w.maxLen {
		w.writeFromBuffer()
	}
}

// writeFromBuffer performs the longest-prefix match: descend the trie along
// the buffer, remembering the deepest node carrying an abbreviation. No
// match emits the front value as a default; a match flushes pending
// defaults and emits the abbreviation index.
func (w *AbbrevAssignWriter) writeFromBuffer() {
	if len(w.buffer) == 0 {
		return
	}
	var nd, max *CountNode
	for _, v := range w.buffer {
		if nd == nil {
			nd = w.root.Kid(v)
		} else {
			nd = nd.Kid(v)
		}
		if nd == nil {
			break
		}
		if nd.selected {
			max = nd
		}
	}
	if max == nil {
		w.pending = append(w.pending, w.buffer[0])
		w.popValuesFromBuffer(1)
		return
	}
	w.forwardAbbrev(max)
	w.popValuesFromBuffer(max.PathLength())
}

func (w *AbbrevAssignWriter) writeUntilBufferEmpty() {
	for len(w.buffer) > 0 && w.err == nil {
		w.writeFromBuffer()
	}
}

func (w *AbbrevAssignWriter) popValuesFromBuffer(n int) {
	if n > len(w.buffer) {
		n = len(w.buffer)
	}
	w.buffer = append(w.buffer[:0], w.buffer[n:]...)
}

// forwardAbbrev flushes any pending default run, then hands the matched
// node to the sink.
func (w *AbbrevAssignWriter) forwardAbbrev(nd *CountNode) {
	w.flushDefaultValues()
	w.fail(w.sink.emitAbbrev(nd))
}

func (w *AbbrevAssignWriter) flushDefaultValues() {
	if len(w.pending) == 0 || w.err != nil {
		return
	}
	if len(w.pending) == 1 {
		w.fail(w.sink.emitDefaultSingle(w.pending[0]))
	} else {
		w.fail(w.sink.emitDefaultRun(w.pending))
	}
	w.pending = w.pending[:0]
}

// WriteBlockEnter, WriteBlockExit and WriteAlign drain the window at block and
// align events and emit the corresponding synthetic abbreviation.
func (w *AbbrevAssignWriter) WriteBlockEnter() { w.writeEvent(w.root.BlockEnter()) }
func (w *AbbrevAssignWriter) WriteBlockExit()  { w.writeEvent(w.root.BlockExit()) }
func (w *AbbrevAssignWriter) WriteAlign()      { w.writeEvent(w.root.Align()) }

func (w *AbbrevAssignWriter) writeEvent(nd *CountNode) {
	if w.err != nil {
		return
	}
	w.writeUntilBufferEmpty()
	w.flushDefaultValues()
	w.forwardAbbrev(nd)
}

// WriteFreezeEof drains everything and freezes downstream.
func (w *AbbrevAssignWriter) WriteFreezeEof() {
	if w.err != nil {
		return
	}
	w.writeUntilBufferEmpty()
	w.flushDefaultValues()
	w.fail(w.sink.freeze())
}

// WriteStream feeds a frozen integer stream through the matcher.
func (w *AbbrevAssignWriter) WriteStream(s *stream.IntStream) error {
	for _, v := range s.Values() {
		switch v.Kind {
		case stream.KindValue:
			w.WriteValue(v.Value)
		case stream.KindBlockEnter:
			w.WriteBlockEnter()
		case stream.KindBlockExit:
			w.WriteBlockExit()
		case stream.KindAlign:
			w.WriteAlign()
		}
		if w.err != nil {
			return w.err
		}
	}
	w.WriteFreezeEof()
	return w.err
}

// countingSink sizes the default nodes and records per-abbreviation usage
// before indices exist.
type countingSink struct {
	root *CountNode
}

func (s *countingSink) emitAbbrev(nd *CountNode) error {
	nd.uses++
	return nil
}

func (s *countingSink) emitDefaultSingle(v stream.IntType) error {
	s.root.DefaultSingle().uses++
	return nil
}

func (s *countingSink) emitDefaultRun(vs []stream.IntType) error {
	s.root.DefaultMultiple().uses++
	return nil
}

func (s *countingSink) freeze() error { return nil }

// huffCode is one assigned prefix code, MSB-first.
type huffCode struct {
	bits stream.IntType
	n    uint32
}

// emitSink writes the compressed payload through a byte writer, as
// AbbrevFormat integers or Huffman codes.
type emitSink struct {
	root    *CountNode
	writer  *interp.ByteWriter
	format  stream.IntTypeFormat
	encoder map[int]huffCode
}

func (s *emitSink) writeAbbrevIndex(nd *CountNode) error {
	if !nd.HasAbbrevIndex() {
		return fmt.Errorf("%w: %s", errAbbrevIndexMissing, nd.describe())
	}
	if s.encoder != nil {
		code, ok := s.encoder[nd.AbbrevIndex()]
		if !ok {
			return fmt.Errorf("intcomp: no huffman code for abbreviation %d", nd.AbbrevIndex())
		}
		s.writer.WriteBits(code.bits, code.n)
		return nil
	}
	writeByFormat(s.writer, stream.IntType(nd.AbbrevIndex()), s.format)
	return nil
}

func (s *emitSink) emitAbbrev(nd *CountNode) error { return s.writeAbbrevIndex(nd) }

func (s *emitSink) emitDefaultSingle(v stream.IntType) error {
	if err := s.writeAbbrevIndex(s.root.DefaultSingle()); err != nil {
		return err
	}
	writeByFormat(s.writer, v, defaultFormat)
	return s.writer.Err()
}

func (s *emitSink) emitDefaultRun(vs []stream.IntType) error {
	if err := s.writeAbbrevIndex(s.root.DefaultMultiple()); err != nil {
		return err
	}
	writeByFormat(s.writer, stream.IntType(len(vs)), loopSizeFormat)
	for _, v := range vs {
		writeByFormat(s.writer, v, defaultFormat)
	}
	return s.writer.Err()
}

func (s *emitSink) freeze() error {
	// The enclosing compressor owns the byte stream; padding and freezing
	// happen there so the Huffman bit count can be recorded first.
	return s.writer.Err()
}

func writeByFormat(w *interp.ByteWriter, v stream.IntType, f stream.IntTypeFormat) {
	w.WriteValue(v, f)
}
