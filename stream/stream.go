// Package stream provides the byte, bit, and integer stream buffers used by
// the CASM compressor, together with the read/write cursors that walk them.
package stream

import "fmt"

// IntType is the value domain of the compressor. All integers on the wire,
// whatever their encoded width, widen to IntType once read.
type IntType uint64

// StreamType describes the granularity of a stream.
type StreamType int

const (
	Byte StreamType = iota
	Bit
	Int
	Ast
)

func (t StreamType) String() string {
	switch t {
	case Byte:
		return "byte"
	case Bit:
		return "bit"
	case Int:
		return "int"
	case Ast:
		return "ast"
	}
	return fmt.Sprintf("StreamType(%d)", int(t))
}

// IntTypeFormat governs how an IntType is encoded on a byte stream. Format
// selects width and encoding, not value semantics.
type IntTypeFormat int

const (
	Uint8 IntTypeFormat = iota
	Uint32
	Uint64
	Varint32
	Varint64
	Varuint32
	Varuint64

	NumIntTypeFormats = int(Varuint64) + 1
)

var intTypeFormatNames = [NumIntTypeFormats]string{
	"uint8", "uint32", "uint64", "varint32", "varint64", "varuint32", "varuint64",
}

func (f IntTypeFormat) String() string {
	if f < 0 || int(f) >= NumIntTypeFormats {
		return fmt.Sprintf("IntTypeFormat(%d)", int(f))
	}
	return intTypeFormatNames[f]
}

// ParseIntTypeFormat maps a format name, as used by the --abbrev-format
// flag, back to its IntTypeFormat.
func ParseIntTypeFormat(name string) (IntTypeFormat, error) {
	for i, n := range intTypeFormatNames {
		if n == name {
			return IntTypeFormat(i), nil
		}
	}
	return Uint8, fmt.Errorf("unknown int type format %q", name)
}

// IsFixedWidth reports whether the format encodes at a fixed byte width.
func (f IntTypeFormat) IsFixedWidth() bool {
	switch f {
	case Uint8, Uint32, Uint64:
		return true
	}
	return false
}

// Fits reports whether v is representable in format f.
func (f IntTypeFormat) Fits(v IntType) bool {
	switch f {
	case Uint8:
		return v <= 0xff
	case Uint32, Varuint32:
		return v <= 0xffffffff
	case Varint32:
		sv := int64(v)
		return sv >= -(1<<31) && sv < (1<<31)
	}
	return true
}

// ZeroValue returns the zero element of the format, used by the
// default-value predicate of integer literal nodes.
func (f IntTypeFormat) ZeroValue() IntType { return 0 }
