package filt

import "github.com/seanpm2001/decompressor-prototype/stream"

// StreamKind distinguishes the input and output side of a Stream check.
type StreamKind int

const (
	StreamInput StreamKind = iota
	StreamOutput
)

// EncodeStreamEncoding packs a stream check into the integer payload of an
// OpStream node.
func EncodeStreamEncoding(kind StreamKind, st stream.StreamType) stream.IntType {
	return stream.IntType(kind)<<2 | stream.IntType(st)
}

// DecodeStreamEncoding unpacks an OpStream payload.
func DecodeStreamEncoding(v stream.IntType) (StreamKind, stream.StreamType) {
	return StreamKind(v >> 2), stream.StreamType(v & 3)
}

// BinaryCodePath returns the bit path (MSB-first) from the selector root to
// the BinaryAccept leaf carrying value.
func BinaryCodePath(nd *Node, value stream.IntType) (bits stream.IntType, n uint32, ok bool) {
	if nd == nil {
		return 0, 0, false
	}
	if nd.Type() == OpBinaryAccept {
		if nd.Value() == value {
			return 0, 0, true
		}
		return 0, 0, false
	}
	if nd.Type() != OpBinarySelect {
		return 0, 0, false
	}
	for kid := 0; kid < 2; kid++ {
		if sub, subN, found := BinaryCodePath(nd.GetKid(kid), value); found {
			return stream.IntType(kid)<<subN | sub, subN + 1, true
		}
	}
	return 0, 0, false
}
