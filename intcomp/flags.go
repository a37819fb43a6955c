package intcomp

import "github.com/seanpm2001/decompressor-prototype/stream"

// CompressionFlags collects the knobs of a compression run.
type CompressionFlags struct {
	// CountCutoff drops trie nodes seen fewer times than this.
	CountCutoff uint64
	// WeightCutoff drops candidates whose weight falls below this.
	WeightCutoff uint64
	// LengthLimit bounds abbreviation paths (and the match window).
	LengthLimit int
	// MaxAssignments caps the number of integer-path abbreviations.
	MaxAssignments int

	// MinimizeBlockSize selects variable-size block prefixes on output.
	MinimizeBlockSize bool
	// UseHuffmanEncoding emits abbreviation indices as a canonical prefix
	// code instead of AbbrevFormat integers.
	UseHuffmanEncoding bool
	// UseCismModel emits the decoder as overrides of the enclosing cism
	// algorithm's opcode/categorize functions.
	UseCismModel bool

	// AbbrevFormat is the wire format of abbreviation indices.
	AbbrevFormat stream.IntTypeFormat
}

// Formats of the non-abbreviated material in the compressed stream.
const (
	defaultFormat  = stream.Varint64
	loopSizeFormat = stream.Varuint64
)

func DefaultFlags() CompressionFlags {
	return CompressionFlags{
		CountCutoff:    5,
		WeightCutoff:   8,
		LengthLimit:    5,
		MaxAssignments: 512,
		AbbrevFormat:   stream.Varuint64,
	}
}
