package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpm2001/decompressor-prototype/filt"
	"github.com/seanpm2001/decompressor-prototype/interp"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

func TestFileIdentityCopiesBytes(t *testing.T) {
	payload := []byte{1, 2, 3, 0xfe, 0xff}
	outQ := stream.NewQueue()
	i := interp.New(
		interp.NewByteReader(stream.NewFrozenQueue(payload), nil),
		interp.NewByteWriter(outQ),
		NewFileIdentity())
	require.NoError(t, i.RunFile())
	assert.Equal(t, payload, outQ.Bytes())
}

func TestWasmModuleHasNoSectionDefines(t *testing.T) {
	symtab := NewWasmModule()
	require.NotNil(t, symtab.InstalledRoot())
	assert.Nil(t, symtab.GetPredefined(filt.PredefinedFile).DefineDefinition())
	assert.Nil(t, symtab.GetSymbol("code"))
}
