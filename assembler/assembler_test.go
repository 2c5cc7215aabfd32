package assembler_test

import (
	"testing"

	"github.com/averlieren/bregvm/assembler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_ForwardLabelResolves(t *testing.T) {
	img, err := assembler.Assemble("#LFH 0x100\nARG LATER\nHLT\nLATER HLT\n")
	require.NoError(t, err)

	assert.Equal(t, uint32(0x100), img.LoadAddress)
	require.Len(t, img.Words, 3)
	assert.Equal(t, uint32(0x102), img.Words[0]&0x00FFFFFF, "ARG word should carry LATER's resolved address")
}

func TestAssemble_DefaultsLoadAddressToZeroWithoutLFH(t *testing.T) {
	img, err := assembler.Assemble("HLT\n")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), img.LoadAddress)
}

func TestAssemble_MovRegToRegRoundTrips(t *testing.T) {
	img, err := assembler.Assemble("#LFH 0\nMOV R2 R1\nHLT\n")
	require.NoError(t, err)
	require.Len(t, img.Words, 2)
}

func TestAssemble_MrxExpandsToTwoWords(t *testing.T) {
	img, err := assembler.Assemble("#LFH 0\nMRX R3 0xABCDEF\nHLT\n")
	require.NoError(t, err)
	require.Len(t, img.Words, 3)
	assert.Equal(t, uint32(0xABCDEF), img.Words[1]&0x00FFFFFF)
}

func TestAssemble_StrEmitsPackedUTF16WordsForEvenLength(t *testing.T) {
	img, err := assembler.Assemble(`#LFH 0` + "\n" + `#STR "hi"` + "\n")
	require.NoError(t, err)
	require.Len(t, img.Words, 1)
	assert.Equal(t, uint32('h')<<16|uint32('i'), img.Words[0])
}

func TestAssemble_StrPadsOddLengthWithZeroLowHalf(t *testing.T) {
	img, err := assembler.Assemble(`#LFH 0` + "\n" + `#STR "odd"` + "\n")
	require.NoError(t, err)
	require.Len(t, img.Words, 2)
	assert.Equal(t, uint32('o')<<16|uint32('d'), img.Words[0])
	assert.Equal(t, uint32('d')<<16, img.Words[1])
}

func TestAssemble_RedefinedLabelErrors(t *testing.T) {
	_, err := assembler.Assemble("#LFH 0\nHERE HLT\nHERE HLT\n")
	require.Error(t, err)
	var aerr *assembler.AssembleError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, assembler.ErrRedefinedSymbol, aerr.Kind)
}

func TestAssemble_UnresolvedSymbolErrors(t *testing.T) {
	_, err := assembler.Assemble("#LFH 0\nJSR NOWHERE\nHLT\n")
	require.Error(t, err)
	var aerr *assembler.AssembleError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, assembler.ErrUnresolvedSymbol, aerr.Kind)
}

func TestAssemble_StrWithoutStringOperandIsTypeMismatch(t *testing.T) {
	_, err := assembler.Assemble("#LFH 0\n#STR 5\n")
	require.Error(t, err)
	var aerr *assembler.AssembleError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, assembler.ErrTypeMismatch, aerr.Kind)
}

func TestAssemble_JsrAndRetEncodeLinkRegister(t *testing.T) {
	img, err := assembler.Assemble("#LFH 0\nJSR SUB\nHLT\nSUB RET\n")
	require.NoError(t, err)
	require.Len(t, img.Words, 3)
	assert.Equal(t, uint32(0x40000002), img.Words[0], "JSR SUB should jump to address 2")
	assert.Equal(t, uint32(0x3800001D), img.Words[2], "RET should encode JMP through LNK (R29)")
}
