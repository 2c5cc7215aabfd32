package loader_test

import (
	"testing"

	"github.com/averlieren/bregvm/loader"
	"github.com/averlieren/bregvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImage_ParsesHeaderAndWords(t *testing.T) {
	data := []byte{0x00, 0x01, 0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x11, 0x22, 0x33, 0x44}

	img, err := loader.ReadImage(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x000100), img.LoadAddress)
	require.Len(t, img.Words, 2)
	assert.Equal(t, uint32(0xDEADBEEF), img.Words[0])
	assert.Equal(t, uint32(0x11223344), img.Words[1])
}

func TestReadImage_PadsTrailingPartialWord(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0xAB, 0xCD}

	img, err := loader.ReadImage(data)
	require.NoError(t, err)
	require.Len(t, img.Words, 1)
	assert.Equal(t, uint32(0xABCD0000), img.Words[0])
}

func TestReadImage_TooShortErrors(t *testing.T) {
	_, err := loader.ReadImage([]byte{0x00, 0x01})
	assert.Error(t, err)
}

func TestWriteImage_RoundTripsWithReadImage(t *testing.T) {
	img := &loader.Image{LoadAddress: 0x000200, Words: []uint32{1, 2, 3}}

	data, err := loader.WriteImage(img)
	require.NoError(t, err)

	got, err := loader.ReadImage(data)
	require.NoError(t, err)
	assert.Equal(t, img.LoadAddress, got.LoadAddress)
	assert.Equal(t, img.Words, got.Words)
}

func TestLoadIntoVM_InstallsWordsAndSetsRPC(t *testing.T) {
	machine := vm.NewVM()
	img := &loader.Image{LoadAddress: 100, Words: []uint32{0x01, 0x02}}

	require.NoError(t, loader.LoadIntoVM(machine, img))

	assert.Equal(t, uint32(100), machine.Registers.RPC())
	got, err := machine.Memory.Read(100)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01), got)
	got, err = machine.Memory.Read(101)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x02), got)
}
