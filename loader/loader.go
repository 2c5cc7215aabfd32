// Package loader reads and writes bregvm image files: a 3-byte big-endian
// load address followed by a stream of 4-byte big-endian words; a short
// final word is zero-padded when read. It is the on-disk counterpart of
// vm.Memory.LoadBytes and the assembler's final emission pass.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/averlieren/bregvm/encoding"
	"github.com/averlieren/bregvm/vm"
)

// HeaderSize is the length in bytes of an image's load-address header.
const HeaderSize = 3

// Image is a parsed program image: where it belongs in memory, and its words.
type Image struct {
	LoadAddress uint32
	Words       []uint32
}

// ReadImage parses raw image bytes into an Image. The byte slice must be at
// least HeaderSize long; any trailing partial word is treated as zero-padded.
func ReadImage(data []byte) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("image too short: need at least %d header bytes, got %d", HeaderSize, len(data))
	}

	loadAddr := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
	if loadAddr > encoding.AddrMask {
		return nil, fmt.Errorf("load address 0x%06X exceeds 24-bit address space", loadAddr)
	}

	body := data[HeaderSize:]
	if rem := len(body) % 4; rem != 0 {
		body = append(append([]byte(nil), body...), make([]byte, 4-rem)...)
	}

	words := make([]uint32, len(body)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(body[i*4 : i*4+4])
	}

	return &Image{LoadAddress: loadAddr, Words: words}, nil
}

// WriteImage serializes an Image to the on-disk format: a 3-byte big-endian
// load address followed by each word as 4 big-endian bytes.
func WriteImage(img *Image) ([]byte, error) {
	if img.LoadAddress > encoding.AddrMask {
		return nil, fmt.Errorf("load address 0x%06X exceeds 24-bit address space", img.LoadAddress)
	}

	out := make([]byte, HeaderSize+len(img.Words)*4)
	out[0] = byte(img.LoadAddress >> 16)
	out[1] = byte(img.LoadAddress >> 8)
	out[2] = byte(img.LoadAddress)

	for i, w := range img.Words {
		binary.BigEndian.PutUint32(out[HeaderSize+i*4:], w)
	}
	return out, nil
}

// LoadFile reads an image file from disk and parses it.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("reading image file %q: %w", path, err)
	}
	return ReadImage(data)
}

// SaveFile serializes img and writes it to path.
func SaveFile(path string, img *Image) error {
	data, err := WriteImage(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- executable program image, not a secret
		return fmt.Errorf("writing image file %q: %w", path, err)
	}
	return nil
}

// LoadIntoVM parses img and installs its words into the VM's memory at
// consecutive addresses starting at img.LoadAddress, then sets RPC to the
// load address as the program's entry point.
func LoadIntoVM(machine *vm.VM, img *Image) error {
	addr := img.LoadAddress
	for _, w := range img.Words {
		if err := machine.Memory.Write(addr, w); err != nil {
			return fmt.Errorf("loading word at 0x%06X: %w", addr, err)
		}
		addr++
	}
	machine.Registers.SetRPC(img.LoadAddress)
	return nil
}

// LoadFileIntoVM is a convenience wrapper combining LoadFile and LoadIntoVM.
func LoadFileIntoVM(machine *vm.VM, path string) error {
	img, err := LoadFile(path)
	if err != nil {
		return err
	}
	return LoadIntoVM(machine, img)
}
