package vm

import "github.com/averlieren/bregvm/encoding"

// Registers represents the bregvm register file: 32 cells of 32 bits.
// Unwritten cells read as zero. Indices 29, 30, and 31 carry architectural
// meaning (LNK, RMD, RPC) but are otherwise ordinary cells.
type Registers struct {
	cells [encoding.NumRegisters]uint32
}

// NewRegisters creates a zeroed register file.
func NewRegisters() *Registers {
	return &Registers{}
}

// Get returns the value of register r. Out-of-range indexes read as zero.
func (r *Registers) Get(reg uint32) uint32 {
	if reg >= encoding.NumRegisters {
		return 0
	}
	return r.cells[reg]
}

// Set writes value into register r. Out-of-range indexes are ignored.
func (r *Registers) Set(reg uint32, value uint32) {
	if reg >= encoding.NumRegisters {
		return
	}
	r.cells[reg] = value
}

// RPC returns the program counter.
func (r *Registers) RPC() uint32 {
	return r.cells[encoding.RPC]
}

// SetRPC sets the program counter.
func (r *Registers) SetRPC(value uint32) {
	r.cells[encoding.RPC] = value
}

// IncrRPC advances the program counter by delta words.
func (r *Registers) IncrRPC(delta uint32) {
	r.cells[encoding.RPC] += delta
}

// LNK returns the link register.
func (r *Registers) LNK() uint32 {
	return r.cells[encoding.LNK]
}

// SetLNK sets the link register.
func (r *Registers) SetLNK(value uint32) {
	r.cells[encoding.LNK] = value
}

// RMD returns the remainder register.
func (r *Registers) RMD() uint32 {
	return r.cells[encoding.RMD]
}

// SetRMD sets the remainder register.
func (r *Registers) SetRMD(value uint32) {
	r.cells[encoding.RMD] = value
}

// Reset zeroes all registers.
func (r *Registers) Reset() {
	r.cells = [encoding.NumRegisters]uint32{}
}
