package vm

import (
	"fmt"

	"github.com/averlieren/bregvm/encoding"
)

// execMOV dispatches the MOV-family opcode. Bit 23 (the tag bit) being
// clear means the word is not a real instruction: an all-zeros word must
// never execute as anything but a NOP, so this is the one case that skips
// the dispatch table's error path entirely.
func execMOV(vm *VM, word uint32) (bool, error) {
	if !encoding.MOVTagSet(word) {
		return false, nil // NOP
	}

	switch encoding.MOVSubmodeOf(word) {
	case encoding.SubmodeMOV:
		dst := (word >> encoding.MOVDstShift) & encoding.MOVDstBits
		src := word & encoding.Reg5Bits
		vm.Registers.Set(dst, vm.Registers.Get(src))
		return false, nil

	case encoding.SubmodeMEX:
		dst, err := vm.readArg()
		if err != nil {
			return false, err
		}
		src, err := vm.readArg()
		if err != nil {
			return false, err
		}
		v, err := vm.Memory.Read(src)
		if err != nil {
			return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
		}
		if err := vm.Memory.Write(dst, v); err != nil {
			return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
		}
		return false, nil

	case encoding.SubmodeMRX:
		dst := word & encoding.Reg5Bits
		val, err := vm.readArg()
		if err != nil {
			return false, err
		}
		vm.Registers.Set(dst, val)
		return false, nil

	case encoding.SubmodeMMX:
		src := word & encoding.Reg5Bits
		addr, err := vm.readArg()
		if err != nil {
			return false, err
		}
		if err := vm.Memory.Write(addr, vm.Registers.Get(src)); err != nil {
			return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
		}
		return false, nil

	case encoding.SubmodeMIX:
		// Immediate-to-memory with the address encoded directly in the
		// instruction word itself, rather than via a second ARG. Bits
		// [23:17] hold the tag and submode, so the address is bits [16:0].
		addr := word & (1<<encoding.MOVSubmodeShift - 1)
		val, err := vm.readArg()
		if err != nil {
			return false, err
		}
		if err := vm.Memory.Write(addr, val); err != nil {
			return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
		}
		return false, nil

	case encoding.SubmodeMFX:
		dst := word & encoding.Reg5Bits
		srcReg, err := vm.readArg()
		if err != nil {
			return false, err
		}
		vm.Registers.Set(dst, vm.Registers.Get(srcReg))
		return false, nil

	default:
		return false, newFault(FaultDecode, vm.Registers.RPC(), word,
			fmt.Sprintf("unknown MOV submode 0x%X", encoding.MOVSubmodeOf(word)))
	}
}

// execSWX swaps the two memory words whose addresses are supplied by two
// trailing ARG words.
func execSWX(vm *VM, word uint32) (bool, error) {
	addr1, err := vm.readArg()
	if err != nil {
		return false, err
	}
	addr2, err := vm.readArg()
	if err != nil {
		return false, err
	}

	v1, err := vm.Memory.Read(addr1)
	if err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}
	v2, err := vm.Memory.Read(addr2)
	if err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}
	if err := vm.Memory.Write(addr1, v2); err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}
	if err := vm.Memory.Write(addr2, v1); err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}
	return false, nil
}
