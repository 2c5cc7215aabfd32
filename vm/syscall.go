package vm

import "github.com/averlieren/bregvm/encoding"

// execCAL dispatches a system call by its 8-bit vector in bits [7:0]. Every
// vector's operand is register 0: INP stores into it, OUT and PNT read from
// it. There is no operand field in the word for this opcode.
func execCAL(vm *VM, word uint32) (bool, error) {
	vector := encoding.SyscallVector(word & encoding.VectorBits)

	switch vector {
	case encoding.SyscallINP:
		cp, err := vm.Host.ReadCodePoint()
		if err != nil {
			return false, newFault(FaultIO, vm.Registers.RPC(), word, err.Error())
		}
		vm.Registers.Set(0, uint32(cp))
		return false, nil

	case encoding.SyscallOUT:
		unit := uint16(vm.Registers.Get(0))
		if err := vm.Host.WriteCodeUnit(unit); err != nil {
			return false, newFault(FaultIO, vm.Registers.RPC(), word, err.Error())
		}
		return false, nil

	case encoding.SyscallPNT:
		s, err := vm.Memory.ReadString(vm.Registers.Get(0))
		if err != nil {
			return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
		}
		if err := vm.Host.WriteString(s); err != nil {
			return false, newFault(FaultIO, vm.Registers.RPC(), word, err.Error())
		}
		return false, nil

	case encoding.SyscallHLT:
		vm.Halt()
		// Report jumped=true so Step() does not advance RPC past HLT: RPC
		// must stay pointing at the halting instruction itself.
		return true, nil

	default:
		// Unknown vectors are a no-op, unlike unknown opcodes or submodes.
		return false, nil
	}
}
