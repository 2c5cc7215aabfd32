package vm

import "fmt"

// execFLX implements FLX: load a raw byte file into memory. The path string
// lives at the address in the first ARG word; the second ARG word gives the
// destination address. The file's bytes are packed into words exactly as
// Memory.LoadBytes does: no header, no relocation.
func execFLX(vm *VM, word uint32) (bool, error) {
	pathAddr, err := vm.readArg()
	if err != nil {
		return false, err
	}
	loadAddr, err := vm.readArg()
	if err != nil {
		return false, err
	}

	path, err := vm.Memory.ReadString(pathAddr)
	if err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}

	data, err := vm.Host.ReadFile(path)
	if err != nil {
		return false, newFault(FaultIO, vm.Registers.RPC(), word, err.Error())
	}

	if err := vm.Memory.LoadBytes(loadAddr, data); err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}
	return false, nil
}

// execILX implements ILX: load an image file (the same 3-byte load-address
// header plus word stream the loader package reads from disk), placing its
// words at the address recorded in the header rather than one the caller
// supplies. Only the path is given, via a single ARG word.
func execILX(vm *VM, word uint32) (bool, error) {
	pathAddr, err := vm.readArg()
	if err != nil {
		return false, err
	}

	path, err := vm.Memory.ReadString(pathAddr)
	if err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, err.Error())
	}

	data, err := vm.Host.ReadFile(path)
	if err != nil {
		return false, newFault(FaultIO, vm.Registers.RPC(), word, err.Error())
	}

	if len(data) < 3 {
		return false, newFault(FaultIO, vm.Registers.RPC(), word, "image too short for load-address header")
	}
	loadAddr := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])

	if err := vm.Memory.LoadBytes(loadAddr, data[3:]); err != nil {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, fmt.Errorf("relocating image: %w", err).Error())
	}
	return false, nil
}
