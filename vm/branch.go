package vm

import "github.com/averlieren/bregvm/encoding"

// execJMP jumps to the address held in the register named by the low-5
// field. When that field is LNK (29), the effect is the RET idiom: JSR
// populates LNK, so jumping through it returns from a call.
func execJMP(vm *VM, word uint32) (bool, error) {
	reg := word & encoding.Reg5Bits
	vm.Registers.SetRPC(vm.Registers.Get(reg))
	return true, nil
}

// execJSR stores RPC+1 into LNK (so RET returns to the instruction after
// the call) and jumps to the 24-bit immediate address.
func execJSR(vm *VM, word uint32) (bool, error) {
	vm.Registers.SetLNK(vm.Registers.RPC() + 1)
	vm.Registers.SetRPC(encoding.Imm24Of(word))
	return true, nil
}

// execJPA jumps unconditionally to the 24-bit immediate address.
func execJPA(vm *VM, word uint32) (bool, error) {
	vm.Registers.SetRPC(encoding.Imm24Of(word))
	return true, nil
}
