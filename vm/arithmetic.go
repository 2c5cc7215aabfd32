package vm

import "github.com/averlieren/bregvm/encoding"

func arithOperands(word uint32) (dst, a, b uint32) {
	dst = (word >> encoding.ArithDstShift) & encoding.ArithDstBits
	a = (word >> encoding.ArithAShift) & encoding.ArithABits
	b = word & encoding.ArithBBits
	return
}

// execAdd computes dst = a + b with unsigned 32-bit wraparound.
func execAdd(vm *VM, word uint32) (bool, error) {
	dst, a, b := arithOperands(word)
	vm.Registers.Set(dst, vm.Registers.Get(a)+vm.Registers.Get(b))
	return false, nil
}

// execSub computes dst = a - b with unsigned 32-bit wraparound.
func execSub(vm *VM, word uint32) (bool, error) {
	dst, a, b := arithOperands(word)
	vm.Registers.Set(dst, vm.Registers.Get(a)-vm.Registers.Get(b))
	return false, nil
}

// execMul computes dst = a * b with unsigned 32-bit wraparound.
func execMul(vm *VM, word uint32) (bool, error) {
	dst, a, b := arithOperands(word)
	vm.Registers.Set(dst, vm.Registers.Get(a)*vm.Registers.Get(b))
	return false, nil
}

// execDiv computes dst = a / b and RMD = a % b. Division by zero is fatal.
func execDiv(vm *VM, word uint32) (bool, error) {
	dst, aReg, bReg := arithOperands(word)
	a := vm.Registers.Get(aReg)
	b := vm.Registers.Get(bReg)
	if b == 0 {
		return false, newFault(FaultOperand, vm.Registers.RPC(), word, "division by zero")
	}
	vm.Registers.Set(dst, a/b)
	vm.Registers.SetRMD(a % b)
	return false, nil
}

// execAnd computes dst = a & b.
func execAnd(vm *VM, word uint32) (bool, error) {
	dst, a, b := arithOperands(word)
	vm.Registers.Set(dst, vm.Registers.Get(a)&vm.Registers.Get(b))
	return false, nil
}

// execNot computes dst = ^a. Operand layout is [20:16]/[4:0], matching the
// ADD-family layout per spec.md §9's canonical resolution.
func execNot(vm *VM, word uint32) (bool, error) {
	dst := (word >> encoding.NotDstShift) & encoding.NotDstBits
	a := word & encoding.NotABits
	vm.Registers.Set(dst, ^vm.Registers.Get(a))
	return false, nil
}
