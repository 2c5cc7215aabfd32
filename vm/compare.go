package vm

import (
	"fmt"

	"github.com/averlieren/bregvm/encoding"
)

// execCompare implements CMP and CMZ. There is no status word: the
// comparison result is realised directly as a skip-one-or-two effect on
// RPC, so the caller must treat this as an explicit-jump handler even on
// the common "skip one" path.
func execCompare(vm *VM, word uint32) (bool, error) {
	pred := encoding.PredicateOf(word)

	var a, b uint32
	if encoding.OpcodeOf(word) == encoding.CMZ {
		a = vm.Registers.Get(word & encoding.Reg5Bits)
		b = 0
	} else {
		a = vm.Registers.Get((word >> encoding.Cmp1Shift) & encoding.Cmp1Bits)
		b = vm.Registers.Get(word & encoding.Cmp2Bits)
	}

	passed, known := encoding.EvaluatePredicate(pred, a, b)
	if !known {
		return false, newFault(FaultDecode, vm.Registers.RPC(), word, fmt.Sprintf("unknown predicate 0x%X", pred))
	}

	if passed {
		vm.Registers.IncrRPC(1)
	} else {
		vm.Registers.IncrRPC(2)
	}
	return true, nil
}
