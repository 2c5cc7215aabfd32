package vm

import (
	"fmt"

	"github.com/averlieren/bregvm/encoding"
)

// DefaultMaxCycles bounds a Run() call so a runaway program cannot spin
// forever under test or in the debugger; HLT-driven programs stop well
// before this.
const DefaultMaxCycles = 10_000_000

// VM is the complete bregvm: registers, memory, and the host I/O boundary.
type VM struct {
	Registers *Registers
	Memory    *Memory
	Host      Host

	Running   bool
	Cycles    uint64
	MaxCycles uint64
	LastFault *Fault

	// InstructionLog records the RPC of each fetched instruction, for the
	// debugger's history view.
	InstructionLog []uint32

	// Trace, when non-nil, records a line per executed instruction.
	Trace *ExecutionTrace
}

// NewVM creates a VM with empty memory/registers and the standard host.
func NewVM() *VM {
	return &VM{
		Registers: NewRegisters(),
		Memory:    NewMemory(),
		Host:      NewStdHost(),
		MaxCycles: DefaultMaxCycles,
	}
}

// Reset clears registers and memory and stops the run loop.
func (vm *VM) Reset() {
	vm.Registers.Reset()
	vm.Memory.Reset()
	vm.Running = false
	vm.Cycles = 0
	vm.LastFault = nil
	vm.InstructionLog = vm.InstructionLog[:0]
}

// readArg implements the ARG-carrier protocol: it reads the word at RPC+1,
// requires it to be an ARG word, advances RPC past it (so chained ARG
// reads line up), and returns the low 24 bits.
func (vm *VM) readArg() (uint32, error) {
	rpc := vm.Registers.RPC()
	word, err := vm.Memory.Read(rpc + 1)
	if err != nil {
		return 0, newFault(FaultOperand, rpc, 0, err.Error())
	}
	if encoding.OpcodeOf(word) != encoding.ARG {
		return 0, newFault(FaultDecode, rpc, word, "expected ARG word following instruction")
	}
	vm.Registers.IncrRPC(1)
	return encoding.Imm24Of(word), nil
}

// handler executes a decoded instruction. It returns jumped=true if it set
// RPC itself (branches, calls, compares); otherwise the caller applies the
// default +1 advance.
type handler func(vm *VM, word uint32) (jumped bool, err error)

var dispatch = map[encoding.Opcode]handler{
	encoding.MOV: execMOV,
	encoding.SWX: execSWX,
	encoding.JMP: execJMP,
	encoding.JSR: execJSR,
	encoding.CMP: execCompare,
	encoding.CMZ: execCompare,
	encoding.ARG: execARGStandalone,
	encoding.ADD: execAdd,
	encoding.SUB: execSub,
	encoding.MUL: execMul,
	encoding.DIV: execDiv,
	encoding.AND: execAnd,
	encoding.NOT: execNot,
	encoding.CAL: execCAL,
	encoding.JPA: execJPA,
	encoding.FLX: execFLX,
	encoding.ILX: execILX,
}

func execARGStandalone(vm *VM, word uint32) (bool, error) {
	return false, newFault(FaultDecode, vm.Registers.RPC(), word, "ARG instruction encountered without accompanying command")
}

// Step fetches, decodes, and dispatches a single instruction.
func (vm *VM) Step() error {
	rpc := vm.Registers.RPC()

	word, err := vm.Memory.Read(rpc)
	if err != nil {
		f := newFault(FaultOperand, rpc, 0, err.Error())
		vm.LastFault = f
		vm.Running = false
		return f
	}

	vm.InstructionLog = append(vm.InstructionLog, rpc)

	h, ok := dispatch[encoding.OpcodeOf(word)]
	if !ok {
		f := newFault(FaultDecode, rpc, word, fmt.Sprintf("unknown opcode 0x%02X", encoding.OpcodeOf(word)))
		vm.LastFault = f
		vm.Running = false
		return f
	}

	jumped, err := h(vm, word)
	if err != nil {
		if f, ok := err.(*Fault); ok {
			vm.LastFault = f
		}
		vm.Running = false
		return err
	}

	if !jumped {
		vm.Registers.IncrRPC(1)
	}

	vm.Cycles++
	if vm.Trace != nil {
		vm.Trace.Record(vm.Cycles, rpc, word)
	}

	return nil
}

// Run executes instructions until HLT, a fault, or MaxCycles is exceeded.
func (vm *VM) Run() error {
	vm.Running = true
	for vm.Running {
		if vm.MaxCycles > 0 && vm.Cycles >= vm.MaxCycles {
			vm.Running = false
			return fmt.Errorf("maximum cycle count exceeded (%d cycles)", vm.MaxCycles)
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Halt stops the run loop; called by CAL HLT.
func (vm *VM) Halt() {
	vm.Running = false
}
