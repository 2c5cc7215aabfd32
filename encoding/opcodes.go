// Package encoding defines the bit layout of a bregvm instruction word, the
// opcode table, the system-call vector table, and the register assignments
// shared between the vm and assembler packages.
package encoding

// Opcode is the 5-bit instruction class in bits [31:27] of an instruction word.
type Opcode byte

// Opcode values. Names are chosen for this spec; they do not correspond to
// any real historical ISA.
const (
	MOV Opcode = 0x00 // MOV-family: inter-register / memory / immediate transfers
	SWX Opcode = 0x06 // Swap two memory words
	JMP Opcode = 0x07 // Indirect jump through register (RET when register field = LNK)
	JSR Opcode = 0x08 // Call: save RPC+1 into LNK, jump to imm24
	CMP Opcode = 0x09 // Compare two registers
	CMZ Opcode = 0x0A // Compare register to zero
	ARG Opcode = 0x0B // Immediate-24 carrier for a preceding instruction
	ADD Opcode = 0x0C
	SUB Opcode = 0x0D
	MUL Opcode = 0x0E
	DIV Opcode = 0x0F // quotient -> dst, remainder -> RMD
	AND Opcode = 0x10
	NOT Opcode = 0x11
	CAL Opcode = 0x12 // System call, 8-bit vector in bits [7:0]
	JPA Opcode = 0x13 // Absolute jump to imm24
	FLX Opcode = 0x14 // Host-file load: (path_addr, load_addr) via two ARG words
	ILX Opcode = 0x15 // Host-file load-and-relocate: path_addr via one ARG word
)

var opcodeNames = map[Opcode]string{
	MOV: "MOV", SWX: "SWX", JMP: "JMP", JSR: "JSR", CMP: "CMP", CMZ: "CMZ",
	ARG: "ARG", ADD: "ADD", SUB: "SUB", MUL: "MUL", DIV: "DIV", AND: "AND",
	NOT: "NOT", CAL: "CAL", JPA: "JPA", FLX: "FLX", ILX: "ILX",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// MOVSubmode is the 6-bit selector in bits [22:17] of a MOV-family word.
type MOVSubmode byte

const (
	SubmodeMOV MOVSubmode = 0x1 // reg <- reg
	SubmodeMEX MOVSubmode = 0x2 // mem[argA] <- mem[argB]
	SubmodeMRX MOVSubmode = 0x3 // reg[low5] <- imm24
	SubmodeMMX MOVSubmode = 0x4 // mem[arg] <- reg[low5]
	SubmodeMIX MOVSubmode = 0x5 // mem[inst&0x1FFFF] <- arg
	SubmodeMFX MOVSubmode = 0x6 // reg[low5] <- reg[arg]
)

// Predicate is the 3-bit relational selector in bits [23:21] of a CMP/CMZ word.
type Predicate byte

const (
	PredEQ Predicate = 0b001
	PredLE Predicate = 0b010
	PredGE Predicate = 0b011
	PredLT Predicate = 0b100
	PredGT Predicate = 0b101
)

// SyscallVector is the 8-bit CAL vector in bits [7:0].
type SyscallVector byte

const (
	SyscallINP SyscallVector = 0x98
	SyscallOUT SyscallVector = 0x99
	SyscallPNT SyscallVector = 0x9A
	SyscallHLT SyscallVector = 0x9D
)

// Architecturally significant register indexes.
const (
	LNK = 29 // Link register, written by JSR, read by RET
	RMD = 30 // Remainder register, written by DIV
	RPC = 31 // Program counter
)

// NumRegisters is the size of the register file.
const NumRegisters = 32

// AddrMask masks a value down to the 24-bit address/immediate space.
const AddrMask = 0x00FFFFFF

// Bit field shifts/widths within a 32-bit instruction word.
const (
	OpcodeShift = 27
	OpcodeBits  = 0x1F

	MOVTagShift     = 23
	MOVSubmodeShift = 17
	MOVSubmodeBits  = 0x3F
	MOVDstShift     = 12
	MOVDstBits      = 0x1F

	PredicateShift = 21
	PredicateBits  = 0x7
	Cmp1Shift      = 12
	Cmp1Bits       = 0x1F
	Cmp2Bits       = 0x1F

	Reg5Bits = 0x1F

	ArithDstShift = 16
	ArithDstBits  = 0x1F
	ArithAShift   = 8
	ArithABits    = 0x1F
	ArithBBits    = 0x1F

	NotDstShift = 16
	NotDstBits  = 0x1F
	NotABits    = 0x1F

	VectorBits = 0xFF
)

// OpcodeOf extracts the 5-bit opcode field from an instruction word.
func OpcodeOf(word uint32) Opcode {
	return Opcode((word >> OpcodeShift) & OpcodeBits)
}

// Imm24Of extracts the low 24-bit immediate/address field from a word.
func Imm24Of(word uint32) uint32 {
	return word & AddrMask
}

// MOVTagSet reports whether bit 23 (the MOV tag bit) is set.
func MOVTagSet(word uint32) bool {
	return (word>>MOVTagShift)&1 != 0
}

// MOVSubmodeOf extracts the 6-bit submode selector from a MOV-family word.
func MOVSubmodeOf(word uint32) MOVSubmode {
	return MOVSubmode((word >> MOVSubmodeShift) & MOVSubmodeBits)
}

// PredicateOf extracts the 3-bit predicate selector from a CMP/CMZ word.
func PredicateOf(word uint32) Predicate {
	return Predicate((word >> PredicateShift) & PredicateBits)
}

// EvaluatePredicate evaluates pred on (a relOp b).
func EvaluatePredicate(pred Predicate, a, b uint32) (bool, bool) {
	switch pred {
	case PredEQ:
		return a == b, true
	case PredLE:
		return a <= b, true
	case PredGE:
		return a >= b, true
	case PredLT:
		return a < b, true
	case PredGT:
		return a > b, true
	default:
		return false, false
	}
}
