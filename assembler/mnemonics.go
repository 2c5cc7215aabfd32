package assembler

import "github.com/averlieren/bregvm/encoding"

// operandKind describes what an instruction's token-level operand must be.
type operandKind int

const (
	operandRegister operandKind = iota // a NUMBER token naming a register index; never a label
	operandValue                       // a NUMBER or WORD (label) giving an address/immediate
)

// encodedWord is one word of a mnemonic's expansion. DependsOn names the
// index into the operand slice that this word's low 24 bits were built
// from, or -1 if the word carries no label-resolvable operand. The
// assembler only adds a patch-list entry for a word whose DependsOn
// operand turned out to be an unresolved forward label.
type encodedWord struct {
	Value     uint32
	DependsOn int
}

// mnemonicDef is a static description of one assembly mnemonic: how many
// operands it takes and of what kind, and how resolved operand values
// expand into the word(s) emitted for it.
type mnemonicDef struct {
	Operands []operandKind
	Encode   func(ops []uint32) []encodedWord
}

func movWord(submode encoding.MOVSubmode, rest uint32) uint32 {
	return uint32(encoding.MOV)<<encoding.OpcodeShift | 1<<encoding.MOVTagShift | uint32(submode)<<encoding.MOVSubmodeShift | rest
}

func opWord(op encoding.Opcode, rest uint32) uint32 {
	return uint32(op)<<encoding.OpcodeShift | rest
}

func argWord(value uint32, dependsOn int) encodedWord {
	return encodedWord{Value: opWord(encoding.ARG, value&encoding.AddrMask), DependsOn: dependsOn}
}

var mnemonicTable map[string]*mnemonicDef

func init() {
	mnemonicTable = make(map[string]*mnemonicDef)

	reg1 := []operandKind{operandRegister}
	reg2 := []operandKind{operandRegister, operandRegister}
	reg3 := []operandKind{operandRegister, operandRegister, operandRegister}
	val1 := []operandKind{operandValue}
	val2 := []operandKind{operandValue, operandValue}
	regVal := []operandKind{operandRegister, operandValue}
	none := []operandKind{}

	mnemonicTable["MOV"] = &mnemonicDef{Operands: reg2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: movWord(encoding.SubmodeMOV, ops[0]<<encoding.MOVDstShift|ops[1]), DependsOn: -1}}
	}}
	mnemonicTable["RET"] = &mnemonicDef{Operands: none, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.JMP, encoding.LNK), DependsOn: -1}}
	}}
	mnemonicTable["JMP"] = &mnemonicDef{Operands: reg1, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.JMP, ops[0]), DependsOn: -1}}
	}}
	mnemonicTable["INP"] = &mnemonicDef{Operands: none, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.CAL, uint32(encoding.SyscallINP)), DependsOn: -1}}
	}}
	mnemonicTable["OUT"] = &mnemonicDef{Operands: none, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.CAL, uint32(encoding.SyscallOUT)), DependsOn: -1}}
	}}
	mnemonicTable["PNT"] = &mnemonicDef{Operands: none, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.CAL, uint32(encoding.SyscallPNT)), DependsOn: -1}}
	}}
	mnemonicTable["HLT"] = &mnemonicDef{Operands: none, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.CAL, uint32(encoding.SyscallHLT)), DependsOn: -1}}
	}}

	for mnemonic, pred := range map[string]encoding.Predicate{
		"CEQ": encoding.PredEQ, "CEL": encoding.PredLE, "CEG": encoding.PredGE,
		"CLT": encoding.PredLT, "CGT": encoding.PredGT,
	} {
		p := pred
		mnemonicTable[mnemonic] = &mnemonicDef{Operands: reg2, Encode: func(ops []uint32) []encodedWord {
			return []encodedWord{{
				Value:     opWord(encoding.CMP, uint32(p)<<encoding.PredicateShift|ops[0]<<encoding.Cmp1Shift|ops[1]),
				DependsOn: -1,
			}}
		}}
	}

	// Z-suffixed compare-to-zero mnemonics: E=equal, L=less, G=greater,
	// P=positive-or-zero (>=0), N=negative-or-zero (<=0).
	for mnemonic, pred := range map[string]encoding.Predicate{
		"CEZ": encoding.PredEQ, "CLZ": encoding.PredLT, "CGZ": encoding.PredGT,
		"CPZ": encoding.PredGE, "CNZ": encoding.PredLE,
	} {
		p := pred
		mnemonicTable[mnemonic] = &mnemonicDef{Operands: reg1, Encode: func(ops []uint32) []encodedWord {
			return []encodedWord{{Value: opWord(encoding.CMZ, uint32(p)<<encoding.PredicateShift|ops[0]), DependsOn: -1}}
		}}
	}

	for mnemonic, op := range map[string]encoding.Opcode{
		"ADD": encoding.ADD, "SUB": encoding.SUB, "MUL": encoding.MUL, "DIV": encoding.DIV, "AND": encoding.AND,
	} {
		o := op
		mnemonicTable[mnemonic] = &mnemonicDef{Operands: reg3, Encode: func(ops []uint32) []encodedWord {
			return []encodedWord{{
				Value:     opWord(o, ops[0]<<encoding.ArithDstShift|ops[1]<<encoding.ArithAShift|ops[2]),
				DependsOn: -1,
			}}
		}}
	}
	mnemonicTable["NOT"] = &mnemonicDef{Operands: reg2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.NOT, ops[0]<<encoding.NotDstShift|ops[1]), DependsOn: -1}}
	}}

	mnemonicTable["JSR"] = &mnemonicDef{Operands: val1, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.JSR, ops[0]&encoding.AddrMask), DependsOn: 0}}
	}}
	mnemonicTable["JPA"] = &mnemonicDef{Operands: val1, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.JPA, ops[0]&encoding.AddrMask), DependsOn: 0}}
	}}
	mnemonicTable["ARG"] = &mnemonicDef{Operands: val1, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{{Value: opWord(encoding.ARG, ops[0]&encoding.AddrMask), DependsOn: 0}}
	}}

	mnemonicTable["MEX"] = &mnemonicDef{Operands: val2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: movWord(encoding.SubmodeMEX, 0), DependsOn: -1},
			argWord(ops[0], 0),
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["MRX"] = &mnemonicDef{Operands: regVal, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: movWord(encoding.SubmodeMRX, ops[0]), DependsOn: -1},
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["MMX"] = &mnemonicDef{Operands: regVal, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: movWord(encoding.SubmodeMMX, ops[0]), DependsOn: -1},
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["MIX"] = &mnemonicDef{Operands: val2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: movWord(encoding.SubmodeMIX, ops[0]&encoding.AddrMask), DependsOn: 0},
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["MFX"] = &mnemonicDef{Operands: regVal, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: movWord(encoding.SubmodeMFX, ops[0]), DependsOn: -1},
			argWord(ops[1], 1),
		}
	}}

	mnemonicTable["SWX"] = &mnemonicDef{Operands: val2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: opWord(encoding.SWX, 0), DependsOn: -1},
			argWord(ops[0], 0),
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["FLX"] = &mnemonicDef{Operands: val2, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: opWord(encoding.FLX, 0), DependsOn: -1},
			argWord(ops[0], 0),
			argWord(ops[1], 1),
		}
	}}
	mnemonicTable["ILX"] = &mnemonicDef{Operands: val1, Encode: func(ops []uint32) []encodedWord {
		return []encodedWord{
			{Value: opWord(encoding.ILX, 0), DependsOn: -1},
			argWord(ops[0], 0),
		}
	}}
}
