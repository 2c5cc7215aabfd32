package assembler

import (
	"fmt"
	"unicode/utf16"

	"github.com/averlieren/bregvm/loader"
)

// Assembler runs the two-pass translation from mnemonic source text to a
// loadable image. Pass one walks the token stream, laying out words at a
// current emit address and recording any operand that names an
// as-yet-undefined label; pass two resolves every recorded reference
// against the labels pass one collected.
type Assembler struct {
	symbols *SymbolTable
	patches *PatchList
	words   map[uint32]uint32

	loadAddress uint32
	haveLFH     bool
	emitAddr    uint32
}

// New creates an empty assembler.
func New() *Assembler {
	return &Assembler{
		symbols: NewSymbolTable(),
		patches: NewPatchList(),
		words:   make(map[uint32]uint32),
	}
}

// Assemble translates source into a loadable image.
func Assemble(source string) (*loader.Image, error) {
	a := New()
	return a.Run(source)
}

// Run tokenizes source and performs both assembly passes.
func (a *Assembler) Run(source string) (*loader.Image, error) {
	tokens, err := NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}

	if err := a.passOne(tokens); err != nil {
		return nil, err
	}
	if err := a.patches.Resolve(a.symbols, a.words); err != nil {
		return nil, err
	}
	return a.buildImage(), nil
}

// passOne consumes the token stream left to right: directives adjust the
// emit cursor or emit data directly, known mnemonics consume their operands
// and emit instruction words, and any other bare WORD defines a label at
// the current emit address.
func (a *Assembler) passOne(tokens []Token) error {
	pos := 0
	peek := func() Token { return tokens[pos] }
	next := func() Token {
		t := tokens[pos]
		if pos < len(tokens)-1 {
			pos++
		}
		return t
	}

	for {
		tok := peek()
		if tok.Kind == TokenEOF {
			return nil
		}

		switch tok.Kind {
		case TokenDirective:
			next()
			if err := a.handleDirective(tok, next); err != nil {
				return err
			}
			if tok.Text == "#END" {
				return nil
			}

		case TokenWord:
			next()
			if def, ok := mnemonicTable[tok.Text]; ok {
				if err := a.emitInstruction(tok, def, next); err != nil {
					return err
				}
				continue
			}
			if err := a.symbols.Define(tok.Text, a.emitAddr, tok.Pos); err != nil {
				return err
			}

		default:
			return &AssembleError{
				Kind:    ErrTypeMismatch,
				Pos:     tok.Pos,
				Message: fmt.Sprintf("unexpected %s token %q outside of a directive or instruction", tok.Kind, tok.Text),
			}
		}
	}
}

func (a *Assembler) handleDirective(directive Token, next func() Token) error {
	switch directive.Text {
	case "#LFH":
		operand := next()
		if operand.Kind != TokenNumber {
			return &AssembleError{
				Kind:    ErrTypeMismatch,
				Pos:     operand.Pos,
				Message: "#LFH requires a NUMBER operand",
			}
		}
		a.emitAddr = operand.Number
		if !a.haveLFH {
			a.loadAddress = operand.Number
			a.haveLFH = true
		}
		return nil

	case "#STR":
		operand := next()
		if operand.Kind != TokenString {
			return &AssembleError{
				Kind:    ErrTypeMismatch,
				Pos:     operand.Pos,
				Message: "#STR requires a STRING operand",
			}
		}
		for _, w := range packUTF16BE(operand.Text) {
			a.words[a.emitAddr] = w
			a.emitAddr++
		}
		return nil

	case "#END":
		return nil

	default:
		return &AssembleError{
			Kind:    ErrUnknownMnemonic,
			Pos:     directive.Pos,
			Message: fmt.Sprintf("unknown directive %q", directive.Text),
		}
	}
}

// emitInstruction consumes def's declared operands from the token stream,
// resolving each to a uint32 (and, for label references, recording a patch
// if the label isn't defined yet), then writes def's expansion at the
// current emit address.
func (a *Assembler) emitInstruction(mnemonic Token, def *mnemonicDef, next func() Token) error {
	ops := make([]uint32, len(def.Operands))
	unresolvedLabel := make([]string, len(def.Operands))
	unresolvedPos := make([]Position, len(def.Operands))

	for i, kind := range def.Operands {
		tok := next()
		switch kind {
		case operandRegister:
			if tok.Kind != TokenNumber {
				return &AssembleError{
					Kind:    ErrTypeMismatch,
					Pos:     tok.Pos,
					Message: fmt.Sprintf("%s expects a register operand, got %s %q", mnemonic.Text, tok.Kind, tok.Text),
				}
			}
			ops[i] = tok.Number

		case operandValue:
			switch tok.Kind {
			case TokenNumber:
				ops[i] = tok.Number
			case TokenWord:
				if addr, ok := a.symbols.Get(tok.Text); ok {
					ops[i] = addr
				} else {
					unresolvedLabel[i] = tok.Text
					unresolvedPos[i] = tok.Pos
					ops[i] = 0
				}
			default:
				return &AssembleError{
					Kind:    ErrTypeMismatch,
					Pos:     tok.Pos,
					Message: fmt.Sprintf("%s expects a value or label operand, got %s %q", mnemonic.Text, tok.Kind, tok.Text),
				}
			}
		}
	}

	for _, w := range def.Encode(ops) {
		addr := a.emitAddr
		a.words[addr] = w.Value
		if w.DependsOn >= 0 && unresolvedLabel[w.DependsOn] != "" {
			a.patches.Add(addr, unresolvedLabel[w.DependsOn], unresolvedPos[w.DependsOn])
		}
		a.emitAddr++
	}
	return nil
}

// packUTF16BE encodes text as UTF-16BE code units, two per word in
// descending significance order, padding a final odd unit with a zero low
// half. It mirrors vm.Memory.WriteString's on-the-wire layout exactly.
func packUTF16BE(text string) []uint32 {
	units := utf16.Encode([]rune(text))
	words := make([]uint32, 0, (len(units)+1)/2)
	for i := 0; i < len(units); i += 2 {
		hi := uint32(units[i])
		lo := uint32(0)
		if i+1 < len(units) {
			lo = uint32(units[i+1])
		}
		words = append(words, hi<<16|lo)
	}
	return words
}

// buildImage takes the sparse emitted-word map and produces a dense image
// spanning every address from the load address through the highest emitted
// address, filling gaps with zero.
func (a *Assembler) buildImage() *loader.Image {
	if len(a.words) == 0 {
		return &loader.Image{LoadAddress: a.loadAddress, Words: nil}
	}

	maxAddr := a.loadAddress
	for addr := range a.words {
		if addr > maxAddr {
			maxAddr = addr
		}
	}

	words := make([]uint32, maxAddr-a.loadAddress+1)
	for addr, value := range a.words {
		words[addr-a.loadAddress] = value
	}

	return &loader.Image{LoadAddress: a.loadAddress, Words: words}
}
