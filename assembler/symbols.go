package assembler

import "fmt"

// symbol is a label's resolved or pending address.
type symbol struct {
	Name    string
	Address uint32
	Defined bool
	DefPos  Position
}

// SymbolTable tracks label definitions across the two assembly passes.
type SymbolTable struct {
	symbols map[string]*symbol
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*symbol)}
}

// Define records a label at address. Redefining an already-defined label is
// a redefined-symbol error.
func (st *SymbolTable) Define(name string, address uint32, pos Position) error {
	if existing, ok := st.symbols[name]; ok && existing.Defined {
		return &AssembleError{
			Kind:    ErrRedefinedSymbol,
			Pos:     pos,
			Message: fmt.Sprintf("label %q redefined (first defined at %s)", name, existing.DefPos),
		}
	}
	st.symbols[name] = &symbol{Name: name, Address: address, Defined: true, DefPos: pos}
	return nil
}

// Get returns a label's address, or ok=false if it was never defined.
func (st *SymbolTable) Get(name string) (uint32, bool) {
	sym, ok := st.symbols[name]
	if !ok || !sym.Defined {
		return 0, false
	}
	return sym.Address, true
}

// patchRef is a forward reference recorded during pass one: the word at
// Address needs the low 24 bits OR-written with the final value of Symbol.
type patchRef struct {
	Address uint32
	Symbol  string
	Pos     Position
}

// PatchList accumulates references to resolve once every label is defined.
type PatchList struct {
	refs []patchRef
}

// NewPatchList creates an empty patch list.
func NewPatchList() *PatchList {
	return &PatchList{}
}

// Add records a reference to symbol name at the given word address.
func (pl *PatchList) Add(address uint32, name string, pos Position) {
	pl.refs = append(pl.refs, patchRef{Address: address, Symbol: name, Pos: pos})
}

// Resolve applies every recorded reference against table, OR-writing the
// resolved address into the low 24 bits of image[Address]. The first
// unresolved symbol halts resolution with an unresolved-symbol error.
func (pl *PatchList) Resolve(table *SymbolTable, image map[uint32]uint32) error {
	for _, ref := range pl.refs {
		addr, ok := table.Get(ref.Symbol)
		if !ok {
			return &AssembleError{
				Kind:    ErrUnresolvedSymbol,
				Pos:     ref.Pos,
				Message: fmt.Sprintf("undefined symbol %q", ref.Symbol),
			}
		}
		image[ref.Address] |= addr & 0x00FFFFFF
	}
	return nil
}
