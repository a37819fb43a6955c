package filt

import (
	"fmt"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

// PredefinedSymbol tags the closed set of symbols the interpreter gives
// structural meaning to.
type PredefinedSymbol int

const (
	NoPredefinedSymbol PredefinedSymbol = iota
	PredefinedFile
	PredefinedBlockEnter
	PredefinedBlockExit
	PredefinedBlockEnterWriteonly
	PredefinedBlockExitWriteonly
	PredefinedAlign

	NumPredefinedSymbols = int(PredefinedAlign) + 1
)

var predefinedNames = [NumPredefinedSymbols]string{
	NoPredefinedSymbol:            "",
	PredefinedFile:                "file",
	PredefinedBlockEnter:          "block.enter",
	PredefinedBlockExit:           "block.exit",
	PredefinedBlockEnterWriteonly: "block.enter.writeonly",
	PredefinedBlockExitWriteonly:  "block.exit.writeonly",
	PredefinedAlign:               "align",
}

func (p PredefinedSymbol) String() string {
	if p <= 0 || int(p) >= NumPredefinedSymbols {
		return "NO_SUCH_PREDEFINED"
	}
	return predefinedNames[p]
}

// SymbolTable is the process-local arena of AST nodes for one run. Symbols
// are unique per name; the installed root algorithm anchors the table. An
// enclosing scope, when set, resolves names not defined locally.
type SymbolTable struct {
	symbols   map[string]*Node
	root      *Node
	enclosing *SymbolTable
}

func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{symbols: make(map[string]*Node)}
	for p := PredefinedFile; int(p) < NumPredefinedSymbols; p++ {
		sym := t.GetOrCreateSymbol(predefinedNames[p])
		sym.predefined = p
	}
	return t
}

// Create allocates a node with fixed kids.
func (t *SymbolTable) Create(kind NodeType, kids ...*Node) *Node {
	return &Node{kind: kind, kids: kids}
}

// CreateInt allocates an integer-carrying node.
func (t *SymbolTable) CreateInt(kind NodeType, value stream.IntType) *Node {
	return &Node{kind: kind, value: value}
}

// GetOrCreateSymbol looks a symbol up by name with upsert semantics.
func (t *SymbolTable) GetOrCreateSymbol(name string) *Node {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	if t.enclosing != nil {
		if sym := t.enclosing.GetSymbol(name); sym != nil {
			return sym
		}
	}
	sym := &Node{kind: OpSymbol, name: name}
	t.symbols[name] = sym
	return sym
}

// GetSymbol returns the symbol named name, or nil.
func (t *SymbolTable) GetSymbol(name string) *Node {
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	if t.enclosing != nil {
		return t.enclosing.GetSymbol(name)
	}
	return nil
}

// GetPredefined returns the symbol for a predefined tag.
func (t *SymbolTable) GetPredefined(p PredefinedSymbol) *Node {
	return t.GetOrCreateSymbol(p.String())
}

func (t *SymbolTable) SetEnclosingScope(enc *SymbolTable) { t.enclosing = enc }

// InstalledRoot returns the anchored algorithm, or nil before Install.
func (t *SymbolTable) InstalledRoot() *Node { return t.root }

// Install anchors root as the table's algorithm: defines bind their
// symbols, renames rebind, undefines clear, and Param nodes resolve their
// defining symbol.
func (t *SymbolTable) Install(root *Node) error {
	t.root = root
	return t.installNode(root, nil)
}

func (t *SymbolTable) installNode(nd *Node, defineSym *Node) error {
	if nd == nil {
		return nil
	}
	switch nd.kind {
	case OpDefine:
		sym := nd.GetKid(0)
		if sym == nil || sym.kind != OpSymbol {
			return fmt.Errorf("filt: define without symbol name")
		}
		sym.def = nd
		defineSym = sym
	case OpRename:
		from, to := nd.GetKid(0), nd.GetKid(1)
		if from == nil || to == nil || from.kind != OpSymbol || to.kind != OpSymbol {
			return fmt.Errorf("filt: rename expects two symbols")
		}
		to.def = from.def
		return nil
	case OpUndefine:
		if sym := nd.GetKid(0); sym != nil && sym.kind == OpSymbol {
			sym.def = nil
		}
		return nil
	case OpLiteralDef:
		sym := nd.GetKid(0)
		if sym == nil || sym.kind != OpSymbol {
			return fmt.Errorf("filt: literal define without symbol name")
		}
		sym.def = nd
	case OpParam:
		nd.definingSym = defineSym
	}
	for _, kid := range nd.kids {
		if err := t.installNode(kid, defineSym); err != nil {
			return err
		}
	}
	return nil
}

// SectionSymbolTable assigns each symbol referenced in a section a dense
// small index. It is cleared at section exit.
type SectionSymbolTable struct {
	symtab  *SymbolTable
	indices map[*Node]uint32
	vector  []*Node
}

func NewSectionSymbolTable(symtab *SymbolTable) *SectionSymbolTable {
	return &SectionSymbolTable{
		symtab:  symtab,
		indices: make(map[*Node]uint32),
	}
}

// InstallSection indexes every symbol referenced under nd, in order of
// first appearance.
func (s *SectionSymbolTable) InstallSection(nd *Node) {
	if nd == nil {
		return
	}
	if nd.kind == OpSymbol {
		s.AddSymbol(nd)
	}
	for _, kid := range nd.kids {
		s.InstallSection(kid)
	}
}

func (s *SectionSymbolTable) AddSymbol(sym *Node) uint32 {
	if idx, ok := s.indices[sym]; ok {
		return idx
	}
	idx := uint32(len(s.vector))
	s.indices[sym] = idx
	s.vector = append(s.vector, sym)
	return idx
}

// AddName indexes the symbol named name, creating it if needed.
func (s *SectionSymbolTable) AddName(name string) *Node {
	sym := s.symtab.GetOrCreateSymbol(name)
	s.AddSymbol(sym)
	return sym
}

// SymbolIndex returns the dense index of sym within the section.
func (s *SectionSymbolTable) SymbolIndex(sym *Node) (uint32, bool) {
	idx, ok := s.indices[sym]
	return idx, ok
}

// Lookup returns the symbol at dense index idx.
func (s *SectionSymbolTable) Lookup(idx uint32) *Node {
	if int(idx) >= len(s.vector) {
		return nil
	}
	return s.vector[idx]
}

func (s *SectionSymbolTable) Vector() []*Node { return s.vector }
func (s *SectionSymbolTable) Size() int       { return len(s.vector) }

func (s *SectionSymbolTable) Clear() {
	s.indices = make(map[*Node]uint32)
	s.vector = s.vector[:0]
}
