package filt

import (
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// Node is a uniform tagged AST node. The tag fixes arity, integer payload,
// and flatten behavior through the opcode table; symbols additionally carry
// a name, an optional defining node, and an optional predefined tag.
type Node struct {
	kind  NodeType
	kids  []*Node
	value stream.IntType

	// Symbol state.
	name       string
	def        *Node
	predefined PredefinedSymbol

	// Defining symbol of a Param node, resolved at install time.
	definingSym *Node
}

func (n *Node) Type() NodeType { return n.kind }
func (n *Node) NumKids() int   { return len(n.kids) }
func (n *Node) Kids() []*Node  { return n.kids }

func (n *Node) GetKid(i int) *Node {
	if i < 0 || i >= len(n.kids) {
		return nil
	}
	return n.kids[i]
}

func (n *Node) Append(kids ...*Node) *Node {
	n.kids = append(n.kids, kids...)
	return n
}

// Value returns the integer payload of an integer-carrying node.
func (n *Node) Value() stream.IntType { return n.value }

// Format is the wire format of the node's integer payload.
func (n *Node) Format() stream.IntTypeFormat { return Desc(n.kind).Format }

// IsIntegerNode reports whether the tag carries an integer payload.
func (n *Node) IsIntegerNode() bool { return Desc(n.kind).HasValue }

// IsDefaultValue reports whether the payload equals the format's zero
// element, which suppresses the value on the wire.
func (n *Node) IsDefaultValue() bool {
	return n.value == Desc(n.kind).Format.ZeroValue()
}

// DefinesIntTypeFormat reports whether the literal can appear in a file
// header: only fixed-width constants whose value fits the width qualify.
func (n *Node) DefinesIntTypeFormat() bool {
	switch n.kind {
	case OpU8Const, OpU32Const, OpU64Const:
		return Desc(n.kind).Format.Fits(n.value)
	}
	return false
}

// Name returns the symbol name; empty for non-symbols.
func (n *Node) Name() string { return n.name }

// Predefined returns the predefined-symbol tag of a symbol node.
func (n *Node) Predefined() PredefinedSymbol { return n.predefined }

// DefineDefinition returns the define node currently bound to a symbol.
func (n *Node) DefineDefinition() *Node { return n.def }

func (n *Node) SetDefineDefinition(def *Node) { n.def = def }

// DefiningSymbol returns the symbol of the define that declares this Param.
func (n *Node) DefiningSymbol() *Node { return n.definingSym }

// SwitchCase finds the Case kid of a Switch whose selector constant equals
// v. Kid 0 is the selector expression and kid 1 the no-match body.
func (n *Node) SwitchCase(v stream.IntType) *Node {
	for _, kid := range n.kids[min(2, len(n.kids)):] {
		if kid.kind == OpCase && kid.GetKid(0) != nil && kid.GetKid(0).value == v {
			return kid
		}
	}
	return nil
}

// MapCase finds the Case kid of a Map matching v. Kid 0 is the key
// expression.
func (n *Node) MapCase(v stream.IntType) *Node {
	for _, kid := range n.kids[min(1, len(n.kids)):] {
		if kid.kind == OpCase && kid.GetKid(0) != nil && kid.GetKid(0).value == v {
			return kid
		}
	}
	return nil
}

// OpcodeCase finds the Case kid of an Opcode selector matching v.
func (n *Node) OpcodeCase(v stream.IntType) *Node {
	for _, kid := range n.kids[min(1, len(n.kids)):] {
		if kid.kind == OpCase && kid.GetKid(0) != nil && kid.GetKid(0).value == v {
			return kid
		}
	}
	return nil
}

// NodesEquivalent compares two ASTs structurally. Symbols match by name;
// everything else matches by tag, payload, and kids.
func NodesEquivalent(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.value != b.value || len(a.kids) != len(b.kids) {
		return false
	}
	if a.kind == OpSymbol && a.name != b.name {
		return false
	}
	for i := range a.kids {
		if !NodesEquivalent(a.kids[i], b.kids[i]) {
			return false
		}
	}
	return true
}
