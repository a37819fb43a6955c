// Package intcomp implements the abbreviation engine: usage counting over
// integer streams, cutoff selection, optional Huffman code assignment, the
// longest-prefix abbreviation writer, and the code generator that emits the
// matching decoder algorithm.
package intcomp

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

// CountNodeKind discriminates the trie node variants.
type CountNodeKind int

const (
	KindRoot CountNodeKind = iota
	KindBlockEnter
	KindBlockExit
	KindDefaultSingle
	KindDefaultMultiple
	KindAlign
	KindInt
)

func (k CountNodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBlockEnter:
		return "block.enter"
	case KindBlockExit:
		return "block.exit"
	case KindDefaultSingle:
		return "default.single"
	case KindDefaultMultiple:
		return "default.multiple"
	case KindAlign:
		return "align"
	case KindInt:
		return "int"
	}
	return fmt.Sprintf("CountNodeKind(%d)", int(k))
}

const noAbbrevIndex = -1

// CountNode is one node of the count trie. Int nodes form the trie proper:
// the value path from the root to a node is the integer sequence the node
// stands for. The synthetic kinds (defaults, blocks, align) hang off the
// root and participate in abbreviation selection alongside the paths.
type CountNode struct {
	kind     CountNodeKind
	count    uint64
	uses     uint64
	abbrev   int
	selected bool

	value   stream.IntType
	pathLen int
	parent  *CountNode
	kids    map[stream.IntType]*CountNode

	// Root-only singletons.
	blockEnter      *CountNode
	blockExit       *CountNode
	defaultSingle   *CountNode
	defaultMultiple *CountNode
	align           *CountNode
}

// NewCountRoot builds an empty trie with its synthetic singletons attached.
func NewCountRoot() *CountNode {
	root := &CountNode{kind: KindRoot, abbrev: noAbbrevIndex, kids: map[stream.IntType]*CountNode{}}
	synth := func(k CountNodeKind) *CountNode {
		return &CountNode{kind: k, abbrev: noAbbrevIndex, parent: root}
	}
	root.blockEnter = synth(KindBlockEnter)
	root.blockExit = synth(KindBlockExit)
	root.defaultSingle = synth(KindDefaultSingle)
	root.defaultMultiple = synth(KindDefaultMultiple)
	root.align = synth(KindAlign)
	return root
}

func (n *CountNode) Kind() CountNodeKind   { return n.kind }
func (n *CountNode) Count() uint64         { return n.count }
func (n *CountNode) Uses() uint64          { return n.uses }
func (n *CountNode) Value() stream.IntType { return n.value }
func (n *CountNode) Parent() *CountNode    { return n.parent }
func (n *CountNode) PathLength() int       { return n.pathLen }

func (n *CountNode) BlockEnter() *CountNode      { return n.blockEnter }
func (n *CountNode) BlockExit() *CountNode       { return n.blockExit }
func (n *CountNode) DefaultSingle() *CountNode   { return n.defaultSingle }
func (n *CountNode) DefaultMultiple() *CountNode { return n.defaultMultiple }
func (n *CountNode) Align() *CountNode           { return n.align }

func (n *CountNode) Increment() { n.count++ }

// Weight ranks candidates for abbreviation: abbreviating a single value
// saves nothing beyond the opcode switch, longer matches save more per
// occurrence.
func (n *CountNode) Weight() uint64 {
	if n.kind == KindInt {
		if n.pathLen <= 1 {
			return 0
		}
		return n.count * uint64(n.pathLen-1)
	}
	return n.count
}

func (n *CountNode) HasAbbrevIndex() bool { return n.abbrev != noAbbrevIndex }
func (n *CountNode) AbbrevIndex() int     { return n.abbrev }

func (n *CountNode) setAbbrevIndex(i int) { n.abbrev = i }

// Path returns the integer sequence this Int node represents, root first.
func (n *CountNode) Path() []stream.IntType {
	if n.kind != KindInt {
		return nil
	}
	path := make([]stream.IntType, n.pathLen)
	for nd := n; nd != nil && nd.kind == KindInt; nd = nd.parent {
		path[nd.pathLen-1] = nd.value
	}
	return path
}

// Kid returns the Int child for value v, if present.
func (n *CountNode) Kid(v stream.IntType) *CountNode {
	if n.kids == nil {
		return nil
	}
	return n.kids[v]
}

// GetOrCreateKid extends the trie by one value.
func (n *CountNode) GetOrCreateKid(v stream.IntType) *CountNode {
	if kid := n.Kid(v); kid != nil {
		return kid
	}
	kid := &CountNode{
		kind:    KindInt,
		abbrev:  noAbbrevIndex,
		value:   v,
		pathLen: n.pathLen + 1,
		parent:  n,
		kids:    map[stream.IntType]*CountNode{},
	}
	if n.kids == nil {
		n.kids = map[stream.IntType]*CountNode{}
	}
	n.kids[v] = kid
	return kid
}

// sortedKids returns children in ascending value order for deterministic
// walks.
func (n *CountNode) sortedKids() []*CountNode {
	kids := make([]*CountNode, 0, len(n.kids))
	for _, kid := range n.kids {
		kids = append(kids, kid)
	}
	sort.Slice(kids, func(a, b int) bool { return kids[a].value < kids[b].value })
	return kids
}

// WalkInt visits every Int node depth-first in lexicographic path order.
func (n *CountNode) WalkInt(visit func(*CountNode)) {
	for _, kid := range n.sortedKids() {
		visit(kid)
		kid.WalkInt(visit)
	}
}

func (n *CountNode) describe() string {
	switch n.kind {
	case KindInt:
		return fmt.Sprintf("%v count=%d weight=%d", n.Path(), n.count, n.Weight())
	default:
		return fmt.Sprintf("%s count=%d", n.kind, n.count)
	}
}

// ToTree renders the trie for trace output.
func (n *CountNode) ToTree() treeprint.Tree {
	tree := treeprint.New()
	n.addTree(tree)
	return tree
}

func (n *CountNode) addTree(tree treeprint.Tree) {
	label := n.describe()
	if n.HasAbbrevIndex() {
		label = fmt.Sprintf("%s abbrev=%d", label, n.abbrev)
	}
	if len(n.kids) == 0 {
		tree.AddNode(label)
		return
	}
	branch := tree.AddBranch(label)
	for _, kid := range n.sortedKids() {
		kid.addTree(branch)
	}
}
