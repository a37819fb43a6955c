package intcomp

import (
	"sort"

	"github.com/seanpm2001/decompressor-prototype/stream"
)

// HuffmanNode is one node of the canonical prefix-code tree built over the
// assigned abbreviation indices: selectors pair the two lowest-weight
// subtrees until one tree remains; leaves carry the symbol.
type HuffmanNode struct {
	symbol *CountNode // nil on selectors
	weight uint64
	kids   [2]*HuffmanNode
}

func (n *HuffmanNode) IsLeaf() bool       { return n.symbol != nil }
func (n *HuffmanNode) Symbol() *CountNode { return n.symbol }
func (n *HuffmanNode) Kid(i int) *HuffmanNode {
	if i < 0 || i > 1 {
		return nil
	}
	return n.kids[i]
}

// BuildHuffmanEncoding constructs the prefix code for the assignments,
// weighting each symbol by how often the matcher fires it. Ties break on
// abbreviation index so the tree is stable across runs. A single-symbol
// alphabet degenerates to one selector over twin leaves, keeping codes at
// least one bit wide.
func BuildHuffmanEncoding(assignments []*CountNode) *HuffmanNode {
	if len(assignments) == 0 {
		return nil
	}
	nodes := make([]*HuffmanNode, 0, len(assignments))
	for _, nd := range assignments {
		nodes = append(nodes, &HuffmanNode{symbol: nd, weight: nd.Uses()})
	}
	if len(nodes) == 1 {
		leaf := nodes[0]
		return &HuffmanNode{weight: leaf.weight * 2, kids: [2]*HuffmanNode{leaf, leaf}}
	}
	order := func(a, b *HuffmanNode) bool {
		if a.weight != b.weight {
			return a.weight < b.weight
		}
		return minIndex(a) < minIndex(b)
	}
	for len(nodes) > 1 {
		sort.SliceStable(nodes, func(a, b int) bool { return order(nodes[a], nodes[b]) })
		pair := &HuffmanNode{
			weight: nodes[0].weight + nodes[1].weight,
			kids:   [2]*HuffmanNode{nodes[0], nodes[1]},
		}
		nodes = append([]*HuffmanNode{pair}, nodes[2:]...)
	}
	return nodes[0]
}

func minIndex(n *HuffmanNode) int {
	if n.IsLeaf() {
		return n.symbol.AbbrevIndex()
	}
	a, b := minIndex(n.kids[0]), minIndex(n.kids[1])
	if a < b {
		return a
	}
	return b
}

// CodeTable flattens the tree into index → code assignments, MSB-first.
func (n *HuffmanNode) CodeTable() map[int]huffCode {
	table := make(map[int]huffCode)
	var walk func(nd *HuffmanNode, bits uint64, depth uint32)
	walk = func(nd *HuffmanNode, bits uint64, depth uint32) {
		if nd.IsLeaf() {
			if _, seen := table[nd.symbol.AbbrevIndex()]; !seen {
				table[nd.symbol.AbbrevIndex()] = huffCode{bits: stream.IntType(bits), n: depth}
			}
			return
		}
		walk(nd.kids[0], bits<<1, depth+1)
		walk(nd.kids[1], bits<<1|1, depth+1)
	}
	if n.IsLeaf() {
		table[n.symbol.AbbrevIndex()] = huffCode{bits: 0, n: 1}
		return table
	}
	walk(n, 0, 0)
	return table
}
