package filt

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

const abbrevDepth = 2

// NodeString renders a node as an abbreviated s-expression, the form used in
// error reports and traces.
func NodeString(nd *Node) string {
	var sb strings.Builder
	writeSexp(&sb, nd, abbrevDepth)
	return sb.String()
}

func writeSexp(sb *strings.Builder, nd *Node, depth int) {
	if nd == nil {
		sb.WriteString("()")
		return
	}
	switch {
	case nd.Type() == OpSymbol:
		fmt.Fprintf(sb, "'%s'", nd.Name())
		return
	case nd.IsIntegerNode():
		fmt.Fprintf(sb, "(%s %d)", nd.Type(), nd.Value())
		return
	}
	fmt.Fprintf(sb, "(%s", nd.Type())
	if depth <= 0 && nd.NumKids() > 0 {
		sb.WriteString(" ...")
	} else {
		for _, kid := range nd.Kids() {
			sb.WriteByte(' ')
			writeSexp(sb, kid, depth-1)
		}
	}
	sb.WriteByte(')')
}

// ToTree renders the full AST as a printable tree.
func ToTree(nd *Node) treeprint.Tree {
	tree := treeprint.New()
	addTreeNode(tree, nd)
	return tree
}

func addTreeNode(tree treeprint.Tree, nd *Node) {
	if nd == nil {
		tree.AddNode("()")
		return
	}
	label := nd.Type().String()
	switch {
	case nd.Type() == OpSymbol:
		label = fmt.Sprintf("'%s'", nd.Name())
	case nd.IsIntegerNode():
		label = fmt.Sprintf("%s %d", nd.Type(), nd.Value())
	}
	if nd.NumKids() == 0 {
		tree.AddNode(label)
		return
	}
	branch := tree.AddBranch(label)
	for _, kid := range nd.Kids() {
		addTreeNode(branch, kid)
	}
}
