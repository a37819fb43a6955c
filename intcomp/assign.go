package intcomp

import (
	"sort"

	"github.com/seanpm2001/decompressor-prototype/log"
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// pruneSmallUsageCounts drops every Int node seen fewer than cutoff times.
// Children of dropped nodes become unreachable with them.
func pruneSmallUsageCounts(root *CountNode, cutoff uint64) {
	var prune func(n *CountNode)
	prune = func(n *CountNode) {
		for v, kid := range n.kids {
			if kid.count < cutoff {
				delete(n.kids, v)
				continue
			}
			prune(kid)
		}
	}
	prune(root)
}

func pathLess(a, b []stream.IntType) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// AssignAbbreviations runs cutoff selection over the collected trie and
// returns the selected set in index order. Indices are dense from 0;
// synthetic nodes that the stream needs (sized by a dry match pass over s)
// come first so their small indices stay stable across runs.
func AssignAbbreviations(root *CountNode, s *stream.IntStream, flags CompressionFlags) []*CountNode {
	pruneSmallUsageCounts(root, flags.CountCutoff)

	var candidates []*CountNode
	root.WalkInt(func(nd *CountNode) {
		if w := nd.Weight(); w > 0 && w >= flags.WeightCutoff {
			candidates = append(candidates, nd)
		}
	})
	sort.SliceStable(candidates, func(a, b int) bool {
		wa, wb := candidates[a].Weight(), candidates[b].Weight()
		if wa != wb {
			return wa > wb
		}
		return pathLess(candidates[a].Path(), candidates[b].Path())
	})
	if flags.MaxAssignments > 0 && len(candidates) > flags.MaxAssignments {
		candidates = candidates[:flags.MaxAssignments]
	}
	for _, nd := range candidates {
		nd.selected = true
	}

	// Dry match pass: counts how often each selection fires and how many
	// default runs the matcher will need.
	dry := NewAbbrevAssignWriter(root, &countingSink{root: root}, flags.LengthLimit)
	if err := dry.WriteStream(s); err != nil {
		log.Error("dry abbreviation pass failed", "err", err)
	}

	var assignments []*CountNode
	next := 0
	for _, nd := range []*CountNode{
		root.DefaultSingle(), root.DefaultMultiple(),
		root.BlockEnter(), root.BlockExit(), root.Align(),
	} {
		if nd.uses == 0 {
			continue
		}
		nd.count = nd.uses
		nd.selected = true
		nd.setAbbrevIndex(next)
		next++
		assignments = append(assignments, nd)
	}
	for _, nd := range candidates {
		nd.setAbbrevIndex(next)
		next++
		assignments = append(assignments, nd)
	}
	log.Debug("abbreviations assigned",
		"count", len(assignments), "candidates", len(candidates))
	return assignments
}
