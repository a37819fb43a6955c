package intcomp

import (
	"github.com/seanpm2001/decompressor-prototype/stream"
)

// UsageCollector appends each integer read from the decoded stream to a
// window of recent values and, after each append, walks the trie along
// every window suffix ending at the new value, incrementing the visited
// nodes. Paths are bounded by the length limit; block and align events
// increment their dedicated nodes and cut the window, so no path spans a
// block boundary.
type UsageCollector struct {
	root        *CountNode
	lengthLimit int
	active      []*CountNode
	scratch     []*CountNode
}

func NewUsageCollector(root *CountNode, lengthLimit int) *UsageCollector {
	return &UsageCollector{root: root, lengthLimit: lengthLimit}
}

func (c *UsageCollector) AddValue(v stream.IntType) {
	c.scratch = c.scratch[:0]
	nd := c.root.GetOrCreateKid(v)
	nd.Increment()
	c.scratch = append(c.scratch, nd)
	for _, a := range c.active {
		if a.PathLength() >= c.lengthLimit {
			continue
		}
		kid := a.GetOrCreateKid(v)
		kid.Increment()
		c.scratch = append(c.scratch, kid)
	}
	c.active, c.scratch = c.scratch, c.active
}

func (c *UsageCollector) AddBlockEnter() {
	c.root.BlockEnter().Increment()
	c.active = c.active[:0]
}

func (c *UsageCollector) AddBlockExit() {
	c.root.BlockExit().Increment()
	c.active = c.active[:0]
}

func (c *UsageCollector) AddAlign() {
	c.root.Align().Increment()
	c.active = c.active[:0]
}

// CollectUsage runs the collect phase over a frozen integer stream.
func CollectUsage(s *stream.IntStream, root *CountNode, lengthLimit int) {
	c := NewUsageCollector(root, lengthLimit)
	for _, v := range s.Values() {
		switch v.Kind {
		case stream.KindValue:
			c.AddValue(v.Value)
		case stream.KindBlockEnter:
			c.AddBlockEnter()
		case stream.KindBlockExit:
			c.AddBlockExit()
		case stream.KindAlign:
			c.AddAlign()
		}
	}
}
