package calltree

import "github.com/matzehuels/trominoes/pkg/tiling"

// Node is one recursive tiling call.
type Node struct {
	ID       int           // Visit order among kept nodes, root is 0
	Region   tiling.Region // Region the call tiled
	Depth    int           // Recursion depth, root is 0
	Quadrant int           // Position within the parent, -1 for the root
	Children []*Node
	Piece    *tiling.Placement // Tromino placed by this call, nil until it completes
	Hidden   int               // Calls below this node dropped by the depth limit
}

// Leaf reports whether the node is a 2x2 base block.
func (n *Node) Leaf() bool { return n.Region.Side() == 2 }

// Walk visits n and its descendants depth first, in quadrant order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

var _ tiling.Observer = (*Builder)(nil)

// Builder records the call tree of one tiling run.
type Builder struct {
	maxDepth int
	root     *Node
	stack    []*Node // stack[d] is the latest kept call at depth d
	nodes    int
}

// NewBuilder returns a builder keeping calls up to maxDepth. A negative
// maxDepth keeps every call.
func NewBuilder(maxDepth int) *Builder {
	return &Builder{maxDepth: maxDepth}
}

// OnRegion records the entry of a recursive call.
func (b *Builder) OnRegion(r tiling.Region, depth int) {
	if b.maxDepth >= 0 && depth > b.maxDepth {
		if b.maxDepth < len(b.stack) {
			b.stack[b.maxDepth].Hidden++
		}
		return
	}

	if depth > len(b.stack) {
		return
	}
	n := &Node{ID: b.nodes, Region: r, Depth: depth, Quadrant: -1}
	b.nodes++

	if depth == 0 {
		b.root = n
		b.stack = append(b.stack[:0], n)
		return
	}

	parent := b.stack[depth-1]
	n.Quadrant = len(parent.Children)
	parent.Children = append(parent.Children, n)
	b.stack = append(b.stack[:depth], n)
}

// OnTromino attaches a completed piece to the call that placed it.
func (b *Builder) OnTromino(p tiling.Placement) {
	if p.Depth >= len(b.stack) {
		return
	}
	b.stack[p.Depth].Piece = &p
}

// Root returns the root call, or nil before any call was recorded.
func (b *Builder) Root() *Node { return b.root }

// Nodes returns the number of kept nodes.
func (b *Builder) Nodes() int { return b.nodes }
