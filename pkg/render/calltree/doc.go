// Package calltree renders the recursion of a tiling run as a tree diagram.
//
// # Overview
//
// Each call of the divide-and-conquer tiler covers one square region. A
// [Builder] attached to a tiler as a [tiling.Observer] records those calls
// as a tree of [Node] values: the root is the whole board, inner nodes
// split into four quadrant children and leaves are 2x2 base blocks. Every
// node also records the tromino it placed, the connector for inner nodes
// and the base piece for leaves.
//
// Large boards produce deep trees (a 512x512 board makes 87381 calls), so
// the builder keeps only calls up to a maximum depth and counts the rest.
//
// # Usage
//
//	tree := calltree.NewBuilder(3)
//	t := tiling.New(rec, colors, tiling.WithObservers(rec, tree))
//	_ = t.TileBoard(b)
//
//	dot := calltree.ToDOT(tree.Root(), calltree.Options{Colors: true})
//	svg, err := calltree.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
//
// [tiling.Observer]: github.com/matzehuels/trominoes/pkg/tiling.Observer
package calltree
