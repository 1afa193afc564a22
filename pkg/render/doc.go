// Package render provides output rendering for tromino tilings.
//
// # Overview
//
// This package contains the rendering stage that turns a completed
// [tiling.Result] into files a person can look at. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Board renderers (in the [sink] subpackage)
//   - Recursion call-tree diagrams (in the [calltree] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The board PDF sink and the
// call-tree exports go through them.
//
//	svg := sink.RenderSVG(result, opts...)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Board Sinks
//
// The [sink] subpackage draws the board itself: SVG and native PNG images
// with one coloured square per covered cell, a JSON export of every
// tromino, and a plain-text rendering for terminals.
//
// # Call Trees
//
// The [calltree] subpackage records the divide-and-conquer recursion and
// renders it as a Graphviz diagram, one node per region.
//
//	tree := calltree.NewBuilder(3)
//	t := tiling.New(rec, colors, tiling.WithObservers(rec, tree))
//	svg, err := calltree.RenderSVG(calltree.ToDOT(tree.Root()))
//
// [tiling.Result]: github.com/matzehuels/trominoes/pkg/tiling.Result
// [sink]: github.com/matzehuels/trominoes/pkg/render/sink
// [calltree]: github.com/matzehuels/trominoes/pkg/render/calltree
package render
