// Package sink provides output format renderers for tromino tilings.
//
// # Overview
//
// A "sink" transforms a completed [tiling.Result] into a final output
// format. This package provides renderers for:
//
//   - SVG: vector image, one square per covered cell
//   - PNG: raster image drawn natively with fogleman/gg
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: every tromino with its cells, colour and recursion depth
//   - Text: one character per cell for terminals and golden tests
//
// # Coordinates
//
// Rows run top to bottom and columns left to right: the cell at (row, col)
// is drawn at x = col*cell, y = row*cell. The forbidden cell is drawn
// black.
//
// # Usage
//
//	svg := sink.RenderSVG(result, sink.WithCellSize(24))
//	png, err := sink.RenderPNG(result)
//	pdf, err := sink.RenderPDF(ctx, result)
//	js, err := sink.RenderJSON(result, sink.WithJSONSeed(seed))
//	txt := sink.RenderText(result)
//
// [ParseJSON] reads a JSON export back into a [tiling.Result] so a saved
// tiling can be re-rendered in another format.
//
// [tiling.Result]: github.com/matzehuels/trominoes/pkg/tiling.Result
package sink

import "github.com/matzehuels/trominoes/pkg/tiling"

// DefaultFrameSize is the default image width and height in pixels,
// matching the 512px drawing panel of the classic demo.
const DefaultFrameSize = 512

// minGridCell is the smallest cell size, in pixels, that still gets grid
// lines; below it lines would hide the fills.
const minGridCell = 4.0

func cellSizeFor(res tiling.Result, cell float64) float64 {
	if cell > 0 {
		return cell
	}
	if res.Size == 0 {
		return DefaultFrameSize
	}
	return float64(DefaultFrameSize) / float64(res.Size)
}
