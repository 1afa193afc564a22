package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cell       float64
	grid       bool
	background string
}

// WithCellSize sets the side of one cell in pixels. By default the board
// fills a [DefaultFrameSize] frame.
func WithCellSize(px float64) SVGOption { return func(r *svgRenderer) { r.cell = px } }

// WithGridLines toggles cell boundary lines (default on).
func WithGridLines(on bool) SVGOption { return func(r *svgRenderer) { r.grid = on } }

// WithBackground sets the colour of uncovered cells (default white).
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// RenderSVG draws the tiling as an SVG document.
func RenderSVG(res tiling.Result, opts ...SVGOption) []byte {
	r := svgRenderer{grid: true, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	cell := cellSizeFor(res, r.cell)
	frame := cell * float64(res.Size)
	owners := res.Owners()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame, frame, frame, frame)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		frame, frame, r.background)

	buf.WriteString(`  <g class="trominoes">` + "\n")
	for _, f := range res.Fills {
		fmt.Fprintf(&buf, `    <rect class="cell" data-tromino="%d" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			owners[f.Row][f.Col], float64(f.Col)*cell, float64(f.Row)*cell, cell, cell, palette.Hex(f.Color))
	}
	buf.WriteString("  </g>\n")

	fc := res.Forbidden
	fmt.Fprintf(&buf, `  <rect class="forbidden" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#000000"/>`+"\n",
		float64(fc.Col)*cell, float64(fc.Row)*cell, cell, cell)

	if r.grid && cell >= minGridCell {
		renderGridLines(&buf, res.Size, cell, frame)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGridLines(buf *bytes.Buffer, size int, cell, frame float64) {
	buf.WriteString(`  <g class="grid" stroke="#000000" stroke-width="1">` + "\n")
	for i := 1; i < size; i++ {
		p := float64(i) * cell
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>`+"\n", p, p, frame)
		fmt.Fprintf(buf, `    <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", p, frame, p)
	}
	buf.WriteString("  </g>\n")
}
