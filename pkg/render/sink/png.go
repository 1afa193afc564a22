package sink

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/trominoes/pkg/tiling"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	cell float64
	grid bool
}

// WithPNGCellSize sets the side of one cell in pixels.
func WithPNGCellSize(px float64) PNGOption { return func(r *pngRenderer) { r.cell = px } }

// WithPNGGridLines toggles cell boundary lines (default on).
func WithPNGGridLines(on bool) PNGOption { return func(r *pngRenderer) { r.grid = on } }

// RenderPNG rasterizes the tiling. Unlike PDF it needs no external tools.
func RenderPNG(res tiling.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{grid: true}
	for _, opt := range opts {
		opt(&r)
	}
	cell := cellSizeFor(res, r.cell)
	frame := cell * float64(res.Size)
	px := max(1, int(frame+0.5))

	dc := gg.NewContext(px, px)
	dc.SetColor(color.White)
	dc.Clear()

	for _, f := range res.Fills {
		dc.SetColor(f.Color)
		dc.DrawRectangle(float64(f.Col)*cell, float64(f.Row)*cell, cell, cell)
		dc.Fill()
	}

	dc.SetColor(color.Black)
	dc.DrawRectangle(float64(res.Forbidden.Col)*cell, float64(res.Forbidden.Row)*cell, cell, cell)
	dc.Fill()

	if r.grid && cell >= minGridCell {
		dc.SetLineWidth(1)
		for i := 1; i < res.Size; i++ {
			p := float64(i) * cell
			dc.DrawLine(p, 0, p, frame)
			dc.DrawLine(0, p, frame, p)
		}
		dc.Stroke()
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
