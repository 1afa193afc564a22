package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/render"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

func tiled(t *testing.T, size, row, col int) tiling.Result {
	t.Helper()
	b, err := board.New(size)
	if err != nil {
		t.Fatalf("board.New(%d): %v", size, err)
	}
	if err := b.MarkOccupied(row, col); err != nil {
		t.Fatalf("MarkOccupied: %v", err)
	}
	rec := tiling.NewRecorder()
	tl := tiling.New(rec, palette.Fixed(red, green, blue), tiling.WithObservers(rec))
	if err := tl.TileBoard(b); err != nil {
		t.Fatalf("TileBoard: %v", err)
	}
	return rec.Result(tiling.Cell{Row: row, Col: col})
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name           string
		size, row, col int
		want           string
	}{
		{"2x2 corner", 2, 0, 0, "#A\nAA\n"},
		{"2x2 bottom right", 2, 1, 1, "AA\nA#\n"},
		{"4x4 corner", 4, 0, 0, "#ABB\nAAEB\nCEED\nCCDD\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(RenderText(tiled(t, tt.size, tt.row, tt.col)))
			if got != tt.want {
				t.Errorf("RenderText:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderTextUncovered(t *testing.T) {
	res := tiling.Result{Size: 2, Forbidden: tiling.Cell{Row: 0, Col: 0}}
	if got, want := string(RenderText(res)), "#.\n..\n"; got != want {
		t.Errorf("RenderText = %q, want %q", got, want)
	}
}

func TestRenderSVG(t *testing.T) {
	res := tiled(t, 4, 2, 1)
	svg := string(RenderSVG(res, WithCellSize(10)))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatalf("output does not start with <svg: %.40q", svg)
	}
	if got := strings.Count(svg, `class="cell"`); got != 15 {
		t.Errorf("cell rects = %d, want 15", got)
	}
	if !strings.Contains(svg, `class="forbidden" x="10.0" y="20.0"`) {
		t.Error("forbidden cell not drawn at x=col, y=row")
	}
	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Error("frame size should be size*cell")
	}
	if got := strings.Count(svg, "<line"); got != 6 {
		t.Errorf("grid lines = %d, want 6", got)
	}
	if !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("palette colour missing")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	res := tiled(t, 4, 0, 0)

	if svg := string(RenderSVG(res, WithGridLines(false))); strings.Contains(svg, "<line") {
		t.Error("WithGridLines(false) still draws lines")
	}
	if svg := string(RenderSVG(res, WithBackground("#123456"))); !strings.Contains(svg, `fill="#123456"`) {
		t.Error("background colour missing")
	}
	// 512 / 4 = 128px cells by default.
	if svg := string(RenderSVG(res)); !strings.Contains(svg, `width="512" height="512"`) {
		t.Error("default frame should be 512px")
	}
	// Cells under the grid threshold get no lines.
	if svg := string(RenderSVG(res, WithCellSize(2))); strings.Contains(svg, "<line") {
		t.Error("tiny cells should not get grid lines")
	}
}

func TestRenderPNG(t *testing.T) {
	res := tiled(t, 4, 3, 0)
	data, err := RenderPNG(res, WithPNGCellSize(8), WithPNGGridLines(false))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 32 {
		t.Errorf("width = %d, want 32", got)
	}

	// Centre of the forbidden cell (row 3, col 0) is black.
	r, g, b, _ := img.At(4, 28).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("forbidden pixel = (%d, %d, %d), want black", r>>8, g>>8, b>>8)
	}
	// Centre of cell (0, 0) carries its tromino's colour.
	owner := res.Trominoes[res.Owners()[0][0]].Color
	r, g, b, _ = img.At(4, 4).RGBA()
	if uint8(r>>8) != owner.R || uint8(g>>8) != owner.G || uint8(b>>8) != owner.B {
		t.Errorf("cell (0, 0) pixel = (%d, %d, %d), want %v", r>>8, g>>8, b>>8, owner)
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(context.Background(), tiled(t, 4, 0, 0))
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF: %.8q", data)
	}
}

func TestRenderJSON(t *testing.T) {
	res := tiled(t, 4, 0, 0)
	data, err := RenderJSON(res, WithJSONSeed(7), WithJSONPalette("vivid"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Size != 4 || doc.Count != 5 || doc.Seed != 7 || doc.Palette != "vivid" {
		t.Errorf("doc = %+v", doc)
	}
	if doc.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", doc.MaxDepth)
	}
	last := doc.Trominoes[4]
	if last.Kind != "connector" || last.Color != "#ff0000" {
		t.Errorf("last tromino = %+v, want red connector", last)
	}
	if !strings.Contains(string(data), `"forbidden":{"row":0,"col":0}`) {
		t.Errorf("forbidden cell missing from %s", data)
	}
}

func TestParseJSON(t *testing.T) {
	res := tiled(t, 8, 5, 2)
	data, err := RenderJSON(res, WithJSONIndent())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	got, doc, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if doc.Count != tiling.TrominoCount(8) {
		t.Errorf("Count = %d", doc.Count)
	}
	if !bytes.Equal(RenderText(got), RenderText(res)) {
		t.Errorf("round trip changed the board:\n%s\nwant:\n%s", RenderText(got), RenderText(res))
	}
	for i, p := range got.Trominoes {
		if p != res.Trominoes[i] {
			t.Errorf("tromino %d = %+v, want %+v", i, p, res.Trominoes[i])
		}
	}
}

func TestParseJSONErrors(t *testing.T) {
	valid, err := RenderJSON(tiled(t, 2, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "{"},
		{"bad kind", strings.Replace(string(valid), `"base"`, `"corner"`, 1)},
		{"bad colour", strings.Replace(string(valid), `"#ff0000"`, `"red"`, 1)},
		{"overlap", strings.Replace(string(valid), `{"row":1,"col":1}`, `{"row":0,"col":1}`, 1)},
		{"bad size", strings.Replace(string(valid), `"size":2`, `"size":3`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseJSON([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ParseJSON error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
