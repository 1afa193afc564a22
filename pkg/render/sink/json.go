package sink

import (
	"encoding/json"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// JSONOption configures JSON export.
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	seed    uint64
	palette string
	indent  bool
}

// WithJSONSeed records the seed the tiling was produced with.
func WithJSONSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONPalette records the palette name the tiling was coloured with.
func WithJSONPalette(name string) JSONOption { return func(r *jsonRenderer) { r.palette = name } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// Document is the JSON export format.
type Document struct {
	Size      int         `json:"size"`
	Forbidden tiling.Cell `json:"forbidden"`
	Count     int         `json:"tromino_count"`
	MaxDepth  int         `json:"max_depth"`
	Seed      uint64      `json:"seed,omitempty"`
	Palette   string      `json:"palette,omitempty"`
	Trominoes []Tromino   `json:"trominoes"`
}

// Tromino is one piece in a [Document].
type Tromino struct {
	ID    int            `json:"id"`
	Kind  string         `json:"kind"`
	Depth int            `json:"depth"`
	Color string         `json:"color"`
	Cells [3]tiling.Cell `json:"cells"`
}

// RenderJSON exports the tiling as a [Document].
func RenderJSON(res tiling.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	doc := Document{
		Size:      res.Size,
		Forbidden: res.Forbidden,
		Count:     len(res.Trominoes),
		MaxDepth:  res.MaxDepth,
		Seed:      r.seed,
		Palette:   r.palette,
		Trominoes: make([]Tromino, len(res.Trominoes)),
	}
	for i, p := range res.Trominoes {
		doc.Trominoes[i] = Tromino{
			ID:    p.ID,
			Kind:  p.Kind.String(),
			Depth: p.Depth,
			Color: palette.Hex(p.Color),
			Cells: p.Cells,
		}
	}
	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// ParseJSON reads a [Document] back into a tiling result. Fills are
// rebuilt piece by piece, so their order follows tromino IDs rather than
// the original drawing order. The result is verified before it is
// returned.
func ParseJSON(data []byte) (tiling.Result, *Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return tiling.Result{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tiling JSON")
	}

	res := tiling.Result{
		Size:      doc.Size,
		Forbidden: doc.Forbidden,
		MaxDepth:  doc.MaxDepth,
		Trominoes: make([]tiling.Placement, 0, len(doc.Trominoes)),
		Fills:     make([]tiling.Fill, 0, 3*len(doc.Trominoes)),
	}
	for _, t := range doc.Trominoes {
		kind, err := parseKind(t.Kind)
		if err != nil {
			return tiling.Result{}, nil, err
		}
		c, err := parseColor(t.Color)
		if err != nil {
			return tiling.Result{}, nil, err
		}
		res.Trominoes = append(res.Trominoes, tiling.Placement{
			ID:    t.ID,
			Kind:  kind,
			Depth: t.Depth,
			Color: c,
			Cells: t.Cells,
		})
		for _, cell := range t.Cells {
			res.Fills = append(res.Fills, tiling.Fill{Cell: cell, Color: c})
		}
	}
	if err := tiling.Verify(res); err != nil {
		return tiling.Result{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "tiling JSON is not a valid tiling")
	}
	return res, &doc, nil
}

func parseKind(s string) (tiling.Kind, error) {
	switch s {
	case tiling.KindBase.String():
		return tiling.KindBase, nil
	case tiling.KindConnector.String():
		return tiling.KindConnector, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown tromino kind %q", s)
}

func parseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "tromino colour %q", hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
