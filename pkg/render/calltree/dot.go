package calltree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/render"
)

// Options configures call tree rendering.
type Options struct {
	// Colors fills each node with the colour of the tromino it placed.
	Colors bool
}

var quadrantLabels = [...]string{"TL", "TR", "BL", "BR"}

// ToDOT converts a call tree to Graphviz DOT source. A nil root yields an
// empty graph.
func ToDOT(root *Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph calls {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	root.Walk(func(n *Node) {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
		if n.Hidden > 0 {
			fmt.Fprintf(&buf, "  h%d [label=%q, style=\"rounded,dashed\"];\n", n.ID, fmt.Sprintf("%d more calls", n.Hidden))
			fmt.Fprintf(&buf, "  n%d -> h%d [style=dashed];\n", n.ID, n.ID)
		}
	})

	buf.WriteString("\n")
	root.Walk(func(n *Node) {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", n.ID, c.ID, quadrantLabels[c.Quadrant%len(quadrantLabels)])
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
	if opts.Colors && n.Piece != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", palette.Hex(n.Piece.Color)))
		if dark(n.Piece.Color.R, n.Piece.Color.G, n.Piece.Color.B) {
			attrs = append(attrs, "fontcolor=white")
		}
	}
	return attrs
}

func nodeLabel(n *Node) string {
	label := n.Region.String()
	if n.Piece == nil {
		return label
	}
	var cells []string
	for _, c := range n.Piece.Cells {
		cells = append(cells, c.String())
	}
	return fmt.Sprintf("%s\n%s #%d\n%s", label, n.Piece.Kind, n.Piece.ID, strings.Join(cells, " "))
}

// dark reports whether black text would be hard to read on the colour.
func dark(r, g, b uint8) bool {
	return 299*int(r)+587*int(g)+114*int(b) < 128*1000
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render call tree")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so browsers scale the diagram like the board images.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

