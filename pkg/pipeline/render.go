package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/render/calltree"
	"github.com/matzehuels/trominoes/pkg/render/sink"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// Render generates output artifacts in the requested formats. tree is the
// call tree recorded during tiling; it is required only for the dot and
// calltree formats.
func Render(ctx context.Context, res tiling.Result, tree *calltree.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, res, tree, opts, format)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, res tiling.Result, tree *calltree.Node, opts Options, format string) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(res, buildSVGOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(res, buildPNGOptions(opts)...)
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, res, sink.WithPDFSVGOptions(buildSVGOptions(opts)...))
	case FormatJSON:
		data, err = sink.RenderJSON(res,
			sink.WithJSONSeed(opts.Seed),
			sink.WithJSONPalette(opts.Palette),
			sink.WithJSONIndent())
	case FormatText:
		data = sink.RenderText(res)
	case FormatDOT, FormatCallTree:
		if tree == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "format %s needs the call tree of a live tiling run", format)
		}
		dot := calltree.ToDOT(tree, calltree.Options{Colors: true})
		if format == FormatDOT {
			data = []byte(dot)
		} else {
			data, err = calltree.RenderSVG(ctx, dot)
		}
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithGridLines(!opts.NoGridLines)}
	if opts.CellSize > 0 {
		svgOpts = append(svgOpts, sink.WithCellSize(opts.CellSize))
	}
	return svgOpts
}

func buildPNGOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithPNGGridLines(!opts.NoGridLines)}
	if opts.CellSize > 0 {
		pngOpts = append(pngOpts, sink.WithPNGCellSize(opts.CellSize))
	}
	return pngOpts
}
