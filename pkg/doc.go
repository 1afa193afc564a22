// Package pkg provides the core libraries for trominoes, a solver and
// renderer for the deficient-board tromino tiling puzzle.
//
// # Overview
//
// Any 2^k x 2^k board with one cell removed can be covered by L-shaped
// pieces of three cells. The pkg directory is organized into these areas:
//
//  1. [board] - The occupancy grid and its region predicates
//  2. [tiling] - The divide-and-conquer tiler, recorder and verifier
//  3. [palette] - Colour sources, one colour per tromino
//  4. [render] - Output sinks (SVG, PNG, PDF, JSON, text) and call trees
//  5. [pipeline] - Orchestration (tile → render) with caching
//  6. [cache], [observability], [errors], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	pipeline.Options (size, forbidden cell, seed, palette)
//	         ↓
//	    [board] package (mark the forbidden cell)
//	         ↓
//	    [tiling] package (recursive placement into a Recorder)
//	         ↓
//	    [render/sink] and [render/calltree] packages
//	         ↓
//	    SVG/PNG/PDF/JSON/TXT/DOT output
//
// # Quick Start
//
//	b, _ := board.New(16)
//	_ = b.MarkOccupied(5, 9)
//
//	rec := tiling.NewRecorder()
//	t := tiling.New(rec, palette.Vivid(42), tiling.WithObservers(rec))
//	if err := t.TileBoard(b); err != nil {
//	    log.Fatal(err)
//	}
//
//	res := rec.Result(tiling.Cell{Row: 5, Col: 9})
//	svg := sink.RenderSVG(res)
//
// Or let the pipeline do all of it, including caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Size: 16, Row: 5, Col: 9, Formats: []string{"svg", "png"},
//	})
package pkg
