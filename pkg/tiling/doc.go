// Package tiling implements divide-and-conquer tromino tiling of deficient
// boards.
//
// # Overview
//
// A deficient board is a 2^k x 2^k grid with exactly one forbidden cell.
// [Tiler.Tile] covers every other cell of a square region with L-shaped
// trominoes:
//
//   - A 2x2 region with one occupied cell is finished by a single tromino
//     covering the other three cells.
//   - A larger region is split into quadrants. Exactly one quadrant already
//     holds an occupied cell. The other three each get a synthetic marker on
//     the corner cell nearest the centre, so every quadrant becomes a smaller
//     deficient board. After each recursive call the marker is replaced by a
//     real cell of the connector tromino that straddles the centre.
//
// Quadrants are always processed top-left, top-right, bottom-left,
// bottom-right, so a run is reproducible given the same colour source.
//
// # Rendering
//
// The tiler talks to a [Renderer] with three calls: DrawGrid once before
// tiling, FillCell once per covered cell, and Present to flush pending draws.
// [Recorder] captures those calls for tests and for the sinks in
// pkg/render/sink; [NopRenderer] discards them.
//
// Colours come from a [ColorSource]. Each tromino draws exactly one colour,
// so a fixed-sequence source makes a run fully deterministic.
//
// # Observers
//
// An [Observer] additionally sees every recursive call ([Observer.OnRegion])
// and every completed piece ([Observer.OnTromino]). The call-tree renderer
// in pkg/render/calltree is built on this.
//
// # Errors
//
// Region validation failures are returned as coded errors from pkg/errors:
// OUT_OF_BOUNDS when the region leaves the board, PRECONDITION_VIOLATION when
// it is not a power-of-two square with exactly one occupied cell. Valid input
// always tiles completely.
//
// # Usage
//
//	b, _ := board.New(16)
//	_ = b.MarkOccupied(3, 7)
//
//	rec := tiling.NewRecorder()
//	t := tiling.New(rec, palette.Random(42), tiling.WithObservers(rec))
//	if err := t.TileBoard(b); err != nil {
//	    return err
//	}
//	res := rec.Result(tiling.Cell{Row: 3, Col: 7})
//	err := tiling.Verify(res)
package tiling
