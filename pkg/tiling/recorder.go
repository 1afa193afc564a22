package tiling

import (
	"image/color"
	"slices"
)

// Fill is one FillCell call.
type Fill struct {
	Cell
	Color color.RGBA
}

// RegionVisit is one recursive call seen by an Observer.
type RegionVisit struct {
	Region Region
	Depth  int
}

// Recorder is a Renderer and Observer that keeps everything it is told.
type Recorder struct {
	GridSize  int
	Fills     []Fill
	Trominoes []Placement
	Regions   []RegionVisit
	Presents  int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) DrawGrid(size int) { r.GridSize = size }

func (r *Recorder) FillCell(row, col int, c color.RGBA) {
	r.Fills = append(r.Fills, Fill{Cell: Cell{Row: row, Col: col}, Color: c})
}

func (r *Recorder) Present() { r.Presents++ }

func (r *Recorder) OnRegion(reg Region, depth int) {
	r.Regions = append(r.Regions, RegionVisit{Region: reg, Depth: depth})
}

func (r *Recorder) OnTromino(p Placement) { r.Trominoes = append(r.Trominoes, p) }

// Result snapshots the recording as a tiling of a board whose forbidden
// cell is forbidden.
func (r *Recorder) Result(forbidden Cell) Result {
	depth := 0
	for _, v := range r.Regions {
		depth = max(depth, v.Depth)
	}
	return Result{
		Size:      r.GridSize,
		Forbidden: forbidden,
		Trominoes: slices.Clone(r.Trominoes),
		Fills:     slices.Clone(r.Fills),
		MaxDepth:  depth,
	}
}
