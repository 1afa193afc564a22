package tiling

import "fmt"

// Cell identifies one board cell.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Region is an inclusive rectangle of rows [StartRow..EndRow] and columns
// [StartCol..EndCol]. Regions handed to the tiler are squares whose side is
// a power of two.
type Region struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// FullRegion returns the region covering a whole board of the given size.
func FullRegion(size int) Region {
	return Region{StartRow: 0, EndRow: size - 1, StartCol: 0, EndCol: size - 1}
}

// Rows returns the number of rows in the region.
func (r Region) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns in the region.
func (r Region) Cols() int { return r.EndCol - r.StartCol + 1 }

// Side returns the side length of a square region, or -1 if the region is
// not square.
func (r Region) Side() int {
	if r.Rows() != r.Cols() {
		return -1
	}
	return r.Rows()
}

// Contains reports whether the cell lies inside the region.
func (r Region) Contains(c Cell) bool {
	return c.Row >= r.StartRow && c.Row <= r.EndRow && c.Col >= r.StartCol && c.Col <= r.EndCol
}

func (r Region) String() string {
	return fmt.Sprintf("[%d..%d]x[%d..%d]", r.StartRow, r.EndRow, r.StartCol, r.EndCol)
}

// Quadrant names one of the four sub-regions of a split.
type Quadrant int

// Quadrants in canonical processing order.
const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

var quadrantNames = [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}

func (q Quadrant) String() string {
	if q < TopLeft || q > BottomRight {
		return fmt.Sprintf("Quadrant(%d)", int(q))
	}
	return quadrantNames[q]
}

// Split divides the region at its midpoint into four congruent quadrants,
// indexed by [Quadrant].
func (r Region) Split() [4]Region {
	midRow := (r.StartRow + r.EndRow) / 2
	midCol := (r.StartCol + r.EndCol) / 2
	return [4]Region{
		TopLeft:     {StartRow: r.StartRow, EndRow: midRow, StartCol: r.StartCol, EndCol: midCol},
		TopRight:    {StartRow: r.StartRow, EndRow: midRow, StartCol: midCol + 1, EndCol: r.EndCol},
		BottomLeft:  {StartRow: midRow + 1, EndRow: r.EndRow, StartCol: r.StartCol, EndCol: midCol},
		BottomRight: {StartRow: midRow + 1, EndRow: r.EndRow, StartCol: midCol + 1, EndCol: r.EndCol},
	}
}

// InnerCorner returns the cell of quadrant q that touches the centre of r.
func (r Region) InnerCorner(q Quadrant) Cell {
	midRow := (r.StartRow + r.EndRow) / 2
	midCol := (r.StartCol + r.EndCol) / 2
	switch q {
	case TopLeft:
		return Cell{Row: midRow, Col: midCol}
	case TopRight:
		return Cell{Row: midRow, Col: midCol + 1}
	case BottomLeft:
		return Cell{Row: midRow + 1, Col: midCol}
	default:
		return Cell{Row: midRow + 1, Col: midCol + 1}
	}
}
