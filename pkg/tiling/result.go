package tiling

import (
	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/errors"
)

// Result is a completed tiling of a whole board.
type Result struct {
	Size      int         // Board side length
	Forbidden Cell        // The one cell left uncovered
	Trominoes []Placement // Pieces in completion order
	Fills     []Fill      // Cell fills in the order they were drawn
	MaxDepth  int         // Deepest recursion level reached
}

// TrominoCount returns the number of trominoes that tile a deficient board
// of the given side: (size² - 1) / 3.
func TrominoCount(size int) int {
	return (size*size - 1) / 3
}

// Owners returns a size x size grid holding the ID of the tromino covering
// each cell, or -1 for cells no tromino covers.
func (r Result) Owners() [][]int {
	owners := make([][]int, r.Size)
	for row := range owners {
		owners[row] = make([]int, r.Size)
		for col := range owners[row] {
			owners[row][col] = -1
		}
	}
	for _, p := range r.Trominoes {
		for _, c := range p.Cells {
			if c.Row >= 0 && c.Row < r.Size && c.Col >= 0 && c.Col < r.Size {
				owners[c.Row][c.Col] = p.ID
			}
		}
	}
	return owners
}

// IsTromino reports whether cells are three distinct cells of one 2x2 block.
func IsTromino(cells [3]Cell) bool {
	if cells[0] == cells[1] || cells[0] == cells[2] || cells[1] == cells[2] {
		return false
	}
	minRow, maxRow := cells[0].Row, cells[0].Row
	minCol, maxCol := cells[0].Col, cells[0].Col
	for _, c := range cells[1:] {
		minRow, maxRow = min(minRow, c.Row), max(maxRow, c.Row)
		minCol, maxCol = min(minCol, c.Col), max(maxCol, c.Col)
	}
	return maxRow-minRow == 1 && maxCol-minCol == 1
}

// Verify checks that r is a valid tiling: every tromino is an L-shape, no
// cell is covered twice, the forbidden cell is uncovered and every other
// cell is covered. Violations are reported as INTERNAL_ERROR since a
// correct tiler never produces them.
func Verify(r Result) error {
	if err := board.ValidateSize(r.Size); err != nil {
		return err
	}
	if want := TrominoCount(r.Size); len(r.Trominoes) != want {
		return errors.New(errors.ErrCodeInternal, "tiling has %d trominoes, want %d", len(r.Trominoes), want)
	}
	if want := r.Size*r.Size - 1; len(r.Fills) != want {
		return errors.New(errors.ErrCodeInternal, "tiling has %d fills, want %d", len(r.Fills), want)
	}

	covered := make([]bool, r.Size*r.Size)
	for _, p := range r.Trominoes {
		if !IsTromino(p.Cells) {
			return errors.New(errors.ErrCodeInternal, "tromino %d %v is not an L-shape", p.ID, p.Cells)
		}
		for _, c := range p.Cells {
			if c.Row < 0 || c.Row >= r.Size || c.Col < 0 || c.Col >= r.Size {
				return errors.New(errors.ErrCodeInternal, "tromino %d covers off-board cell %v", p.ID, c)
			}
			if c == r.Forbidden {
				return errors.New(errors.ErrCodeInternal, "tromino %d covers the forbidden cell %v", p.ID, c)
			}
			idx := c.Row*r.Size + c.Col
			if covered[idx] {
				return errors.New(errors.ErrCodeInternal, "cell %v is covered twice", c)
			}
			covered[idx] = true
		}
	}
	for idx, ok := range covered {
		c := Cell{Row: idx / r.Size, Col: idx % r.Size}
		if !ok && c != r.Forbidden {
			return errors.New(errors.ErrCodeInternal, "cell %v is not covered", c)
		}
	}
	return nil
}
