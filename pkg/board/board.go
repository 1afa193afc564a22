// Package board provides the occupancy grid that the tromino tiler fills.
//
// A [Board] is a square grid whose side is a power of two between [MinSize]
// and [MaxSize]. Each cell is either free or occupied; occupied cells are the
// forbidden cell of a deficient board, synthetic markers placed by the tiler
// during recursion, and cells already covered by a tromino.
//
// The board does not know which tromino covers a cell. Piece identity is
// carried by the placement events the tiler emits.
package board

import (
	"strings"

	"github.com/matzehuels/trominoes/pkg/errors"
)

const (
	// MinSize is the smallest supported board side.
	MinSize = 2

	// MaxSize is the largest supported board side.
	MaxSize = 512
)

// Board is a square occupancy grid. The zero value is not usable; create
// boards with [New]. A Board is not safe for concurrent mutation.
type Board struct {
	size     int
	occupied [][]bool
}

// ValidateSize returns an INVALID_SIZE error unless size is a power of two
// in [MinSize, MaxSize].
func ValidateSize(size int) error {
	if size < MinSize || size > MaxSize || size&(size-1) != 0 {
		return errors.New(errors.ErrCodeInvalidSize,
			"board size must be a power of 2 between %d and %d, got %d", MinSize, MaxSize, size)
	}
	return nil
}

// New creates an empty board with the given side length.
func New(size int) (*Board, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	occupied := make([][]bool, size)
	cells := make([]bool, size*size)
	for r := range occupied {
		occupied[r] = cells[r*size : (r+1)*size]
	}
	return &Board{size: size, occupied: occupied}, nil
}

// Size returns the number of rows (and columns).
func (b *Board) Size() int { return b.size }

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

func (b *Board) checkBounds(row, col int) error {
	if !b.InBounds(row, col) {
		return errors.New(errors.ErrCodeOutOfBounds,
			"cell (%d, %d) is outside the %dx%d board", row, col, b.size, b.size)
	}
	return nil
}

// MarkOccupied sets the cell occupied. Marking an occupied cell again is a no-op.
func (b *Board) MarkOccupied(row, col int) error {
	if err := b.checkBounds(row, col); err != nil {
		return err
	}
	b.occupied[row][col] = true
	return nil
}

// ClearOccupied unsets the cell.
func (b *Board) ClearOccupied(row, col int) error {
	if err := b.checkBounds(row, col); err != nil {
		return err
	}
	b.occupied[row][col] = false
	return nil
}

// IsOccupied reports whether the cell is occupied. Cells off the board are
// reported as free.
func (b *Board) IsOccupied(row, col int) bool {
	return b.InBounds(row, col) && b.occupied[row][col]
}

// RegionContainsOccupied reports whether any cell of the inclusive rectangle
// [startRow..endRow] x [startCol..endCol] is occupied. The rectangle is
// clipped to the board.
func (b *Board) RegionContainsOccupied(startRow, endRow, startCol, endCol int) bool {
	startRow, endRow, startCol, endCol = b.clip(startRow, endRow, startCol, endCol)
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			if b.occupied[r][c] {
				return true
			}
		}
	}
	return false
}

// CountOccupied returns the number of occupied cells in the inclusive
// rectangle, clipped to the board.
func (b *Board) CountOccupied(startRow, endRow, startCol, endCol int) int {
	startRow, endRow, startCol, endCol = b.clip(startRow, endRow, startCol, endCol)
	n := 0
	for r := startRow; r <= endRow; r++ {
		for c := startCol; c <= endCol; c++ {
			if b.occupied[r][c] {
				n++
			}
		}
	}
	return n
}

// Full reports whether every cell is occupied.
func (b *Board) Full() bool {
	return b.CountOccupied(0, b.size-1, 0, b.size-1) == b.size*b.size
}

// String renders the board one row per line, '#' for occupied cells and
// '.' for free ones.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(b.size * (b.size + 1))
	for _, row := range b.occupied {
		for _, occ := range row {
			if occ {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) clip(startRow, endRow, startCol, endCol int) (int, int, int, int) {
	return max(startRow, 0), min(endRow, b.size-1), max(startCol, 0), min(endCol, b.size-1)
}
