package tiling

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
)

// Renderer receives drawing calls from the tiler. Implementations must not
// block for long; the tiler calls them synchronously.
type Renderer interface {
	// DrawGrid draws the size x size cell boundaries, once, before tiling.
	DrawGrid(size int)
	// FillCell colours one covered cell. It is called once per cell.
	FillCell(row, col int, c color.RGBA)
	// Present flushes pending draw operations.
	Present()
}

// ColorSource supplies one colour per tromino.
type ColorSource interface {
	Next() color.RGBA
}

// Observer is notified of the recursion structure and of completed pieces.
type Observer interface {
	// OnRegion is called on entry to every recursive call, root at depth 0.
	OnRegion(r Region, depth int)
	// OnTromino is called once all three cells of a tromino are filled.
	OnTromino(p Placement)
}

// Kind distinguishes pieces placed by the base case from connector pieces
// assembled at a split.
type Kind int

const (
	KindBase Kind = iota
	KindConnector
)

func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindConnector:
		return "connector"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Placement is one tromino.
type Placement struct {
	ID    int        // Sequential, in completion order
	Kind  Kind       // Base-case or connector piece
	Depth int        // Recursion depth of the call that placed it
	Color color.RGBA // Colour shared by the three cells
	Cells [3]Cell    // Covered cells, in fill order
}

// Option configures a Tiler.
type Option func(*Tiler)

// WithObservers registers observers notified in the given order.
func WithObservers(obs ...Observer) Option {
	return func(t *Tiler) { t.observers = append(t.observers, obs...) }
}

// WithPresentEachFill makes the tiler call Present after every FillCell,
// which animates incremental progress on interactive surfaces. By default
// TileBoard presents once at the end.
func WithPresentEachFill(on bool) Option {
	return func(t *Tiler) { t.presentEach = on }
}

// Tiler places trominoes on a board. A Tiler is not safe for concurrent use.
type Tiler struct {
	renderer    Renderer
	colors      ColorSource
	observers   []Observer
	presentEach bool
	placed      int
}

// New creates a tiler drawing to r with colours from colors. A nil renderer
// discards drawing calls; a nil colour source falls back to a seeded random
// palette.
func New(r Renderer, colors ColorSource, opts ...Option) *Tiler {
	if r == nil {
		r = NopRenderer{}
	}
	if colors == nil {
		colors = palette.Random(1)
	}
	t := &Tiler{renderer: r, colors: colors}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Placed returns the number of trominoes placed so far.
func (t *Tiler) Placed() int { return t.placed }

// TileBoard draws the grid, tiles the whole board and presents the result.
// The board must contain exactly one occupied cell.
func (t *Tiler) TileBoard(b *board.Board) error {
	t.renderer.DrawGrid(b.Size())
	err := t.Tile(b, FullRegion(b.Size()))
	if !t.presentEach {
		t.renderer.Present()
	}
	return err
}

// Tile covers every free cell of r with trominoes. r must lie on the board,
// be a square with a power-of-two side of at least 2, and contain exactly
// one occupied cell.
func (t *Tiler) Tile(b *board.Board, r Region) error {
	if !b.InBounds(r.StartRow, r.StartCol) || !b.InBounds(r.EndRow, r.EndCol) {
		return errors.New(errors.ErrCodeOutOfBounds, "region %v is outside the %dx%d board", r, b.Size(), b.Size())
	}
	side := r.Side()
	if side < 2 || side&(side-1) != 0 {
		return errors.New(errors.ErrCodePrecondition, "region %v is not a power-of-two square", r)
	}
	if n := b.CountOccupied(r.StartRow, r.EndRow, r.StartCol, r.EndCol); n != 1 {
		return errors.New(errors.ErrCodePrecondition, "region %v has %d occupied cells, want exactly 1", r, n)
	}
	return t.tile(b, r, 0)
}

func (t *Tiler) tile(b *board.Board, r Region, depth int) error {
	for _, o := range t.observers {
		o.OnRegion(r, depth)
	}
	if r.Side() == 2 {
		return t.tileBase(b, r, depth)
	}

	quads := r.Split()
	deficient := -1
	for q, sub := range quads {
		if !b.RegionContainsOccupied(sub.StartRow, sub.EndRow, sub.StartCol, sub.EndCol) {
			continue
		}
		if deficient >= 0 {
			return errors.New(errors.ErrCodePrecondition,
				"region %v has occupied cells in the %v and %v quadrants", r, Quadrant(deficient), Quadrant(q))
		}
		deficient = q
	}
	if deficient < 0 {
		return errors.New(errors.ErrCodePrecondition, "region %v has no occupied cell", r)
	}

	connector := Placement{Kind: KindConnector, Depth: depth, Color: t.colors.Next()}
	n := 0
	for q, sub := range quads {
		if q == deficient {
			if err := t.tile(b, sub, depth+1); err != nil {
				return err
			}
			continue
		}
		corner := r.InnerCorner(Quadrant(q))
		if err := t.tileAround(b, sub, corner, depth+1); err != nil {
			return err
		}
		// The proxy is gone; the cell now belongs to the connector.
		if err := b.MarkOccupied(corner.Row, corner.Col); err != nil {
			return err
		}
		t.fill(corner, connector.Color)
		connector.Cells[n] = corner
		n++
	}
	t.emit(&connector)
	return nil
}

// tileAround tiles sub with proxy temporarily marked occupied. The marker is
// cleared on every return path.
func (t *Tiler) tileAround(b *board.Board, sub Region, proxy Cell, depth int) (err error) {
	if err := b.MarkOccupied(proxy.Row, proxy.Col); err != nil {
		return err
	}
	defer func() {
		if clearErr := b.ClearOccupied(proxy.Row, proxy.Col); err == nil {
			err = clearErr
		}
	}()
	return t.tile(b, sub, depth)
}

func (t *Tiler) tileBase(b *board.Board, r Region, depth int) error {
	if n := b.CountOccupied(r.StartRow, r.EndRow, r.StartCol, r.EndCol); n != 1 {
		return errors.New(errors.ErrCodePrecondition, "block %v has %d occupied cells, want exactly 1", r, n)
	}

	p := Placement{Kind: KindBase, Depth: depth, Color: t.colors.Next()}
	n := 0
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			if b.IsOccupied(row, col) {
				continue
			}
			if err := b.MarkOccupied(row, col); err != nil {
				return err
			}
			c := Cell{Row: row, Col: col}
			t.fill(c, p.Color)
			p.Cells[n] = c
			n++
		}
	}
	t.emit(&p)
	return nil
}

func (t *Tiler) fill(c Cell, col color.RGBA) {
	t.renderer.FillCell(c.Row, c.Col, col)
	if t.presentEach {
		t.renderer.Present()
	}
}

func (t *Tiler) emit(p *Placement) {
	p.ID = t.placed
	t.placed++
	for _, o := range t.observers {
		o.OnTromino(*p)
	}
}

// NopRenderer discards all drawing calls.
type NopRenderer struct{}

func (NopRenderer) DrawGrid(int)                  {}
func (NopRenderer) FillCell(int, int, color.RGBA) {}
func (NopRenderer) Present()                      {}
