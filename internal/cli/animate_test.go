package cli

import (
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/trominoes/pkg/tiling"
)

func closedFills(fills ...tiling.Fill) <-chan tiling.Fill {
	ch := make(chan tiling.Fill, len(fills))
	for _, f := range fills {
		ch <- f
	}
	close(ch)
	return ch
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step advances the model by one tick and the fill it requests.
func step(t *testing.T, m animateModel) animateModel {
	t.Helper()
	next, cmd := m.Update(tickMsg{})
	m = next.(animateModel)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(animateModel)
}

func TestAnimateModelReplaysFills(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	fills := closedFills(
		tiling.Fill{Cell: tiling.Cell{Row: 0, Col: 1}, Color: red},
		tiling.Fill{Cell: tiling.Cell{Row: 1, Col: 0}, Color: red},
		tiling.Fill{Cell: tiling.Cell{Row: 1, Col: 1}, Color: red},
	)
	m := newAnimateModel(2, tiling.Cell{}, fills, 0)

	for i := 1; i <= 3; i++ {
		m = step(t, m)
		if m.filled != i {
			t.Fatalf("after %d steps filled = %d", i, m.filled)
		}
	}
	if m.cells[1][1] != "#ff0000" {
		t.Errorf("cell (1, 1) = %q", m.cells[1][1])
	}
	if m.done {
		t.Error("done before the channel closed")
	}

	m = step(t, m)
	if !m.done {
		t.Error("not done after the channel closed")
	}
	if view := m.View(); !strings.Contains(view, "3/3 cells · done") {
		t.Errorf("view status missing:\n%s", view)
	}
}

func TestAnimateModelPause(t *testing.T) {
	fills := closedFills(tiling.Fill{Cell: tiling.Cell{Row: 0, Col: 1}})
	m := newAnimateModel(2, tiling.Cell{}, fills, 0)

	next, _ := m.Update(key(" "))
	m = next.(animateModel)
	if !m.paused {
		t.Fatal("space should pause")
	}
	if _, cmd := m.Update(tickMsg{}); cmd != nil {
		t.Error("paused model should not request fills")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view does not show pause")
	}

	next, cmd := m.Update(key(" "))
	m = next.(animateModel)
	if m.paused || cmd == nil {
		t.Error("second space should resume with a tick")
	}
}

func TestAnimateModelQuit(t *testing.T) {
	m := newAnimateModel(2, tiling.Cell{}, closedFills(), 0)
	for _, k := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = key(k)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestAnimateModelViewMarksForbidden(t *testing.T) {
	m := newAnimateModel(2, tiling.Cell{Row: 1, Col: 0}, closedFills(), 0)
	view := m.View()
	if !strings.Contains(view, "><") {
		t.Errorf("forbidden cell not drawn:\n%s", view)
	}
	if !strings.Contains(view, "0/3 cells") {
		t.Errorf("status missing:\n%s", view)
	}
}

func TestFillRenderer(t *testing.T) {
	ch := make(chan tiling.Fill, 1)
	fillRenderer(ch).FillCell(2, 3, color.RGBA{B: 9, A: 255})
	f := <-ch
	if f.Cell != (tiling.Cell{Row: 2, Col: 3}) || f.Color.B != 9 {
		t.Errorf("fill = %+v", f)
	}
}

func TestAnimateRejectsLargeBoards(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "animate", "--size", "128"); err == nil {
		t.Error("want error for a board too large to draw")
	}
}
