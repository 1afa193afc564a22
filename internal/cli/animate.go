package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trominoes/internal/config"
	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/pipeline"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

const (
	defaultAnimateDelay = 40 * time.Millisecond

	// maxAnimateSize keeps the board on an ordinary terminal: two columns
	// per cell.
	maxAnimateSize = 64
)

var (
	styleForbidden = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(colorRed)
	styleEmpty     = lipgloss.NewStyle().Foreground(colorDim)
)

// animateCommand creates the animate command, which replays the placement
// order of a tiling in the terminal.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		flags tileFlags
		delay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Replay a tiling cell by cell in the terminal",
		Long: `Replay a tiling in the terminal in the order the cells are filled.

Space pauses and resumes, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), config.TileConfig{})
			if !cmd.Flags().Changed("size") && c.Config.Tile.Size != 0 {
				opts.Size = min(c.Config.Tile.Size, maxAnimateSize)
			}
			if !cmd.Flags().Changed("palette") && c.Config.Tile.Palette != "" {
				opts.Palette = c.Config.Tile.Palette
			}
			return c.runAnimate(cmd.Context(), opts, delay)
		},
	}

	flags.registerBoard(cmd.Flags())
	cmd.Flags().DurationVar(&delay, "delay", defaultAnimateDelay, "pause between filled cells")
	return cmd
}

func (c *CLI) runAnimate(ctx context.Context, opts pipeline.Options, delay time.Duration) error {
	opts.Formats = nil
	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.Size > maxAnimateSize {
		return errors.New(errors.ErrCodeInvalidSize, "animate supports boards up to %d, got %d", maxAnimateSize, opts.Size)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	fills := make(chan tiling.Fill, opts.Size*opts.Size)
	tileErr := make(chan error, 1)
	go func() {
		defer close(fills)
		_, err := runner.Tile(ctx, opts, fillRenderer(fills))
		tileErr <- err
	}()

	m := newAnimateModel(opts.Size, opts.Forbidden(), fills, delay)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	cancel()
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if err := <-tileErr; err != nil {
		return err
	}
	if fm, ok := final.(animateModel); ok && fm.done {
		printSuccess("Placed %d trominoes (seed %d)", fm.filled/3, opts.Seed)
	}
	return nil
}

// fillRenderer forwards fills to a channel sized for the whole board.
type fillRenderer chan<- tiling.Fill

func (fillRenderer) DrawGrid(int) {}
func (fillRenderer) Present()     {}

func (r fillRenderer) FillCell(row, col int, c color.RGBA) {
	r <- tiling.Fill{Cell: tiling.Cell{Row: row, Col: col}, Color: c}
}

// =============================================================================
// animateModel - bubbletea replay of the fill order
// =============================================================================

type (
	tickMsg struct{}
	fillMsg struct {
		fill tiling.Fill
		ok   bool
	}
)

type animateModel struct {
	size      int
	forbidden tiling.Cell
	cells     [][]string // hex colour per cell, "" while empty
	fills     <-chan tiling.Fill
	delay     time.Duration
	filled    int
	paused    bool
	done      bool
}

func newAnimateModel(size int, forbidden tiling.Cell, fills <-chan tiling.Fill, delay time.Duration) animateModel {
	cells := make([][]string, size)
	for i := range cells {
		cells[i] = make([]string, size)
	}
	return animateModel{
		size:      size,
		forbidden: forbidden,
		cells:     cells,
		fills:     fills,
		delay:     delay,
	}
}

func (m animateModel) Init() tea.Cmd {
	return m.tick()
}

func (m animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.done {
				return m, nil
			}
			m.paused = !m.paused
			if !m.paused {
				return m, m.tick()
			}
		}
	case tickMsg:
		if m.paused || m.done {
			return m, nil
		}
		return m, nextFill(m.fills)
	case fillMsg:
		if !msg.ok {
			m.done = true
			return m, nil
		}
		c := msg.fill.Cell
		m.cells[c.Row][c.Col] = palette.Hex(msg.fill.Color)
		m.filled++
		return m, m.tick()
	}
	return m, nil
}

func (m animateModel) tick() tea.Cmd {
	if m.delay <= 0 {
		return func() tea.Msg { return tickMsg{} }
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return tickMsg{} })
}

func nextFill(fills <-chan tiling.Fill) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-fills
		return fillMsg{fill: f, ok: ok}
	}
}

func (m animateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%d × %d board", m.size, m.size)))
	b.WriteString("\n\n")
	for r := 0; r < m.size; r++ {
		for c := 0; c < m.size; c++ {
			switch hex := m.cells[r][c]; {
			case m.forbidden.Row == r && m.forbidden.Col == c:
				b.WriteString(styleForbidden.Render("><"))
			case hex == "":
				b.WriteString(styleEmpty.Render("· "))
			default:
				b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	total := m.size*m.size - 1
	status := fmt.Sprintf("%d/%d cells", m.filled, total)
	switch {
	case m.done:
		status += " · done"
	case m.paused:
		status += " · paused"
	}
	b.WriteString(StyleDim.Render(status + "   space pause  q quit"))
	b.WriteString("\n")
	return b.String()
}

var _ tiling.Renderer = fillRenderer(nil)
