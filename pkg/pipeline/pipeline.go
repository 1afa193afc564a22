// Package pipeline provides the tile → render pipeline shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// A run has two stages:
//
//  1. Tile: resolve the forbidden cell, build the board and run the
//     divide-and-conquer tiler, recording every fill and placement
//  2. Render: turn the recorded tiling into the requested output formats
//     (SVG, PNG, PDF, JSON, text, call tree DOT and SVG)
//
// Tiling is always recomputed; it is linear in the number of cells. Rendered
// artifacts are cached by a content hash of the tiling plus the render
// options, so re-running the same seed skips rasterization and Graphviz.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Size:    32,
//	    Row:     pipeline.Random,
//	    Col:     pipeline.Random,
//	    Formats: []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Stream the algorithm into a custom renderer instead:
//
//	res, err := runner.Tile(ctx, opts, myRenderer)
package pipeline

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/cache"
	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSize is the default board side length.
	DefaultSize = 16

	// DefaultCallTreeDepth limits call tree diagrams to the root and three
	// levels below it, which stays readable for any board size.
	DefaultCallTreeDepth = 3

	// Random as a row or column asks for a uniformly random coordinate.
	Random = -1
)

// DefaultPalette is the default colour palette.
const DefaultPalette = palette.DefaultName

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatText     = "txt"
	FormatDOT      = "dot"
	FormatCallTree = "calltree"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatText:     true,
	FormatDOT:      true,
	FormatCallTree: true,
}

var contentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatPNG:      "image/png",
	FormatPDF:      "application/pdf",
	FormatJSON:     "application/json",
	FormatText:     "text/plain; charset=utf-8",
	FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	FormatCallTree: "image/svg+xml",
}

// Formats returns the supported formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileExtension returns the file name suffix used when writing a format.
func FileExtension(format string) string {
	if format == FormatCallTree {
		return "calltree.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a tiling run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Tile options
	Size    int    `json:"size"`
	Row     int    `json:"row"`            // Forbidden cell row; negative picks at random
	Col     int    `json:"col"`            // Forbidden cell column; negative picks at random
	Seed    uint64 `json:"seed,omitempty"` // Zero draws a fresh seed
	Palette string `json:"palette,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	CellSize      float64  `json:"cell_size,omitempty"` // Zero fits the board into sink.DefaultFrameSize
	NoGridLines   bool     `json:"no_grid_lines,omitempty"`
	CallTreeDepth int      `json:"call_tree_depth,omitempty"` // Negative keeps every call

	// Runtime options (not serialized)
	PresentEachFill bool        `json:"-"`
	Logger          *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Options are the resolved options: seed and forbidden cell are set.
	Options Options

	// Tiling is the verified tiling.
	Tiling tiling.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Trominoes  int
	MaxDepth   int
	TileTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit    bool // Whether all artifacts came from cache
	ArtifactHits int  // Number of artifacts served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults, draws the seed and forbidden cell
// when they are unset and validates the result.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.resolveForbidden()
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. A zero seed is replaced by a fresh
// random one so the run can be reproduced from the reported seed.
func (o *Options) SetDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Seed == 0 {
		o.Seed = freshSeed()
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.CallTreeDepth == 0 {
		o.CallTreeDepth = DefaultCallTreeDepth
	}
}

// Validate checks the options without changing them.
func (o *Options) Validate() error {
	if err := board.ValidateSize(o.Size); err != nil {
		return err
	}
	if o.Row >= o.Size || o.Col >= o.Size {
		return errors.New(errors.ErrCodeOutOfBounds, "forbidden cell (%d, %d) is outside the %dx%d board",
			o.Row, o.Col, o.Size, o.Size)
	}
	if err := palette.Validate(o.Palette); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.CellSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size must not be negative, got %g", o.CellSize)
	}
	return nil
}

// Forbidden returns the forbidden cell. It is only meaningful after
// ValidateAndSetDefaults.
func (o *Options) Forbidden() tiling.Cell {
	return tiling.Cell{Row: o.Row, Col: o.Col}
}

// NeedsCallTree reports whether any requested format draws the call tree.
func (o *Options) NeedsCallTree() bool {
	return slices.Contains(o.Formats, FormatDOT) || slices.Contains(o.Formats, FormatCallTree)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Only options that change a format's bytes are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.CellSize = o.CellSize
		k.GridLines = !o.NoGridLines
	case FormatJSON:
		k.Seed = o.Seed
		k.Palette = o.Palette
	case FormatDOT, FormatCallTree:
		k.CallTreeDepth = o.CallTreeDepth
	}
	return k
}

// resolveForbidden draws random coordinates from a stream seeded by Seed
// and kept separate from the palette's stream.
func (o *Options) resolveForbidden() {
	if o.Row >= 0 && o.Col >= 0 {
		return
	}
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	if o.Row < 0 {
		o.Row = rng.IntN(o.Size)
	}
	if o.Col < 0 {
		o.Col = rng.IntN(o.Size)
	}
}

func freshSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
