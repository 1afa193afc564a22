package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/trominoes/internal/config"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/pipeline"
	"github.com/matzehuels/trominoes/pkg/render"
)

// tileFlags holds the flags shared by tile and animate.
type tileFlags struct {
	size     int
	row      int
	col      int
	seed     uint64
	palette  string
	formats  string
	output   string
	cellSize float64
	noGrid   bool
	depth    int
	noCache  bool
}

func (f *tileFlags) registerBoard(fs *pflag.FlagSet) {
	fs.IntVarP(&f.size, "size", "n", pipeline.DefaultSize, "board side, a power of two in [2, 512]")
	fs.IntVar(&f.row, "row", pipeline.Random, "forbidden cell row (default random)")
	fs.IntVar(&f.col, "col", pipeline.Random, "forbidden cell column (default random)")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed for colours and the forbidden cell (default fresh)")
	fs.StringVarP(&f.palette, "palette", "p", pipeline.DefaultPalette, "colour palette: "+strings.Join(palette.Names(), ", "))
}

func (f *tileFlags) registerRender(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", pipeline.FormatSVG, "output format(s), comma-separated: "+strings.Join(pipeline.Formats(), ", "))
	fs.StringVarP(&f.output, "output", "o", "", "output directory, or file path for a single format")
	fs.Float64Var(&f.cellSize, "cell-size", 0, "cell size in pixels (default fits a 512px frame)")
	fs.BoolVar(&f.noGrid, "no-grid", false, "omit grid lines")
	fs.IntVar(&f.depth, "depth", pipeline.DefaultCallTreeDepth, "call tree depth for dot/calltree output (-1 keeps every call)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
}

// options builds pipeline options. Flags the user did not set fall back to
// the config file, then to built-in defaults.
func (f *tileFlags) options(fs *pflag.FlagSet, cfg config.TileConfig) pipeline.Options {
	opts := pipeline.Options{
		Size:          f.size,
		Row:           f.row,
		Col:           f.col,
		Seed:          f.seed,
		Palette:       f.palette,
		Formats:       pipeline.ParseFormats(f.formats),
		CellSize:      f.cellSize,
		NoGridLines:   f.noGrid,
		CallTreeDepth: f.depth,
	}
	if !fs.Changed("size") && cfg.Size != 0 {
		opts.Size = cfg.Size
	}
	if !fs.Changed("palette") && cfg.Palette != "" {
		opts.Palette = cfg.Palette
	}
	if !fs.Changed("format") && len(cfg.Formats) > 0 {
		opts.Formats = cfg.Formats
	}
	if !fs.Changed("cell-size") && cfg.CellSize != 0 {
		opts.CellSize = cfg.CellSize
	}
	if !fs.Changed("no-grid") {
		opts.NoGridLines = cfg.NoGridLines
	}
	if !fs.Changed("depth") && cfg.CallTreeDepth != 0 {
		opts.CallTreeDepth = cfg.CallTreeDepth
	}
	if !fs.Changed("output") {
		f.output = cfg.Output
	}
	return opts
}

// tileCommand creates the tile command.
func (c *CLI) tileCommand() *cobra.Command {
	var flags tileFlags

	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Tile a board and write it in one or more formats",
		Long: `Tile a 2^k x 2^k board that has one forbidden cell.

The forbidden cell is chosen at random unless --row and --col are given.
Every run reports its seed; passing it back with --seed reproduces the same
forbidden cell and colours.

Formats: svg, png, pdf (needs rsvg-convert), json, txt, dot and calltree
(the recursion as a Graphviz diagram).`,
		Example: `  trominoes tile --size 32
  trominoes tile --size 8 --row 3 --col 5 --format svg,json,txt -o out/
  trominoes tile --size 64 --palette vivid --format png --cell-size 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config.Tile)
			return c.runTile(cmd.Context(), opts, flags.output, flags.noCache)
		},
	}

	flags.registerBoard(cmd.Flags())
	flags.registerRender(cmd.Flags())
	return cmd
}

func (c *CLI) runTile(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if slices.Contains(opts.Formats, pipeline.FormatPDF) && !render.Available() {
		printWarning("rsvg-convert not found; pdf output will fail")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Tiling %d×%d board...", opts.Size, opts.Size))
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Tiled %dx%d board", opts.Size, opts.Size))

	paths, err := writeArtifacts(res, output)
	if err != nil {
		return err
	}

	printSummary(res)
	for _, p := range paths {
		printFile(p)
	}
	printNextStep("Replay the placement", fmt.Sprintf("%s animate --size %d --row %d --col %d --seed %d",
		appName, opts.Size, res.Tiling.Forbidden.Row, res.Tiling.Forbidden.Col, opts.Seed))
	return nil
}

// writeArtifacts writes every artifact and returns the paths in format
// order. A single format written to an output with an extension uses that
// path as is; otherwise output is a directory.
func writeArtifacts(res *pipeline.Result, output string) ([]string, error) {
	formats := res.Options.Formats
	if output == "" {
		output = "."
	}

	var paths []string
	for _, format := range formats {
		path := artifactPath(res, format, output)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(res *pipeline.Result, format, output string) string {
	if len(res.Options.Formats) == 1 && filepath.Ext(output) != "" {
		return output
	}
	return filepath.Join(output, artifactName(res, format))
}

// artifactName is the default file name, e.g. "trominoes-16-r3c5.svg".
func artifactName(res *pipeline.Result, format string) string {
	f := res.Tiling.Forbidden
	return fmt.Sprintf("%s-%d-r%dc%d.%s", appName, res.Options.Size, f.Row, f.Col, pipeline.FileExtension(format))
}
