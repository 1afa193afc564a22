package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/pipeline"
	"github.com/matzehuels/trominoes/pkg/render/sink"
)

// renderCommand creates the render command, which re-renders a tiling saved
// with --format json.
func (c *CLI) renderCommand() *cobra.Command {
	var flags tileFlags

	cmd := &cobra.Command{
		Use:   "render [tiling.json]",
		Short: "Render a saved tiling in other formats",
		Long: `Render a tiling saved as JSON by 'tile --format json'.

The file is checked before rendering: every cell but the forbidden one must
be covered by exactly one tromino. Colours are taken from the file, so the
output matches the original run. Call tree formats (dot, calltree) need the
recursion itself and are not available here; use 'tile' with the seed
recorded in the file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd.Flags(), c.Config.Tile)
			return runRender(cmd.Context(), args[0], opts, flags.output)
		},
	}

	flags.registerRender(cmd.Flags())
	return cmd
}

func runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	res, doc, err := sink.ParseJSON(data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	logger.Infof("Loaded %dx%d tiling with %d trominoes", res.Size, res.Size, len(res.Trominoes))

	opts.Size = res.Size
	opts.Row, opts.Col = res.Forbidden.Row, res.Forbidden.Col
	opts.Seed = doc.Seed
	if doc.Palette != "" {
		opts.Palette = doc.Palette
	}
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if output == "" || output == "." {
		output = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		output = strings.TrimSuffix(output, filepath.Ext(output))
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	for _, format := range opts.Formats {
		artifact, err := pipeline.RenderFormat(ctx, res, nil, opts, format)
		if errors.Is(err, errors.ErrCodeUnsupported) {
			printWarning("%s needs the recursion; run tile --seed %d instead", format, doc.Seed)
			continue
		}
		if err != nil {
			return err
		}

		path := output + "." + pipeline.FileExtension(format)
		if err := os.WriteFile(path, artifact, 0o644); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(artifact))
		printFile(path)
	}
	return nil
}
