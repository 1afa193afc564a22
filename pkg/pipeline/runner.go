package pipeline

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/cache"
	"github.com/matzehuels/trominoes/pkg/observability"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/render/calltree"
	"github.com/matzehuels/trominoes/pkg/render/sink"
	"github.com/matzehuels/trominoes/pkg/tiling"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; every run gets its own board and tiler.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete tile → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Options: opts,
	}
	logger := r.Logger.With("run", result.RunID)

	// Stage 1: Tile
	var tree *calltree.Builder
	var observers []tiling.Observer
	if opts.NeedsCallTree() {
		tree = calltree.NewBuilder(opts.CallTreeDepth)
		observers = append(observers, tree)
	}

	tileStart := time.Now()
	res, err := r.Tile(ctx, opts, nil, observers...)
	if err != nil {
		return nil, fmt.Errorf("tile: %w", err)
	}
	result.Tiling = res
	result.Stats.TileTime = time.Since(tileStart)
	result.Stats.Trominoes = len(res.Trominoes)
	result.Stats.MaxDepth = res.MaxDepth

	logger.Info("tiled board",
		"size", opts.Size,
		"forbidden", res.Forbidden,
		"trominoes", len(res.Trominoes),
		"duration", result.Stats.TileTime)

	// Stage 2: Render
	var root *calltree.Node
	if tree != nil {
		root = tree.Root()
	}
	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, res, root, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.ArtifactHits = hits
	result.CacheInfo.RenderHit = hits == len(opts.Formats)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Tile runs only the tiling algorithm. Drawing calls go to renderer, when
// it is not nil, as they happen; observers see every recursive call and
// completed piece. The recorded tiling is verified before it is returned.
func (r *Runner) Tile(ctx context.Context, opts Options, renderer tiling.Renderer, observers ...tiling.Observer) (tiling.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return tiling.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return tiling.Result{}, err
	}

	hooks := observability.Tiling()
	hooks.OnTileStart(ctx, opts.Size, opts.Row, opts.Col)
	start := time.Now()

	res, err := tileBoard(opts, renderer, observers)
	hooks.OnTileComplete(ctx, opts.Size, len(res.Trominoes), time.Since(start), err)
	if err != nil {
		return tiling.Result{}, err
	}
	opts.Logger.Debug("tiling verified", "size", res.Size, "max_depth", res.MaxDepth)
	return res, nil
}

func tileBoard(opts Options, renderer tiling.Renderer, observers []tiling.Observer) (tiling.Result, error) {
	b, err := board.New(opts.Size)
	if err != nil {
		return tiling.Result{}, err
	}
	forbidden := opts.Forbidden()
	if err := b.MarkOccupied(forbidden.Row, forbidden.Col); err != nil {
		return tiling.Result{}, err
	}
	colors, err := palette.New(opts.Palette, opts.Seed)
	if err != nil {
		return tiling.Result{}, err
	}

	rec := tiling.NewRecorder()
	var out tiling.Renderer = rec
	if renderer != nil {
		out = teeRenderer{rec, renderer}
	}
	t := tiling.New(out, colors,
		tiling.WithObservers(append([]tiling.Observer{rec}, observers...)...),
		tiling.WithPresentEachFill(opts.PresentEachFill))
	if err := t.TileBoard(b); err != nil {
		return tiling.Result{}, err
	}

	res := rec.Result(forbidden)
	if err := tiling.Verify(res); err != nil {
		return tiling.Result{}, err
	}
	return res, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns how many
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res tiling.Result, tree *calltree.Node, opts Options) (map[string][]byte, int, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, 0, err
	}

	// The key hashes the bare tiling; seed and palette only enter keys of
	// formats that print them.
	tilingData, err := sink.RenderJSON(res)
	if err != nil {
		return nil, 0, fmt.Errorf("serialize tiling for cache key: %w", err)
	}
	tilingHash := cache.Hash(tilingData)
	hooks := observability.Cache()

	observability.Tiling().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	hits := 0
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(tilingHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
			artifacts[format] = data
			hits++
			continue
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "format", format, "err", err)
		}
		hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)

		data, err := RenderFormat(ctx, res, tree, opts, format)
		if err != nil {
			observability.Tiling().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, hits, err
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			hooks.OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
		}
	}

	observability.Tiling().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, hits, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// teeRenderer forwards every drawing call to each renderer in order.
type teeRenderer []tiling.Renderer

func (t teeRenderer) DrawGrid(size int) {
	for _, r := range t {
		r.DrawGrid(size)
	}
}

func (t teeRenderer) FillCell(row, col int, c color.RGBA) {
	for _, r := range t {
		r.FillCell(row, col, c)
	}
}

func (t teeRenderer) Present() {
	for _, r := range t {
		r.Present()
	}
}
