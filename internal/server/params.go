package server

import (
	"net/url"
	"time"

	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/pipeline"
)

// TilingParams are the query parameters of the tiling endpoints.
type TilingParams struct {
	Size     int     `schema:"size"`
	Row      int     `schema:"row"`
	Col      int     `schema:"col"`
	Seed     uint64  `schema:"seed"`
	Palette  string  `schema:"palette"`
	Format   string  `schema:"format"`
	CellSize float64 `schema:"cell_size"`
	NoGrid   bool    `schema:"no_grid"`
	Depth    int     `schema:"depth"`
	DelayMS  *int    `schema:"delay_ms"` // Stream only: pause between fills
}

func (s *Server) decodeParams(query url.Values) (TilingParams, error) {
	// Defaults are seeded here; a schema default would also replace an
	// explicit zero.
	p := TilingParams{
		Size:   pipeline.DefaultSize,
		Row:    pipeline.Random,
		Col:    pipeline.Random,
		Format: pipeline.FormatSVG,
	}
	if err := s.decoder.Decode(&p, query); err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid query")
	}
	if p.Size > s.cfg.MaxSize {
		return p, errors.New(errors.ErrCodeInvalidSize, "board size %d exceeds this server's limit of %d", p.Size, s.cfg.MaxSize)
	}
	if p.DelayMS != nil && (*p.DelayMS < 0 || *p.DelayMS > 1000) {
		return p, errors.New(errors.ErrCodeInvalidInput, "delay_ms must be in [0, 1000], got %d", *p.DelayMS)
	}
	return p, nil
}

// Options converts the parameters to pipeline options.
func (p TilingParams) Options() pipeline.Options {
	return pipeline.Options{
		Size:          p.Size,
		Row:           p.Row,
		Col:           p.Col,
		Seed:          p.Seed,
		Palette:       p.Palette,
		Formats:       []string{p.Format},
		CellSize:      p.CellSize,
		NoGridLines:   p.NoGrid,
		CallTreeDepth: p.Depth,
	}
}

// Delay returns the pause between streamed fills. Without delay_ms the
// server default applies; delay_ms=0 turns pacing off.
func (p TilingParams) Delay(fallback time.Duration) time.Duration {
	if p.DelayMS != nil {
		return time.Duration(*p.DelayMS) * time.Millisecond
	}
	return fallback
}
