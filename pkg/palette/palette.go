// Package palette provides colour sources for tromino rendering.
//
// Colour has no effect on tiling correctness; it only makes adjacent pieces
// distinguishable. Every source here is deterministic for a given seed so
// that a run can be reproduced exactly.
package palette

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/trominoes/pkg/errors"
)

// Palette names accepted by [New].
const (
	NameRandom = "random" // uniform RGB, one draw per channel
	NameVivid  = "vivid"  // random hue at high saturation and value
	NameGrey   = "grey"   // random grey levels
)

// DefaultName is the palette used when none is requested.
const DefaultName = NameRandom

// Source supplies one colour per call.
type Source interface {
	Next() color.RGBA
}

var constructors = map[string]func(seed uint64) Source{
	NameRandom: func(seed uint64) Source { return Random(seed) },
	NameVivid:  func(seed uint64) Source { return Vivid(seed) },
	NameGrey:   func(seed uint64) Source { return Grey(seed) },
}

// New returns the named palette seeded with seed. An empty name selects
// [DefaultName].
func New(name string, seed uint64) (Source, error) {
	if name == "" {
		name = DefaultName
	}
	ctor, ok := constructors[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q (must be one of: %v)", name, Names())
	}
	return ctor(seed), nil
}

// Names returns the accepted palette names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Validate returns an INVALID_PALETTE error for unknown names.
func Validate(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := constructors[name]; !ok {
		return errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q (must be one of: %v)", name, Names())
	}
	return nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// RandomSource draws each channel uniformly from [0, 255).
type RandomSource struct {
	rng *rand.Rand
}

// Random returns a uniform RGB source.
func Random(seed uint64) *RandomSource {
	return &RandomSource{rng: newRNG(seed)}
}

func (s *RandomSource) Next() color.RGBA {
	return color.RGBA{
		R: uint8(s.rng.IntN(255)),
		G: uint8(s.rng.IntN(255)),
		B: uint8(s.rng.IntN(255)),
		A: 0xff,
	}
}

// VividSource picks a random hue with saturation in [0.55, 0.9) and value
// in [0.75, 1).
type VividSource struct {
	rng *rand.Rand
}

// Vivid returns a saturated-hue source.
func Vivid(seed uint64) *VividSource {
	return &VividSource{rng: newRNG(seed)}
}

func (s *VividSource) Next() color.RGBA {
	h := s.rng.Float64() * 360
	sat := 0.55 + s.rng.Float64()*0.35
	val := 0.75 + s.rng.Float64()*0.25
	r, g, b := colorful.Hsv(h, sat, val).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// GreySource draws grey levels between greyMin and greyMax.
type GreySource struct {
	rng *rand.Rand
}

const (
	greyMin = 0x60
	greyMax = 0xe0
)

// Grey returns a greyscale source.
func Grey(seed uint64) *GreySource {
	return &GreySource{rng: newRNG(seed)}
}

func (s *GreySource) Next() color.RGBA {
	v := uint8(greyMin + s.rng.IntN(greyMax-greyMin+1))
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

// FixedSource cycles through a fixed sequence of colours.
type FixedSource struct {
	colors []color.RGBA
	next   int
}

// Fixed returns a source that repeats colors in order. With no colors it
// yields opaque black.
func Fixed(colors ...color.RGBA) *FixedSource {
	return &FixedSource{colors: slices.Clone(colors)}
}

func (s *FixedSource) Next() color.RGBA {
	if len(s.colors) == 0 {
		return color.RGBA{A: 0xff}
	}
	c := s.colors[s.next%len(s.colors)]
	s.next++
	return c
}
