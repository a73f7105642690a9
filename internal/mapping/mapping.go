// Package mapping builds and validates the pixel-to-LED mapping table: the
// ordered array giving, for each physical LED index, the grid cell whose
// color it displays. The table is the single source of truth consumed by
// preview and export; neither recomputes geometry.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/example/ledmapper/internal/layout"
)

var (
	// ErrInvalidGridDimensions reports a non-positive grid width or height.
	ErrInvalidGridDimensions = errors.New("invalid grid dimensions")
	// ErrLayoutTooDense reports a grid that cannot host the requested LED
	// count without cell collisions. Recoverable only by user action.
	ErrLayoutTooDense = errors.New("layout too dense for grid")
	// ErrTableCorrupt reports a stored table failing the length, bounds or
	// uniqueness checks. Ensure handles it by rebuilding.
	ErrTableCorrupt = errors.New("mapping table corrupt")
)

// Cell is the grid cell one LED maps to. It serializes as a 2-element
// [x, y] array; the LED index is implicit in the table position.
type Cell struct {
	X, Y int
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var a [2]int
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	c.X, c.Y = a[0], a[1]
	return nil
}

// Table maps LED index -> grid cell. A built table is an immutable
// snapshot: rebuilds return a fresh slice, and concurrent readers may hold
// references to an old one.
type Table []Cell

// Entry is one table row with its LED index made explicit.
type Entry struct {
	LED  int
	X, Y int
}

// Entries expands the table for consumers that want the LED index spelled
// out rather than implied by position.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t))
	for i, c := range t {
		out[i] = Entry{LED: i, X: c.X, Y: c.Y}
	}
	return out
}

// Build computes a fresh mapping table for the layout on a w×h grid.
// Identical inputs always produce an identical table. No partial tables:
// any error leaves the caller with nothing.
func Build(cfg *layout.Config, w, h int) (Table, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridDimensions, w, h)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case layout.Rectangular:
		t, err := WiringPath(w, h, cfg.Wiring, cfg.DataIn)
		if err != nil {
			return nil, err
		}
		if cfg.FlipX {
			mirrorX(t, w)
		}
		if cfg.FlipY {
			mirrorY(t, h)
		}
		return t, nil

	case layout.Radial:
		// Rows are circles, columns are LEDs per circle: a direct raster
		// table, same shape as the grid.
		t := make(Table, 0, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t = append(t, Cell{x, y})
			}
		}
		return t, nil

	default:
		pts, err := layout.Resolve(cfg, w, h)
		if err != nil {
			return nil, err
		}
		return quantize(pts, w, h, cfg.Type != layout.CustomPositions)
	}
}

// Validate checks a stored table against the layout and grid it claims to
// describe: exact length, in-bounds cells, and (for all but custom position
// layouts) pairwise-unique cells.
func Validate(t Table, cfg *layout.Config, w, h int) error {
	want := cfg.ImpliedCount(w, h)
	if len(t) != want {
		return fmt.Errorf("%w: table has %d entries, layout implies %d", ErrTableCorrupt, len(t), want)
	}
	for i, c := range t {
		if c.X < 0 || c.X >= w || c.Y < 0 || c.Y >= h {
			return fmt.Errorf("%w: led %d maps to (%d,%d) outside %dx%d grid", ErrTableCorrupt, i, c.X, c.Y, w, h)
		}
	}
	if cfg.Type != layout.CustomPositions {
		seen := make(map[Cell]int, len(t))
		for i, c := range t {
			if j, dup := seen[c]; dup {
				return fmt.Errorf("%w: leds %d and %d both map to (%d,%d)", ErrTableCorrupt, j, i, c.X, c.Y)
			}
			seen[c] = i
		}
	}
	return nil
}

// Ensure returns t if it is still valid for the layout and grid, otherwise
// rebuilds and returns a replacement. A corrupt stored table is a
// recoverable event: it is logged, never surfaced. Build failures
// (too-dense layouts, bad parameters) still propagate.
func Ensure(t Table, cfg *layout.Config, w, h int) (Table, error) {
	if t != nil {
		err := Validate(t, cfg, w, h)
		if err == nil {
			return t, nil
		}
		log.Warn().Err(err).
			Str("layout", string(cfg.Type)).
			Int("grid_w", w).Int("grid_h", h).
			Msg("stored mapping table invalid; rebuilding")
	}
	return Build(cfg, w, h)
}
