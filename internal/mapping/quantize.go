package mapping

import (
	"fmt"
	"math"

	"github.com/example/ledmapper/internal/layout"
)

// quantize snaps continuous positions onto integer grid cells. With unique
// set, two LEDs may not share a cell: the later-indexed LED is nudged
// outward along its own direction one cell at a time, and if the outward
// walk leaves the grid it falls back to the first free cell in raster
// order. Total work is bounded by w*h. Custom-position layouts pass
// unique=false and are clamped to bounds instead.
func quantize(pts []layout.Point, w, h int, unique bool) (Table, error) {
	t := make(Table, len(pts))

	if !unique {
		for i, p := range pts {
			t[i] = Cell{
				X: clamp(int(math.Round(p.X)), 0, w-1),
				Y: clamp(int(math.Round(p.Y)), 0, h-1),
			}
		}
		return t, nil
	}

	if len(pts) > w*h {
		return nil, fmt.Errorf("%w: %d LEDs, %d cells", ErrLayoutTooDense, len(pts), w*h)
	}
	used := make(map[Cell]bool, len(pts))
	for i, p := range pts {
		c, ok := place(p, w, h, used)
		if !ok {
			return nil, fmt.Errorf("%w: no free cell for led %d", ErrLayoutTooDense, i)
		}
		used[c] = true
		t[i] = c
	}
	return t, nil
}

func place(p layout.Point, w, h int, used map[Cell]bool) (Cell, bool) {
	steps := w
	if h > steps {
		steps = h
	}
	for k := 0; k <= steps; k++ {
		x := int(math.Round(p.X + float64(k)*p.DX))
		y := int(math.Round(p.Y + float64(k)*p.DY))
		if x < 0 || x >= w || y < 0 || y >= h {
			break
		}
		c := Cell{x, y}
		if !used[c] {
			return c, true
		}
	}
	// Outward walk exhausted; take the first free cell in raster order so
	// placement stays deterministic.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := Cell{x, y}
			if !used[c] {
				return c, true
			}
		}
	}
	return Cell{}, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
