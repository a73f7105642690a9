package mapping

import (
	"fmt"

	"github.com/example/ledmapper/internal/layout"
)

// WiringPath computes the hardware traversal order for a w×h rectangular
// grid: entry i is the grid cell the i-th LED on the strip occupies.
//
// Each mode is implemented once for the left_top corner; the other three
// corners are the base path with a horizontal and/or vertical mirror
// applied. That keeps the 16 mode×corner combinations down to 4 algorithms
// and 2 mirrors with consistent semantics.
func WiringPath(w, h int, mode layout.WiringMode, corner layout.Corner) (Table, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridDimensions, w, h)
	}

	t := make(Table, 0, w*h)
	switch mode {
	case layout.RowMajor:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				t = append(t, Cell{x, y})
			}
		}
	case layout.Serpentine:
		for y := 0; y < h; y++ {
			if y%2 == 0 {
				for x := 0; x < w; x++ {
					t = append(t, Cell{x, y})
				}
			} else {
				for x := w - 1; x >= 0; x-- {
					t = append(t, Cell{x, y})
				}
			}
		}
	case layout.ColumnMajor:
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				t = append(t, Cell{x, y})
			}
		}
	case layout.ColumnSerpentine:
		for x := 0; x < w; x++ {
			if x%2 == 0 {
				for y := 0; y < h; y++ {
					t = append(t, Cell{x, y})
				}
			} else {
				for y := h - 1; y >= 0; y-- {
					t = append(t, Cell{x, y})
				}
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown wiring mode %q", layout.ErrInvalidParameters, mode)
	}

	switch corner {
	case layout.LeftTop:
	case layout.RightTop:
		mirrorX(t, w)
	case layout.LeftBottom:
		mirrorY(t, h)
	case layout.RightBottom:
		mirrorX(t, w)
		mirrorY(t, h)
	default:
		return nil, fmt.Errorf("%w: unknown data-in corner %q", layout.ErrInvalidParameters, corner)
	}
	return t, nil
}

func mirrorX(t Table, w int) {
	for i := range t {
		t[i].X = w - 1 - t[i].X
	}
}

func mirrorY(t Table, h int) {
	for i := range t {
		t[i].Y = h - 1 - t[i].Y
	}
}
