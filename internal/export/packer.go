// Package export turns grid-ordered pattern frames into the flat,
// LED-ordered byte stream firmware consumes. It reads the mapping table as
// an opaque artifact and never recomputes geometry.
package export

import (
	"fmt"

	"github.com/example/ledmapper/internal/pattern"
)

// PackFrame reorders one frame's grid pixels into LED-index order, applies
// global brightness and the channel permutation for the declared color
// order, and returns 3 bytes per LED.
func PackFrame(f *pattern.Frame, meta *pattern.Metadata) ([]byte, error) {
	w := meta.Width
	if len(f.Pixels) != w*meta.Height {
		return nil, fmt.Errorf("%w: frame has %d pixels, grid has %d cells",
			pattern.ErrInvalidPattern, len(f.Pixels), w*meta.Height)
	}
	out := make([]byte, 0, len(meta.Mapping)*3)
	for _, cell := range meta.Mapping {
		px := f.At(w, cell.X, cell.Y)
		r := scale(px.R, meta.Brightness)
		g := scale(px.G, meta.Brightness)
		b := scale(px.B, meta.Brightness)
		for _, ch := range meta.ColorOrder {
			switch ch {
			case 'R':
				out = append(out, r)
			case 'G':
				out = append(out, g)
			case 'B':
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// Pack validates the pattern's mapping table (rebuilding if stale) and
// concatenates every frame into a single firmware byte stream.
func Pack(p *pattern.Pattern) ([]byte, error) {
	if err := p.EnsureMapping(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(p.Frames)*len(p.Metadata.Mapping)*3)
	for i := range p.Frames {
		b, err := PackFrame(&p.Frames[i], &p.Metadata)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func scale(v uint8, brightness float64) uint8 {
	return uint8(float64(v)*brightness + 0.5)
}
