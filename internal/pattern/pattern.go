// Package pattern holds the canonical pattern model: a width×height pixel
// grid that drawing tools mutate, plus the metadata that owns the layout
// description and its pixel-to-LED mapping table.
package pattern

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/ledmapper/internal/layout"
	"github.com/example/ledmapper/internal/mapping"
)

// ErrInvalidPattern reports a structurally inconsistent pattern.
var ErrInvalidPattern = errors.New("invalid pattern")

// RGB is one grid pixel. It serializes as a 3-element [r, g, b] array.
type RGB struct {
	R, G, B uint8
}

func (c RGB) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]uint8{c.R, c.G, c.B})
}

func (c *RGB) UnmarshalJSON(b []byte) error {
	var a [3]uint8
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	c.R, c.G, c.B = a[0], a[1], a[2]
	return nil
}

// Frame is one animation frame. Pixels are in grid raster order
// (index = y*width + x); the mapping table reorders them for hardware.
type Frame struct {
	Pixels     []RGB `json:"pixels"`
	DurationMS int   `json:"duration_ms"`
}

// At returns the pixel at grid cell (x, y) for a frame of width w.
func (f *Frame) At(w, x, y int) RGB {
	return f.Pixels[y*w+x]
}

// Set writes the pixel at grid cell (x, y) for a frame of width w.
func (f *Frame) Set(w, x, y int, c RGB) {
	f.Pixels[y*w+x] = c
}

var colorOrders = map[string]bool{
	"RGB": true, "GRB": true, "BRG": true,
	"BGR": true, "RBG": true, "GBR": true,
}

// Metadata is the pattern configuration. The layout fields are flattened
// into the serialized form so patterns saved before non-rectangular layout
// support load with rectangular defaults.
type Metadata struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	ColorOrder string  `json:"color_order,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`

	layout.Config

	// Mapping is the stored table, index = LED index. Treated as an
	// immutable snapshot; layout or grid edits replace it wholesale.
	Mapping mapping.Table `json:"mapping_table,omitempty"`
}

// Normalize fills defaults for fields older saved patterns omit.
func (m *Metadata) Normalize() {
	m.Config.Normalize()
	if m.ColorOrder == "" {
		m.ColorOrder = "RGB"
	}
	if m.Brightness == 0 {
		m.Brightness = 1.0
	}
}

// LEDCount is the physical LED count the layout implies for this grid.
func (m *Metadata) LEDCount() int {
	return m.Config.ImpliedCount(m.Width, m.Height)
}

func (m *Metadata) Validate() error {
	if m.Width < 1 {
		return fmt.Errorf("%w: width must be >= 1, got %d", ErrInvalidPattern, m.Width)
	}
	if m.Height < 1 {
		return fmt.Errorf("%w: height must be >= 1, got %d", ErrInvalidPattern, m.Height)
	}
	if !colorOrders[m.ColorOrder] {
		return fmt.Errorf("%w: unknown color order %q", ErrInvalidPattern, m.ColorOrder)
	}
	if m.Brightness < 0 || m.Brightness > 1 {
		return fmt.Errorf("%w: brightness must be in [0,1], got %g", ErrInvalidPattern, m.Brightness)
	}
	return m.Config.Validate()
}

// Pattern is a complete LED pattern: metadata plus animation frames.
type Pattern struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata"`
	Frames   []Frame  `json:"frames"`
}

// New builds a pattern with a freshly computed mapping table.
func New(name string, meta Metadata) (*Pattern, error) {
	meta.Normalize()
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	t, err := mapping.Build(&meta.Config, meta.Width, meta.Height)
	if err != nil {
		return nil, err
	}
	meta.Mapping = t
	return &Pattern{ID: newID(), Name: name, Metadata: meta}, nil
}

func (p *Pattern) Validate() error {
	if err := p.Metadata.Validate(); err != nil {
		return err
	}
	cells := p.Metadata.Width * p.Metadata.Height
	for i, f := range p.Frames {
		if len(f.Pixels) != cells {
			return fmt.Errorf("%w: frame %d has %d pixels, grid has %d cells", ErrInvalidPattern, i, len(f.Pixels), cells)
		}
		if f.DurationMS < 0 {
			return fmt.Errorf("%w: frame %d has negative duration %d", ErrInvalidPattern, i, f.DurationMS)
		}
	}
	return nil
}

// EnsureMapping validates the stored table and replaces it when absent or
// stale. Load paths call this so pre-layout-change saves self-heal.
func (p *Pattern) EnsureMapping() error {
	t, err := mapping.Ensure(p.Metadata.Mapping, &p.Metadata.Config, p.Metadata.Width, p.Metadata.Height)
	if err != nil {
		return err
	}
	p.Metadata.Mapping = t
	return nil
}

// SetLayout replaces the layout and rebuilds the mapping table wholesale.
// The old table is never mutated; concurrent readers keep their snapshot.
func (p *Pattern) SetLayout(cfg layout.Config) error {
	cfg.Normalize()
	t, err := mapping.Build(&cfg, p.Metadata.Width, p.Metadata.Height)
	if err != nil {
		return err
	}
	p.Metadata.Config = cfg
	p.Metadata.Mapping = t
	return nil
}

// Resize changes the grid dimensions, carries overlapping pixels into the
// new frames, and rebuilds the now-invalidated mapping table.
func (p *Pattern) Resize(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: %dx%d", mapping.ErrInvalidGridDimensions, w, h)
	}
	t, err := mapping.Build(&p.Metadata.Config, w, h)
	if err != nil {
		return err
	}
	oldW, oldH := p.Metadata.Width, p.Metadata.Height
	for i := range p.Frames {
		old := p.Frames[i].Pixels
		next := make([]RGB, w*h)
		for y := 0; y < h && y < oldH; y++ {
			for x := 0; x < w && x < oldW; x++ {
				next[y*w+x] = old[y*oldW+x]
			}
		}
		p.Frames[i].Pixels = next
	}
	p.Metadata.Width, p.Metadata.Height = w, h
	p.Metadata.Mapping = t
	return nil
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(b[:])
}
