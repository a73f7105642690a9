package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters reports a malformed or out-of-range layout field.
var ErrInvalidParameters = errors.New("invalid layout parameters")

// Type discriminates the physical LED arrangement.
type Type string

const (
	Rectangular     Type = "rectangular"
	Circle          Type = "circle"
	Ring            Type = "ring"
	Arc             Type = "arc"
	Radial          Type = "radial"
	MultiRing       Type = "multi_ring"
	RadialRays      Type = "radial_rays"
	CustomPositions Type = "custom_positions"
)

// WiringMode is the strip routing through a rectangular grid.
type WiringMode string

const (
	RowMajor         WiringMode = "row_major"
	Serpentine       WiringMode = "serpentine"
	ColumnMajor      WiringMode = "column_major"
	ColumnSerpentine WiringMode = "column_serpentine"
)

// Corner is the grid corner where LED index 0 enters.
type Corner string

const (
	LeftTop     Corner = "left_top"
	LeftBottom  Corner = "left_bottom"
	RightTop    Corner = "right_top"
	RightBottom Corner = "right_bottom"
)

// Unit declares the coordinate unit of custom positions.
type Unit string

const (
	UnitGrid Unit = "grid"
	UnitMM   Unit = "mm"
	UnitInch Unit = "inch"
)

const (
	minRings      = 1
	maxRings      = 5
	maxRays       = 64
	maxLEDsPerRay = 100
)

// Config describes a physical LED arrangement. It is treated as immutable
// once attached to a pattern; edits replace the whole value.
type Config struct {
	Type Type `json:"layout_type" yaml:"layout_type"`

	// circle / ring / arc
	Count       int     `json:"led_count,omitempty" yaml:"led_count,omitempty"`
	Radius      float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	InnerRadius float64 `json:"inner_radius,omitempty" yaml:"inner_radius,omitempty"`
	StartAngle  float64 `json:"start_angle,omitempty" yaml:"start_angle,omitempty"`
	EndAngle    float64 `json:"end_angle,omitempty" yaml:"end_angle,omitempty"`

	// multi_ring
	RingCount     int       `json:"ring_count,omitempty" yaml:"ring_count,omitempty"`
	RingLEDCounts []int     `json:"ring_led_counts,omitempty" yaml:"ring_led_counts,omitempty"`
	RingRadii     []float64 `json:"ring_radii,omitempty" yaml:"ring_radii,omitempty"`
	RingSpacing   float64   `json:"ring_spacing,omitempty" yaml:"ring_spacing,omitempty"`

	// radial_rays
	RayCount        int     `json:"ray_count,omitempty" yaml:"ray_count,omitempty"`
	LEDsPerRay      int     `json:"leds_per_ray,omitempty" yaml:"leds_per_ray,omitempty"`
	RaySpacingAngle float64 `json:"ray_spacing_angle,omitempty" yaml:"ray_spacing_angle,omitempty"`

	// custom_positions
	Positions     []Position `json:"positions,omitempty" yaml:"positions,omitempty"`
	PositionUnits Unit       `json:"position_units,omitempty" yaml:"position_units,omitempty"`
	CenterX       *float64   `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY       *float64   `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	CellsPerUnit  float64    `json:"cells_per_unit,omitempty" yaml:"cells_per_unit,omitempty"`

	// rectangular wiring
	Wiring WiringMode `json:"wiring_mode,omitempty" yaml:"wiring_mode,omitempty"`
	DataIn Corner     `json:"data_in_corner,omitempty" yaml:"data_in_corner,omitempty"`
	FlipX  bool       `json:"flip_x,omitempty" yaml:"flip_x,omitempty"`
	FlipY  bool       `json:"flip_y,omitempty" yaml:"flip_y,omitempty"`
}

// Normalize fills the backward-compatible defaults for fields older saved
// patterns omit. A zero Type means the pattern predates non-rectangular
// layout support.
func (c *Config) Normalize() {
	if c.Type == "" {
		c.Type = Rectangular
	}
	if c.Wiring == "" {
		c.Wiring = RowMajor
	}
	if c.DataIn == "" {
		c.DataIn = LeftTop
	}
	if c.Type == CustomPositions && c.PositionUnits == "" {
		c.PositionUnits = UnitGrid
	}
}

// ImpliedCount returns the LED count the layout requires for a w×h grid.
func (c *Config) ImpliedCount(w, h int) int {
	switch c.Type {
	case Rectangular, Radial:
		return w * h
	case Circle, Ring, Arc:
		return c.Count
	case MultiRing:
		n := 0
		for _, rc := range c.RingLEDCounts {
			n += rc
		}
		return n
	case RadialRays:
		return c.RayCount * c.LEDsPerRay
	case CustomPositions:
		return len(c.Positions)
	}
	return 0
}

// Validate checks every variant-relevant field range.
func (c *Config) Validate() error {
	switch c.Type {
	case Rectangular, Radial:
		switch c.Wiring {
		case RowMajor, Serpentine, ColumnMajor, ColumnSerpentine, "":
		default:
			return fmt.Errorf("%w: unknown wiring mode %q", ErrInvalidParameters, c.Wiring)
		}
		switch c.DataIn {
		case LeftTop, LeftBottom, RightTop, RightBottom, "":
		default:
			return fmt.Errorf("%w: unknown data-in corner %q", ErrInvalidParameters, c.DataIn)
		}
		return nil

	case Circle, Arc, Ring:
		if c.Count <= 0 {
			return fmt.Errorf("%w: led_count must be > 0, got %d", ErrInvalidParameters, c.Count)
		}
		if c.Radius <= 0 {
			return fmt.Errorf("%w: radius must be > 0, got %g", ErrInvalidParameters, c.Radius)
		}
		if c.StartAngle < 0 || c.StartAngle > 360 {
			return fmt.Errorf("%w: start_angle must be in [0,360], got %g", ErrInvalidParameters, c.StartAngle)
		}
		if c.EndAngle < 0 || c.EndAngle > 360 {
			return fmt.Errorf("%w: end_angle must be in [0,360], got %g", ErrInvalidParameters, c.EndAngle)
		}
		if c.EndAngle <= c.StartAngle {
			return fmt.Errorf("%w: end_angle (%g) must be > start_angle (%g)", ErrInvalidParameters, c.EndAngle, c.StartAngle)
		}
		if c.Type == Ring {
			if c.InnerRadius < 0 {
				return fmt.Errorf("%w: inner_radius must be >= 0, got %g", ErrInvalidParameters, c.InnerRadius)
			}
			if c.InnerRadius >= c.Radius {
				return fmt.Errorf("%w: inner_radius (%g) must be < radius (%g)", ErrInvalidParameters, c.InnerRadius, c.Radius)
			}
		}
		return nil

	case MultiRing:
		if c.RingCount < minRings || c.RingCount > maxRings {
			return fmt.Errorf("%w: ring_count must be in [%d,%d], got %d", ErrInvalidParameters, minRings, maxRings, c.RingCount)
		}
		if len(c.RingLEDCounts) != c.RingCount {
			return fmt.Errorf("%w: ring_led_counts has %d entries, ring_count is %d", ErrInvalidParameters, len(c.RingLEDCounts), c.RingCount)
		}
		if len(c.RingRadii) != c.RingCount {
			return fmt.Errorf("%w: ring_radii has %d entries, ring_count is %d", ErrInvalidParameters, len(c.RingRadii), c.RingCount)
		}
		for k, rc := range c.RingLEDCounts {
			if rc <= 0 {
				return fmt.Errorf("%w: ring %d led count must be > 0, got %d", ErrInvalidParameters, k, rc)
			}
		}
		for k, r := range c.RingRadii {
			if r <= 0 {
				return fmt.Errorf("%w: ring %d radius must be > 0, got %g", ErrInvalidParameters, k, r)
			}
		}
		return nil

	case RadialRays:
		if c.RayCount < 1 || c.RayCount > maxRays {
			return fmt.Errorf("%w: ray_count must be in [1,%d], got %d", ErrInvalidParameters, maxRays, c.RayCount)
		}
		if c.LEDsPerRay < 1 || c.LEDsPerRay > maxLEDsPerRay {
			return fmt.Errorf("%w: leds_per_ray must be in [1,%d], got %d", ErrInvalidParameters, maxLEDsPerRay, c.LEDsPerRay)
		}
		if c.RaySpacingAngle < 0 || c.RaySpacingAngle > 360 {
			return fmt.Errorf("%w: ray_spacing_angle must be in [0,360], got %g", ErrInvalidParameters, c.RaySpacingAngle)
		}
		return nil

	case CustomPositions:
		if len(c.Positions) == 0 {
			return fmt.Errorf("%w: custom layout requires at least one position", ErrInvalidParameters)
		}
		if c.Count > 0 && c.Count != len(c.Positions) {
			return fmt.Errorf("%w: led_count (%d) does not match positions length (%d)", ErrInvalidParameters, c.Count, len(c.Positions))
		}
		switch c.PositionUnits {
		case UnitGrid, UnitMM, UnitInch, "":
		default:
			return fmt.Errorf("%w: unknown position units %q", ErrInvalidParameters, c.PositionUnits)
		}
		if c.CellsPerUnit < 0 {
			return fmt.Errorf("%w: cells_per_unit must be >= 0, got %g", ErrInvalidParameters, c.CellsPerUnit)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown layout type %q", ErrInvalidParameters, c.Type)
}
