package layout

import (
	"encoding/json"
	"fmt"
	"math"
)

// Position is a declared LED location in the layout's own units.
// It serializes as a 2-element [x, y] array.
type Position struct {
	X, Y float64
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(b []byte) error {
	var a [2]float64
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	p.X, p.Y = a[0], a[1]
	return nil
}

// Point is a resolved continuous position in grid-cell space. DX/DY is the
// unit direction away from the layout center, used for collision nudging
// during quantization.
type Point struct {
	X, Y   float64
	DX, DY float64
}

const inchToMM = 25.4

// Resolve computes the continuous grid-space position of every LED index
// for a geometric layout. Rectangular and radial layouts have no geometry
// step and are rejected here; their tables are built directly.
//
// Angles are degrees clockwise from 12 o'clock. The grid center is
// (w/2, h/2); grid y grows downward.
func Resolve(c *Config, gridW, gridH int) ([]Point, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cx := float64(gridW) / 2
	cy := float64(gridH) / 2

	switch c.Type {
	case Circle, Ring, Arc:
		return resolveArc(c, cx, cy), nil
	case MultiRing:
		return resolveMultiRing(c, cx, cy), nil
	case RadialRays:
		return resolveRays(c, cx, cy, gridW, gridH), nil
	case CustomPositions:
		return resolveCustom(c, cx, cy, gridW, gridH), nil
	}
	return nil, fmt.Errorf("%w: layout %q has no continuous geometry", ErrInvalidParameters, c.Type)
}

// polar places a point at angle deg (clockwise from 12 o'clock) and
// distance r from (cx, cy).
func polar(cx, cy, deg, r float64) Point {
	rad := deg * math.Pi / 180
	dx := math.Sin(rad)
	dy := -math.Cos(rad)
	return Point{X: cx + r*dx, Y: cy + r*dy, DX: dx, DY: dy}
}

func resolveArc(c *Config, cx, cy float64) []Point {
	span := c.EndAngle - c.StartAngle
	// A full circle would place LED 0 and LED N-1 on the same cell if the
	// endpoint were included, so it divides by N instead of N-1.
	var step float64
	switch {
	case span >= 360:
		step = span / float64(c.Count)
	case c.Count > 1:
		step = span / float64(c.Count-1)
	}
	pts := make([]Point, c.Count)
	for i := range pts {
		pts[i] = polar(cx, cy, c.StartAngle+float64(i)*step, c.Radius)
	}
	return pts
}

func resolveMultiRing(c *Config, cx, cy float64) []Point {
	pts := make([]Point, 0, c.ImpliedCount(0, 0))
	for k := 0; k < c.RingCount; k++ {
		n := c.RingLEDCounts[k]
		r := c.RingRadii[k]
		step := 360.0 / float64(n)
		for j := 0; j < n; j++ {
			pts = append(pts, polar(cx, cy, float64(j)*step, r))
		}
	}
	return pts
}

func resolveRays(c *Config, cx, cy float64, gridW, gridH int) []Point {
	spacing := c.RaySpacingAngle
	if spacing == 0 {
		spacing = 360.0 / float64(c.RayCount)
	}
	maxR := math.Min(float64(gridW), float64(gridH))/2 - 1
	if maxR < 0.5 {
		maxR = 0.5
	}
	pts := make([]Point, 0, c.RayCount*c.LEDsPerRay)
	for ray := 0; ray < c.RayCount; ray++ {
		angle := float64(ray) * spacing
		for j := 0; j < c.LEDsPerRay; j++ {
			r := float64(j+1) / float64(c.LEDsPerRay) * maxR
			pts = append(pts, polar(cx, cy, angle, r))
		}
	}
	return pts
}

// resolveCustom translates declared positions into grid-cell space. Grid
// units pass through 1:1. Millimeter and inch positions are auto-fitted to
// 90% of the grid and centered, unless the config declares an explicit
// cells-per-unit scale or center offset.
func resolveCustom(c *Config, cx, cy float64, gridW, gridH int) []Point {
	pos := make([]Position, len(c.Positions))
	copy(pos, c.Positions)
	if c.PositionUnits == UnitInch {
		for i := range pos {
			pos[i].X *= inchToMM
			pos[i].Y *= inchToMM
		}
	}

	scale := 1.0
	offX, offY := 0.0, 0.0
	switch {
	case c.CellsPerUnit > 0:
		scale = c.CellsPerUnit
		offX, offY = centerOffset(pos, scale, cx, cy)
	case c.PositionUnits == UnitMM || c.PositionUnits == UnitInch:
		scale = fitScale(pos, gridW, gridH)
		offX, offY = centerOffset(pos, scale, cx, cy)
	}
	if c.CenterX != nil {
		offX = *c.CenterX
	}
	if c.CenterY != nil {
		offY = *c.CenterY
	}

	pts := make([]Point, len(pos))
	for i, p := range pos {
		x := p.X*scale + offX
		y := p.Y*scale + offY
		dx, dy := x-cx, y-cy
		if n := math.Hypot(dx, dy); n > 0 {
			dx, dy = dx/n, dy/n
		} else {
			dx, dy = 0, -1
		}
		pts[i] = Point{X: x, Y: y, DX: dx, DY: dy}
	}
	return pts
}

func bounds(pos []Position) (minX, minY, maxX, maxY float64) {
	minX, minY = pos[0].X, pos[0].Y
	maxX, maxY = pos[0].X, pos[0].Y
	for _, p := range pos[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return
}

func fitScale(pos []Position, gridW, gridH int) float64 {
	minX, minY, maxX, maxY := bounds(pos)
	w := maxX - minX
	h := maxY - minY
	sx, sy := 1.0, 1.0
	if w > 0 {
		sx = float64(gridW) * 0.9 / w
	}
	if h > 0 {
		sy = float64(gridH) * 0.9 / h
	}
	return math.Min(sx, sy)
}

func centerOffset(pos []Position, scale, cx, cy float64) (float64, float64) {
	minX, minY, maxX, maxY := bounds(pos)
	return cx - (minX+maxX)/2*scale, cy - (minY+maxY)/2*scale
}
