package layout

import (
	"errors"
	"math"
	"testing"
)

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero led count", Config{Type: Circle, Radius: 3, StartAngle: 0, EndAngle: 360}},
		{"negative radius", Config{Type: Circle, Count: 8, Radius: -1, StartAngle: 0, EndAngle: 360}},
		{"start angle below range", Config{Type: Arc, Count: 8, Radius: 3, StartAngle: -5, EndAngle: 90}},
		{"end angle above range", Config{Type: Arc, Count: 8, Radius: 3, StartAngle: 0, EndAngle: 400}},
		{"end before start", Config{Type: Arc, Count: 8, Radius: 3, StartAngle: 180, EndAngle: 90}},
		{"inner radius exceeds radius", Config{Type: Ring, Count: 8, Radius: 3, InnerRadius: 4, StartAngle: 0, EndAngle: 360}},
		{"zero rings", Config{Type: MultiRing}},
		{"too many rings", Config{Type: MultiRing, RingCount: 6, RingLEDCounts: []int{1, 1, 1, 1, 1, 1}, RingRadii: []float64{1, 2, 3, 4, 5, 6}}},
		{"ring count mismatch", Config{Type: MultiRing, RingCount: 2, RingLEDCounts: []int{8}, RingRadii: []float64{2, 4}}},
		{"zero rays", Config{Type: RadialRays, LEDsPerRay: 5}},
		{"too many rays", Config{Type: RadialRays, RayCount: 65, LEDsPerRay: 5}},
		{"too many leds per ray", Config{Type: RadialRays, RayCount: 4, LEDsPerRay: 101}},
		{"no positions", Config{Type: CustomPositions}},
		{"count/positions mismatch", Config{Type: CustomPositions, Count: 3, Positions: []Position{{0, 0}}}},
		{"unknown type", Config{Type: "hexagon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); !errors.Is(err, ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	var c Config
	c.Normalize()
	if c.Type != Rectangular {
		t.Fatalf("missing layout_type should default to rectangular, got %q", c.Type)
	}
	if c.Wiring != RowMajor || c.DataIn != LeftTop {
		t.Fatalf("missing wiring fields should default to row_major/left_top, got %q/%q", c.Wiring, c.DataIn)
	}
}

func TestImpliedCount(t *testing.T) {
	cases := []struct {
		cfg  Config
		want int
	}{
		{Config{Type: Rectangular}, 64},
		{Config{Type: Radial}, 64},
		{Config{Type: Circle, Count: 24}, 24},
		{Config{Type: MultiRing, RingCount: 2, RingLEDCounts: []int{8, 12}}, 20},
		{Config{Type: RadialRays, RayCount: 6, LEDsPerRay: 10}, 60},
		{Config{Type: CustomPositions, Positions: []Position{{0, 0}, {1, 1}}}, 2},
	}
	for _, tc := range cases {
		if got := tc.cfg.ImpliedCount(8, 8); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.cfg.Type, got, tc.want)
		}
	}
}

func TestResolveFullCircleSkipsDuplicateEndpoint(t *testing.T) {
	cfg := &Config{Type: Circle, Count: 4, Radius: 3, StartAngle: 0, EndAngle: 360}
	pts, err := Resolve(cfg, 8, 8)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(pts) != 4 {
		t.Fatalf("got %d points, want 4", len(pts))
	}
	// Full circle divides by N: LEDs at 0, 90, 180, 270 degrees clockwise
	// from 12 o'clock around center (4,4).
	want := [][2]float64{{4, 1}, {7, 4}, {4, 7}, {1, 4}}
	for i, p := range pts {
		if math.Abs(p.X-want[i][0]) > 1e-9 || math.Abs(p.Y-want[i][1]) > 1e-9 {
			t.Fatalf("point %d: got (%g,%g), want (%g,%g)", i, p.X, p.Y, want[i][0], want[i][1])
		}
	}
}

func TestResolveArcIncludesEndpoint(t *testing.T) {
	cfg := &Config{Type: Arc, Count: 3, Radius: 3, StartAngle: 0, EndAngle: 180}
	pts, err := Resolve(cfg, 8, 8)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// 0, 90, 180 degrees: top, right, bottom of the arc.
	if math.Abs(pts[0].Y-1) > 1e-9 {
		t.Fatalf("first point should sit at top, got (%g,%g)", pts[0].X, pts[0].Y)
	}
	if math.Abs(pts[1].X-7) > 1e-9 {
		t.Fatalf("middle point should sit at right, got (%g,%g)", pts[1].X, pts[1].Y)
	}
	if math.Abs(pts[2].Y-7) > 1e-9 {
		t.Fatalf("last point should sit at bottom, got (%g,%g)", pts[2].X, pts[2].Y)
	}
}

func TestResolveMultiRingConcatenatesRings(t *testing.T) {
	cfg := &Config{
		Type: MultiRing, RingCount: 2,
		RingLEDCounts: []int{4, 8},
		RingRadii:     []float64{2, 4},
	}
	pts, err := Resolve(cfg, 16, 16)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(pts) != 12 {
		t.Fatalf("got %d points, want 12", len(pts))
	}
	cx, cy := 8.0, 8.0
	for i, p := range pts {
		r := math.Hypot(p.X-cx, p.Y-cy)
		want := 2.0
		if i >= 4 {
			want = 4.0
		}
		if math.Abs(r-want) > 1e-9 {
			t.Fatalf("point %d at radius %g, want %g", i, r, want)
		}
	}
}

func TestResolveRaysGrowOutward(t *testing.T) {
	cfg := &Config{Type: RadialRays, RayCount: 4, LEDsPerRay: 3}
	pts, err := Resolve(cfg, 16, 16)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(pts) != 12 {
		t.Fatalf("got %d points, want 12", len(pts))
	}
	cx, cy := 8.0, 8.0
	for ray := 0; ray < 4; ray++ {
		prev := 0.0
		for j := 0; j < 3; j++ {
			p := pts[ray*3+j]
			r := math.Hypot(p.X-cx, p.Y-cy)
			if r <= prev {
				t.Fatalf("ray %d led %d: radius %g not increasing past %g", ray, j, r, prev)
			}
			prev = r
		}
	}
}

func TestResolveCustomGridUnitsVerbatim(t *testing.T) {
	cfg := &Config{
		Type:          CustomPositions,
		Positions:     []Position{{2, 3}, {5.4, 0.6}},
		PositionUnits: UnitGrid,
	}
	pts, err := Resolve(cfg, 8, 8)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pts[0].X != 2 || pts[0].Y != 3 {
		t.Fatalf("grid units should pass through, got (%g,%g)", pts[0].X, pts[0].Y)
	}
	if pts[1].X != 5.4 || pts[1].Y != 0.6 {
		t.Fatalf("grid units should pass through, got (%g,%g)", pts[1].X, pts[1].Y)
	}
}

func TestResolveCustomMMAutoFits(t *testing.T) {
	// A 100x100mm board auto-fits into 90% of a 20x20 grid, centered.
	cfg := &Config{
		Type: CustomPositions,
		Positions: []Position{
			{0, 0}, {100, 0}, {0, 100}, {100, 100}, {50, 50},
		},
		PositionUnits: UnitMM,
	}
	pts, err := Resolve(cfg, 20, 20)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i, p := range pts {
		if p.X < 0 || p.X > 20 || p.Y < 0 || p.Y > 20 {
			t.Fatalf("point %d outside grid: (%g,%g)", i, p.X, p.Y)
		}
	}
	// The board center lands on the grid center.
	if math.Abs(pts[4].X-10) > 1e-9 || math.Abs(pts[4].Y-10) > 1e-9 {
		t.Fatalf("board center should map to grid center, got (%g,%g)", pts[4].X, pts[4].Y)
	}
	// Inches scale 25.4x relative to mm before fitting, so the same board
	// declared in inches fits identically.
	cfg2 := *cfg
	cfg2.PositionUnits = UnitInch
	pts2, err := Resolve(&cfg2, 20, 20)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := range pts {
		if math.Abs(pts[i].X-pts2[i].X) > 1e-9 || math.Abs(pts[i].Y-pts2[i].Y) > 1e-9 {
			t.Fatalf("point %d: inch fit (%g,%g) differs from mm fit (%g,%g)", i, pts2[i].X, pts2[i].Y, pts[i].X, pts[i].Y)
		}
	}
}

func TestResolveCustomExplicitScaleAndCenter(t *testing.T) {
	cx, cy := 2.0, 3.0
	cfg := &Config{
		Type:          CustomPositions,
		Positions:     []Position{{1, 1}},
		PositionUnits: UnitMM,
		CellsPerUnit:  2,
		CenterX:       &cx,
		CenterY:       &cy,
	}
	pts, err := Resolve(cfg, 8, 8)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pts[0].X != 4 || pts[0].Y != 5 {
		t.Fatalf("got (%g,%g), want (4,5)", pts[0].X, pts[0].Y)
	}
}

func TestResolveRejectsNonGeometricLayouts(t *testing.T) {
	if _, err := Resolve(&Config{Type: Rectangular}, 8, 8); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
}
