// Package wiringtest generates verification frames that step through the
// mapping table in hardware order, so a physical install (or the preview)
// can be checked against the configured wiring visually.
package wiringtest

import (
	"github.com/example/ledmapper/internal/mapping"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RowSweep   Kind = "row_sweep"
	Corners    Kind = "corners"
)

type Plan struct{ Kind Kind }

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }
func (r *Runner) Kind() Kind      { return r.plan.Kind }

// Step fills rgb (3 bytes per LED, hardware order) for the current step and
// advances; returns false when the plan is complete.
func (r *Runner) Step(t mapping.Table, w, h int, rgb []byte) bool {
	for i := range rgb {
		rgb[i] = 0
	}

	switch r.plan.Kind {
	case IndexSweep:
		// One LED at a time, in strip order. A correctly wired install
		// shows the light walking the physical data path.
		if r.step >= len(t) {
			return false
		}
		rgb[r.step*3], rgb[r.step*3+1], rgb[r.step*3+2] = 255, 255, 255
	case RowSweep:
		// One grid row at a time, regardless of wiring order.
		if r.step >= h {
			return false
		}
		for i, c := range t {
			if c.Y == r.step {
				rgb[i*3+1] = 255
			}
		}
	case Corners:
		// Data-in corner red, the other three corners blue.
		if r.step >= 1 {
			return false
		}
		for i, c := range t {
			atCorner := (c.X == 0 || c.X == w-1) && (c.Y == 0 || c.Y == h-1)
			if !atCorner {
				continue
			}
			if i == 0 {
				rgb[i*3] = 255
			} else {
				rgb[i*3+2] = 255
			}
		}
	default:
		return false
	}
	r.step++
	return true
}
