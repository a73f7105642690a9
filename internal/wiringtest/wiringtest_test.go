package wiringtest

import (
	"testing"

	"github.com/example/ledmapper/internal/layout"
	"github.com/example/ledmapper/internal/mapping"
)

func TestIndexSweepwalksStripOrder(t *testing.T) {
	table, err := mapping.WiringPath(3, 2, layout.Serpentine, layout.LeftTop)
	if err != nil {
		t.Fatalf("wiring: %v", err)
	}
	r := NewRunner(Plan{Kind: IndexSweep})
	rgb := make([]byte, len(table)*3)

	for step := 0; step < len(table); step++ {
		if !r.Step(table, 3, 2, rgb) {
			t.Fatalf("sweep ended early at step %d", step)
		}
		for i := 0; i < len(table); i++ {
			lit := rgb[i*3] != 0
			if lit != (i == step) {
				t.Fatalf("step %d: led %d lit=%v", step, i, lit)
			}
		}
	}
	if r.Step(table, 3, 2, rgb) {
		t.Fatal("sweep should complete after visiting every led")
	}
}

func TestRowSweepLightsOneGridRow(t *testing.T) {
	table, err := mapping.WiringPath(3, 2, layout.ColumnSerpentine, layout.RightBottom)
	if err != nil {
		t.Fatalf("wiring: %v", err)
	}
	r := NewRunner(Plan{Kind: RowSweep})
	rgb := make([]byte, len(table)*3)

	if !r.Step(table, 3, 2, rgb) {
		t.Fatal("expected first row step")
	}
	for i, c := range table {
		lit := rgb[i*3+1] != 0
		if lit != (c.Y == 0) {
			t.Fatalf("led %d (cell %v) lit=%v on row 0 sweep", i, c, lit)
		}
	}
}
