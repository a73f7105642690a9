package diagnostics

import (
	"errors"

	"github.com/example/ledmapper/internal/layout"
	"github.com/example/ledmapper/internal/mapping"
	"github.com/example/ledmapper/internal/pattern"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// FromError classifies a mapping engine error into a diagnostic the UI can
// present. Only ErrLayoutTooDense needs user action; the rest are rejected
// at edit time or healed internally.
func FromError(err error) Diagnostic {
	switch {
	case errors.Is(err, mapping.ErrLayoutTooDense):
		return Diagnostic{
			Severity: Err,
			Code:     "MAP.TOO_DENSE",
			Summary:  "Grid cannot hold the requested LED count",
			Detail:   err.Error(),
			SuggestedFixes: []string{
				"Reduce the LED count",
				"Increase the grid dimensions",
			},
		}
	case errors.Is(err, mapping.ErrInvalidGridDimensions):
		return Diagnostic{
			Severity: Err,
			Code:     "GRID.INVALID",
			Summary:  "Grid dimensions must be positive",
			Detail:   err.Error(),
		}
	case errors.Is(err, mapping.ErrTableCorrupt):
		return Diagnostic{
			Severity: Warn,
			Code:     "MAP.CORRUPT",
			Summary:  "Stored mapping table was invalid and has been rebuilt",
			Detail:   err.Error(),
			LikelyCauses: []string{
				"Pattern saved before a layout change",
				"Pattern saved by an older format without a mapping table",
			},
		}
	case errors.Is(err, layout.ErrInvalidParameters):
		return Diagnostic{
			Severity: Err,
			Code:     "LAYOUT.INVALID",
			Summary:  "Layout parameters are malformed or out of range",
			Detail:   err.Error(),
		}
	case errors.Is(err, pattern.ErrInvalidPattern):
		return Diagnostic{
			Severity: Err,
			Code:     "PATTERN.INVALID",
			Summary:  "Pattern data is inconsistent",
			Detail:   err.Error(),
		}
	}
	return Diagnostic{Severity: Err, Code: "INTERNAL", Summary: "Unexpected error", Detail: err.Error()}
}
