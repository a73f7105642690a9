package pattern

import (
	"encoding/json"
	"os"
)

// Load reads a pattern file, fills backward-compatible defaults, and
// self-heals a missing or stale mapping table before returning.
func Load(path string) (*Pattern, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Pattern
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	p.Metadata.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.EnsureMapping(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes the pattern, mapping table included, so the next load can
// skip regeneration.
func Save(path string, p *Pattern) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
