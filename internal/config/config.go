package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/ledmapper/internal/layout"
)

type Grid struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type Wiring struct {
	Mode   layout.WiringMode `yaml:"mode"`    // row_major | serpentine | column_major | column_serpentine
	DataIn layout.Corner     `yaml:"data_in"` // left_top | left_bottom | right_top | right_bottom
	FlipX  bool              `yaml:"flip_x"`
	FlipY  bool              `yaml:"flip_y"`
}

type Config struct {
	Addr       string  `yaml:"addr"` // e.g. :8080
	FPS        int     `yaml:"fps"`
	Brightness float64 `yaml:"brightness"`
	Pattern    string  `yaml:"pattern,omitempty"` // path to a pattern file

	Grid   Grid   `yaml:"grid"`
	Wiring Wiring `yaml:"wiring"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
