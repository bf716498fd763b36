// Package config holds the viewer's user-tunable settings, loaded from an
// optional TOML file over built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Render controls how the diagram is rasterized.
type Render struct {
	// MergeIntersections draws junction glyphs where connections cross
	// instead of letting the later line overwrite the earlier one.
	MergeIntersections bool `toml:"merge_intersections"`
	// ASCII restricts output to plain ASCII for terminals without
	// box-drawing glyphs.
	ASCII bool `toml:"ascii"`
}

// Theme names the colors for each cell kind. Values are tcell color names
// or #rrggbb; empty means the terminal default.
type Theme struct {
	Box        string `toml:"box"`
	Text       string `toml:"text"`
	Connection string `toml:"connection"`
	Marker     string `toml:"marker"`
	Background string `toml:"background"`
}

// Config is the root of the settings file.
type Config struct {
	Render Render `toml:"render"`
	Theme  Theme  `toml:"theme"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Render: Render{MergeIntersections: true},
		Theme: Theme{
			Connection: "aqua",
			Marker:     "yellow",
		},
	}
}

// Load reads a TOML settings file over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("load config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}
