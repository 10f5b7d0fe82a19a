package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is looked up in the working directory when no
// --config flag is given.
const defaultConfigFile = "diagramc.toml"

// Config holds project-level defaults read from a diagramc.toml file.
// Command-line flags override anything set here.
type Config struct {
	// Output is the directory artifacts are written to.
	Output string `toml:"output"`

	// Formats lists the output formats to render (svg, json).
	Formats []string `toml:"formats"`

	// Width and Height fix the frame size. Zero means size to content.
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// Background is an optional page background color for SVG output.
	Background string `toml:"background"`

	// FontFamily is the font family written into SVG text elements.
	FontFamily string `toml:"font_family"`

	// CacheDir overrides the artifact cache location.
	CacheDir string `toml:"cache_dir"`

	// NoCache disables the artifact cache.
	NoCache bool `toml:"no_cache"`
}

// loadConfig reads configuration from path, or from ./diagramc.toml when
// path is empty. A missing default file is not an error; a missing
// explicit file is.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// cacheDir returns the artifact cache directory, preferring the
// configured override and falling back to the user cache directory.
func cacheDir(cfg Config) (string, error) {
	if cfg.CacheDir != "" {
		return cfg.CacheDir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "diagramc"), nil
}
