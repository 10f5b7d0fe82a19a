package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagramc.toml")
	content := `
output = "build"
formats = ["svg", "json"]
width = 800.0
background = "#ffffff"
font_family = "monospace"
cache_dir = "/tmp/dc-cache"
no_cache = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Output != "build" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "json" {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Width != 800 {
		t.Errorf("Width = %v", cfg.Width)
	}
	if cfg.FontFamily != "monospace" {
		t.Errorf("FontFamily = %q", cfg.FontFamily)
	}
	if !cfg.NoCache {
		t.Error("NoCache = false")
	}
}

func TestLoadConfigMissing(t *testing.T) {
	// An explicit path must exist.
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config accepted")
	}
}

func TestCacheDirOverride(t *testing.T) {
	dir, err := cacheDir(Config{CacheDir: "/custom/cache"})
	if err != nil || dir != "/custom/cache" {
		t.Errorf("cacheDir() = %q, %v", dir, err)
	}

	dir, err = cacheDir(Config{})
	if err != nil {
		t.Skipf("no user cache dir available: %v", err)
	}
	if filepath.Base(dir) != "diagramc" {
		t.Errorf("default cache dir = %q", dir)
	}
}

func TestApplyConfig(t *testing.T) {
	cfg := Config{
		Output:     "build",
		Formats:    []string{"json"},
		Width:      640,
		Background: "#000",
		NoCache:    true,
	}

	// Flags that were set on the command line win.
	opts := compileOpts{output: "cli-out", width: 800}
	applyConfig(&opts, cfg)
	if opts.output != "cli-out" || opts.width != 800 {
		t.Errorf("flag values overridden: %+v", opts)
	}
	if opts.formats != "json" || opts.background != "#000" {
		t.Errorf("config values not applied: %+v", opts)
	}
	if !opts.noCache {
		t.Error("config no_cache ignored")
	}
}

func TestParseFormats(t *testing.T) {
	got := parseFormats("")
	if len(got) != 1 || got[0] != "svg" {
		t.Errorf("parseFormats(empty) = %v", got)
	}
	got = parseFormats("svg,json")
	if len(got) != 2 || got[1] != "json" {
		t.Errorf("parseFormats(svg,json) = %v", got)
	}
}

func TestOutputDir(t *testing.T) {
	if got := outputDir("out", "a/b.json"); got != "out" {
		t.Errorf("explicit output = %q", got)
	}
	if got := outputDir("", "a/b.json"); got != "a" {
		t.Errorf("derived output = %q", got)
	}
	if got := outputDir("", "b.json"); got != "." {
		t.Errorf("bare filename output = %q", got)
	}
}
