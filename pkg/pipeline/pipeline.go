// Package pipeline provides the core compilation pipeline for diagramc.
//
// This package implements the complete expand → cascade → layout → emit
// pipeline that turns a parsed document into rendered artifacts. By
// centralizing this logic, every entry point (CLI today, anything else
// later) shares one behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Expand: instantiate template definitions and validate the tree
//  2. Cascade: resolve stylesheet rules onto every drawable node
//  3. Layout: solve the grid constraints into concrete geometry
//  4. Emit: lower the laid-out tree to primitives and render them
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and compile a document:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Width:   800,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Compile(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/atthecodeface/diagramc/pkg/cache"
	"github.com/atthecodeface/diagramc/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Users
// =============================================================================

const (
	// DefaultFontFamily is the font family written into SVG text elements.
	DefaultFontFamily = "sans-serif"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the compilation pipeline.
// This struct supports JSON serialization so runs are reproducible from
// a recorded options blob.
type Options struct {
	// Layout options. Zero means size to content.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`
	FontFamily string   `json:"font_family,omitempty"`

	// NoCache bypasses the artifact cache for this run.
	NoCache bool `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this compilation run.
	RunID string

	// DocHash is the content hash of the expanded document.
	DocHash string

	// Layout is the solved geometry for the document tree.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings are the non-fatal layout diagnostics for this run.
	Warnings []layout.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	PrimitiveCount int
	ExpandTime     time.Duration
	CascadeTime    time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("frame size must not be negative")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutOptions returns the layout engine options for this run.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Width:  o.Width,
		Height: o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Background: o.Background,
		FontFamily: o.FontFamily,
	}
}
