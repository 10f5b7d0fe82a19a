package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/atthecodeface/diagramc/pkg/cache"
	"github.com/atthecodeface/diagramc/pkg/docio"
	"github.com/atthecodeface/diagramc/pkg/errors"
	"github.com/atthecodeface/diagramc/pkg/pipeline"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	output     string  // output directory for artifacts
	formats    string  // comma-separated output formats
	width      float64 // frame width, 0 = size to content
	height     float64 // frame height, 0 = size to content
	background string  // SVG page background color
	fontFamily string  // SVG font family
	configPath string  // explicit config file path
	noCache    bool    // bypass the artifact cache
}

// newCompileCmd creates the compile command.
//
// It reads one or more parsed diagram documents, runs the full
// expand → cascade → layout → emit pipeline on each, and writes one
// artifact per requested format next to the chosen output directory.
// Multiple input files compile concurrently.
func newCompileCmd() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile diagram documents into rendered artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: alongside input)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (0 = size to content)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (0 = size to content)")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color")
	cmd.Flags().StringVar(&opts.fontFamily, "font-family", "", "SVG font family")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: ./diagramc.toml)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runCompile(ctx context.Context, files []string, opts *compileOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "load config")
	}
	applyConfig(opts, cfg)

	popts := pipeline.Options{
		Width:      opts.width,
		Height:     opts.height,
		Formats:    parseFormats(opts.formats),
		Background: opts.background,
		FontFamily: opts.fontFamily,
		NoCache:    opts.noCache,
		Logger:     logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := pipeline.NewRunner(openCache(cfg, opts.noCache, logger), logger)
	defer runner.Close()

	prog := newProgress(logger)
	docs := make(map[string]*docio.Document, len(files))
	for _, f := range files {
		doc, err := docio.Import(f)
		if err != nil {
			printError("%s: %s", f, errors.UserMessage(err))
			return err
		}
		docs[f] = doc
	}

	results, err := runner.CompileAll(ctx, docs, popts)
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	for _, f := range files {
		res := results[f]
		printSuccess("compiled %s", f)
		printStats(res.Stats.NodeCount, res.Stats.PrimitiveCount, res.CacheHit)
		for _, w := range res.Warnings {
			printWarning("%s %s: %s", w.Code, w.Path, w.Message)
		}
		for _, format := range popts.Formats {
			path, err := docio.Export(outputDir(opts.output, f), f, format, res.Artifacts[format])
			if err != nil {
				return err
			}
			printFile(path)
		}
	}
	prog.done("compilation finished")
	return nil
}

// applyConfig fills unset flags from the config file.
func applyConfig(opts *compileOpts, cfg Config) {
	if opts.output == "" {
		opts.output = cfg.Output
	}
	if opts.formats == "" && len(cfg.Formats) > 0 {
		opts.formats = strings.Join(cfg.Formats, ",")
	}
	if opts.width == 0 {
		opts.width = cfg.Width
	}
	if opts.height == 0 {
		opts.height = cfg.Height
	}
	if opts.background == "" {
		opts.background = cfg.Background
	}
	if opts.fontFamily == "" {
		opts.fontFamily = cfg.FontFamily
	}
	if cfg.NoCache {
		opts.noCache = true
	}
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// outputDir picks the directory artifacts for input file f land in.
func outputDir(output, f string) string {
	if output != "" {
		return output
	}
	return filepath.Dir(f)
}

// openCache opens the file-backed artifact cache, degrading to a null
// cache when the directory cannot be used.
func openCache(cfg Config, noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir(cfg)
	if err == nil {
		if c, err := cache.NewFileCache(dir); err == nil {
			return c
		}
	}
	logger.Debug("artifact cache unavailable, continuing without")
	return cache.NewNullCache()
}
