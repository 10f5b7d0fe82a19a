package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/atthecodeface/diagramc/pkg/cache"
	"github.com/atthecodeface/diagramc/pkg/docio"
	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
	"github.com/atthecodeface/diagramc/pkg/layout"
	"github.com/atthecodeface/diagramc/pkg/primitive"
	"github.com/atthecodeface/diagramc/pkg/sink"
	"github.com/atthecodeface/diagramc/pkg/style"
	"github.com/atthecodeface/diagramc/pkg/template"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Compile runs the complete expand → cascade → layout → emit pipeline
// with caching.
func (r *Runner) Compile(ctx context.Context, doc *docio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Expand
	expandStart := time.Now()
	root, err := r.Expand(ctx, doc)
	if err != nil {
		return nil, err
	}
	result.Stats.ExpandTime = time.Since(expandStart)
	result.Stats.NodeCount = countNodes(root)

	if data, err := json.Marshal(root); err == nil {
		result.DocHash = cache.Hash(data)
	}

	opts.Logger.Info("expanded document",
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.ExpandTime)

	// Stage 2: Cascade
	cascadeStart := time.Now()
	if err := r.Cascade(ctx, root); err != nil {
		return nil, err
	}
	result.Stats.CascadeTime = time.Since(cascadeStart)

	// Stage 3: Layout
	layoutStart := time.Now()
	lay, err := r.ComputeLayout(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = lay
	result.Warnings = lay.Warnings
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("solved layout",
		"width", lay.Bounds.Width(),
		"height", lay.Bounds.Height(),
		"warnings", len(lay.Warnings),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Emit + render
	renderStart := time.Now()
	artifacts, prims, renderHit, err := r.Render(ctx, lay, result.DocHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.PrimitiveCount = prims
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cache_hit", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Expand instantiates the document's template definitions into its tree
// and validates the expanded result.
func (r *Runner) Expand(ctx context.Context, doc *docio.Document) (*document.Node, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no root")
	}

	reg := template.NewRegistry()
	for _, d := range doc.Defs {
		if err := reg.Define(d.Name, d.Node); err != nil {
			return nil, err
		}
	}

	root, err := reg.Expand(doc.Root)
	if err != nil {
		return nil, err
	}
	if err := document.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Cascade builds the document's stylesheet and resolves it onto every
// drawable node in the tree.
func (r *Runner) Cascade(ctx context.Context, root *document.Node) error {
	sheet, err := style.Build(root)
	if err != nil {
		return err
	}
	return sheet.Resolve(root)
}

// ComputeLayout solves the grid constraints of an expanded, styled tree.
func (r *Runner) ComputeLayout(ctx context.Context, root *document.Node, opts Options) (*layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	res, err := layout.Resolve(root, opts.LayoutOptions())
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		opts.Logger.Warn("layout diagnostic",
			"code", w.Code, "node", w.Path, "axis", w.Axis, "detail", w.Message)
	}
	return res, nil
}

// Render emits primitives from a solved layout and renders every
// requested format, consulting the artifact cache first. The third
// return reports whether all artifacts came from the cache.
func (r *Runner) Render(ctx context.Context, lay *layout.Result, docHash string, opts Options) (map[string][]byte, int, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, 0, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	// Try to get all formats from cache.
	if !opts.NoCache && docHash != "" {
		artifacts := make(map[string][]byte)
		allCached := true
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
		if allCached {
			return artifacts, 0, true, nil
		}
	}

	prims, err := primitive.Emit(lay)
	if err != nil {
		return nil, 0, false, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatSVG:
			svgOpts := []sink.SVGOption{sink.WithFontFamily(opts.FontFamily)}
			if opts.Background != "" {
				svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
			}
			data, err = sink.RenderSVG(lay.Bounds, prims, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(lay.Bounds, prims)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, 0, false, errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		artifacts[format] = data

		if !opts.NoCache && docHash != "" {
			key := cache.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		}
	}
	return artifacts, len(prims), false, nil
}

// CompileAll compiles several documents concurrently and returns results
// keyed the same way as the input. The first failure cancels the
// remaining compilations.
func (r *Runner) CompileAll(ctx context.Context, docs map[string]*docio.Document, opts Options) (map[string]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	var mu sync.Mutex
	results := make(map[string]*Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	for name, doc := range docs {
		name, doc := name, doc
		g.Go(func() error {
			res, err := r.Compile(gctx, doc, opts)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "compile %s", name)
			}
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func countNodes(root *document.Node) int {
	n := 0
	_ = root.Walk(func(*document.Node) error {
		n++
		return nil
	})
	return n
}
