package layout

import (
	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
)

const eps = 1e-9

// state tracks a node's progress through the layout passes. Transitions
// are strictly ordered: a node's natural size is computed only after all
// its descendants', and its box is assigned only after its ancestors'.
type state int

const (
	stateUnresolved state = iota
	stateNaturalSizeKnown
	stateBoxAssigned
	statePositioned
)

// WarnOverflow marks content larger than its assigned box; layout
// proceeds with overflow rather than clipping.
const WarnOverflow = "LAYOUT_OVERFLOW"

// WarnUnusedExpansion marks a layout that declared expansion on an axis
// with no expansion-eligible interval to absorb the slack.
const WarnUnusedExpansion = "UNUSED_EXPANSION"

// Warning is a non-fatal layout condition, reported alongside the
// resolved geometry.
type Warning struct {
	Code    string
	Path    string // slash-separated node labels from the root
	Axis    string // "x" or "y", empty when not axis-specific
	Message string
}

// Options configures a layout run.
type Options struct {
	// Width and Height fix the root's assigned box. Zero means size the
	// root to its own natural minimum on that axis.
	Width  float64
	Height float64
}

// Result is the resolved geometry of one document: an absolute box per
// drawable node, plus the collected warnings. Immutable once returned.
type Result struct {
	Root     *document.Node
	Boxes    map[*document.Node]Box
	Bounds   Box
	Warnings []Warning
}

// BoxOf returns the resolved box for a node.
func (r *Result) BoxOf(n *document.Node) (Box, bool) {
	b, ok := r.Boxes[n]
	return b, ok
}

// size is a natural extent on both axes.
type size struct{ w, h float64 }

// axes holds the per-axis dimension solvers of one grid layout.
type axes struct{ x, y *dimension }

type engine struct {
	boxes    map[*document.Node]Box
	natural  map[*document.Node]size
	dims     map[*document.Node]*axes
	states   map[*document.Node]state
	warnings []Warning
}

// Resolve runs the two-pass layout over an expanded, style-annotated
// tree and returns the resolved geometry. The tree is not modified.
//
// Fatal failures (unsatisfiable spanning constraints, internal state
// violations) abort with no result; overflow and unused expansion are
// collected as warnings on the result instead.
func Resolve(root *document.Node, opts Options) (*Result, error) {
	e := &engine{
		boxes:   map[*document.Node]Box{},
		natural: map[*document.Node]size{},
		dims:    map[*document.Node]*axes{},
		states:  map[*document.Node]state{},
	}

	nat, err := e.naturalSize(root, root.Label())
	if err != nil {
		return nil, err
	}

	frame := Box{0, 0, nat.w, nat.h}
	if opts.Width > 0 {
		frame.X1 = opts.Width
	}
	if opts.Height > 0 {
		frame.Y1 = opts.Height
	}

	if err := e.place(root, frame, root.Label()); err != nil {
		return nil, err
	}

	return &Result{
		Root:     root,
		Boxes:    e.boxes,
		Bounds:   frame,
		Warnings: e.warnings,
	}, nil
}

// advance moves a node to the next layout state, enforcing the
// Unresolved → NaturalSizeKnown → BoxAssigned → Positioned order.
func (e *engine) advance(n *document.Node, to state, path string) error {
	if e.states[n] != to-1 {
		return errors.New(errors.ErrCodeInternal,
			"%s: layout state %d cannot advance to %d", path, e.states[n], to)
	}
	e.states[n] = to
	return nil
}

func (e *engine) warn(code, path, axis, msg string) {
	e.warnings = append(e.warnings, Warning{Code: code, Path: path, Axis: axis, Message: msg})
}

// drawable reports whether a node takes part in layout at all. Style and
// rule declarations occupy no space.
func drawable(n *document.Node) bool {
	switch n.Kind {
	case document.KindStyleDef, document.KindRule:
		return false
	}
	return true
}

// childPlacement returns a child's grid placement, defaulting unplaced
// children to the cell (1,1).
func childPlacement(n *document.Node) document.Placement {
	if n.Placement != nil {
		return *n.Placement
	}
	return document.Placement{X0: 1, Y0: 1, X1: 2, Y1: 2}
}

// naturalSize computes a node's natural size bottom-up: the size it
// would occupy given unconstrained space, including its own margin,
// border and padding.
func (e *engine) naturalSize(n *document.Node, path string) (size, error) {
	a := nodeAttrs(n)
	in := insetsOf(a)

	var content size
	switch n.Kind {
	case document.KindGroup:
		var err error
		if content, err = e.groupNatural(n, path); err != nil {
			return size{}, err
		}
	case document.KindShape:
		content = size{
			w: a.FloatOr(attrWidth, defaultShapeSize),
			h: a.FloatOr(attrHeight, defaultShapeSize),
		}
	case document.KindText:
		lines, _ := a.Strings(attrText)
		fs := a.FloatOr(attrFontSize, defaultFontSize)
		content.w, content.h = textExtent(lines, fs)
	case document.KindPath:
		content.w, content.h = coordsExtent(a)
	case document.KindUse:
		return size{}, errors.New(errors.ErrCodeInternal,
			"%s: unexpanded use node reached layout", path)
	case document.KindStyleDef, document.KindRule:
		return size{}, nil
	}

	nat := size{w: content.w + in.width(), h: content.h + in.height()}
	e.natural[n] = nat
	if err := e.advance(n, stateNaturalSizeKnown, path); err != nil {
		return size{}, err
	}
	return nat, nil
}

// groupNatural computes the natural content size of a grid layout:
// children first (bottom-up requirement), then per-axis interval sizing
// under the group's explicit minx/miny constraints.
func (e *engine) groupNatural(n *document.Node, path string) (size, error) {
	a := nodeAttrs(n)

	var cellsX, cellsY []cellReq
	lastX, lastY := 1, 1
	for _, c := range n.Children {
		if !drawable(c) {
			continue
		}
		nat, err := e.naturalSize(c, path+"/"+c.Label())
		if err != nil {
			return size{}, err
		}
		p := childPlacement(c)
		if p.X1 > lastX {
			lastX = p.X1
		}
		if p.Y1 > lastY {
			lastY = p.Y1
		}
		cellsX = append(cellsX, cellReq{start: p.X0, end: p.X1, size: nat.w})
		cellsY = append(cellsY, cellReq{start: p.Y0, end: p.Y1, size: nat.h})
	}

	minX := minConstraints(a, attrMinX)
	minY := minConstraints(a, attrMinY)
	for _, m := range minX {
		if m.line+1 > lastX {
			lastX = m.line + 1
		}
	}
	for _, m := range minY {
		if m.line+1 > lastY {
			lastY = m.line + 1
		}
	}

	ax := &axes{x: newDimension(lastX), y: newDimension(lastY)}
	for _, m := range minX {
		if m.literal {
			ax.x.setLiteral(m.line, m.size)
		}
		ax.x.setWeight(m.line, m.weight)
	}
	for _, m := range minY {
		if m.literal {
			ax.y.setLiteral(m.line, m.size)
		}
		ax.y.setWeight(m.line, m.weight)
	}

	if err := ax.x.applyContent(cellsX); err != nil {
		return size{}, errors.Wrap(errors.ErrCodeOverconstrainedLayout, err,
			"%s: x axis", path)
	}
	if err := ax.y.applyContent(cellsY); err != nil {
		return size{}, errors.Wrap(errors.ErrCodeOverconstrainedLayout, err,
			"%s: y axis", path)
	}

	e.dims[n] = ax
	return size{w: ax.x.minSum(), h: ax.y.minSum()}, nil
}

// place assigns a node's absolute box within its parent's assignment,
// then recursively places its children into the grid intervals they
// span. A node whose natural size is smaller than the assigned box is
// anchored per axis (-1 start, 0 centre, 1 end); larger content
// overflows with a warning rather than being clipped.
func (e *engine) place(n *document.Node, assigned Box, path string) error {
	if err := e.advance(n, stateBoxAssigned, path); err != nil {
		return err
	}

	a := nodeAttrs(n)
	nat := e.natural[n]
	anchorX, anchorY := anchorOf(a)
	expandX, expandY := expandOf(a)

	x0, x1 := e.axisExtent(assigned.X0, assigned.Width(), nat.w, expandX, anchorX, path, "x")
	y0, y1 := e.axisExtent(assigned.Y0, assigned.Height(), nat.h, expandY, anchorY, path, "y")
	box := Box{x0, y0, x1, y1}
	e.boxes[n] = box

	if n.Kind != document.KindGroup {
		return e.advance(n, statePositioned, path)
	}

	in := insetsOf(a)
	content := box.Inset(in.left, in.top, in.right, in.bottom)
	ax := e.dims[n]

	if expandX && ax.x.totalWeight() <= 0 && content.Width() > ax.x.minSum()+eps {
		e.warn(WarnUnusedExpansion, path, "x", "expand declared but no interval is expansion-eligible")
	}
	if expandY && ax.y.totalWeight() <= 0 && content.Height() > ax.y.minSum()+eps {
		e.warn(WarnUnusedExpansion, path, "y", "expand declared but no interval is expansion-eligible")
	}

	ax.x.place(content.X0, content.Width(), expandX, anchorX)
	ax.y.place(content.Y0, content.Height(), expandY, anchorY)

	for _, c := range n.Children {
		if !drawable(c) {
			continue
		}
		p := childPlacement(c)
		cx0, cx1 := ax.x.spanRange(p.X0, p.X1)
		cy0, cy1 := ax.y.spanRange(p.Y0, p.Y1)
		if err := e.place(c, Box{cx0, cy0, cx1, cy1}, path+"/"+c.Label()); err != nil {
			return err
		}
	}

	return e.advance(n, statePositioned, path)
}

// axisExtent resolves a node's final extent on one axis: the assigned
// extent when expanding, otherwise the natural extent anchored within
// the assignment. Oversized content overflows and is reported.
func (e *engine) axisExtent(origin, assigned, natural float64, expand bool, anchor float64, path, axis string) (float64, float64) {
	eff := natural
	if expand && assigned > natural {
		eff = assigned
	}
	if natural > assigned+eps {
		e.warn(WarnOverflow, path, axis,
			"content overflows assigned extent")
	}
	pos := origin + (assigned-eff)*(anchor+1)/2
	return pos, pos + eff
}

// coordsExtent returns the bounding extent of a path's coordinate list
// (alternating x y values in local units).
func coordsExtent(a document.Attributes) (float64, float64) {
	v, ok := a.Floats(attrCoords)
	if !ok || len(v) < 2 {
		return 0, 0
	}
	minX, maxX := v[0], v[0]
	minY, maxY := v[1], v[1]
	for i := 0; i+1 < len(v); i += 2 {
		if v[i] < minX {
			minX = v[i]
		}
		if v[i] > maxX {
			maxX = v[i]
		}
		if v[i+1] < minY {
			minY = v[i+1]
		}
		if v[i+1] > maxY {
			maxY = v[i+1]
		}
	}
	return maxX - minX, maxY - minY
}
