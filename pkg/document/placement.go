package document

import (
	"fmt"

	"github.com/atthecodeface/diagramc/pkg/errors"
)

// Placement is a node's occupancy on its parent's grid, expressed as the
// grid-line box from (X0,Y0) to (X1,Y1). A single cell (c,r) is the box
// (c,r)-(c+1,r+1). Grid lines are numbered from 1.
type Placement struct {
	X0, Y0, X1, Y1 int
}

// SingleCell reports whether the placement spans exactly one interval on
// both axes.
func (p Placement) SingleCell() bool {
	return p.X1 == p.X0+1 && p.Y1 == p.Y0+1
}

// Span returns the line range on the given axis: (X0,X1) horizontally,
// (Y0,Y1) vertically.
func (p Placement) Span(vertical bool) (int, int) {
	if vertical {
		return p.Y0, p.Y1
	}
	return p.X0, p.X1
}

// String renders the placement as "(x0,y0)->(x1,y1)" for error reporting.
func (p Placement) String() string {
	return fmt.Sprintf("(%d,%d)->(%d,%d)", p.X0, p.Y0, p.X1, p.Y1)
}

// ParsePlacement extracts a grid placement from raw attributes.
//
// Three spellings are accepted, mirroring the source language:
//
//	grid=c          the cell (c,c)
//	grid=c r        the cell (c,r)
//	grid=c1 r1 c2 [r2]   the span (c1,r1)->(c2,r2)
//	gridx=x1 [x2], gridy=y1 [y2]   per-axis line ranges
//
// gridx/gridy override the corresponding axis of grid; a missing axis
// defaults to lines 1..2. Returns (nil, nil) when no placement attribute
// is present.
func ParsePlacement(a Attributes) (*Placement, error) {
	gx, okX := axisRange(a, "gridx")
	gy, okY := axisRange(a, "gridy")
	g, okG := gridQuad(a)

	var p *Placement
	switch {
	case okX && okY:
		p = &Placement{gx[0], gy[0], gx[1], gy[1]}
	case okX && okG:
		p = &Placement{gx[0], g.Y0, gx[1], g.Y1}
	case okX:
		p = &Placement{gx[0], 1, gx[1], 2}
	case okY && okG:
		p = &Placement{g.X0, gy[0], g.X1, gy[1]}
	case okY:
		p = &Placement{1, gy[0], 2, gy[1]}
	case okG:
		p = &g
	default:
		return nil, nil
	}

	if p.X0 < 1 || p.Y0 < 1 {
		return nil, errors.New(errors.ErrCodeStructural,
			"grid placement %s: line indices are numbered from 1", p)
	}
	if p.X1 <= p.X0 || p.Y1 <= p.Y0 {
		return nil, errors.New(errors.ErrCodeStructural,
			"grid placement %s: end lines must exceed start lines", p)
	}
	return p, nil
}

// axisRange reads a one- or two-element line range: (v, v+1) or (v1, v2).
func axisRange(a Attributes, key string) ([2]int, bool) {
	g, ok := a.Ints(key)
	if !ok || len(g) == 0 {
		return [2]int{}, false
	}
	if len(g) == 1 {
		return [2]int{g[0], g[0] + 1}, true
	}
	return [2]int{g[0], g[1]}, true
}

// gridQuad reads the combined "grid" attribute in its 1..4 element forms.
func gridQuad(a Attributes) (Placement, bool) {
	g, ok := a.Ints("grid")
	if !ok || len(g) == 0 {
		return Placement{}, false
	}
	switch len(g) {
	case 1:
		return Placement{g[0], g[0], g[0] + 1, g[0] + 1}, true
	case 2:
		return Placement{g[0], g[1], g[0] + 1, g[1] + 1}, true
	case 3:
		return Placement{g[0], g[1], g[2], g[1] + 1}, true
	default:
		return Placement{g[0], g[1], g[2], g[3]}, true
	}
}
