// Package layout implements the grid-constraint layout engine.
//
// Layout is a pure, two-pass computation over an expanded, style-annotated
// document tree. The first pass computes natural sizes bottom-up; the
// second assigns absolute boxes top-down. Both axes of a grid are solved
// independently: per-interval minimums come from explicit constraints,
// single-cell content, and spanning lower bounds, then leftover space is
// distributed across expansion-eligible intervals by weight.
//
// The engine never mutates the document tree; resolved geometry is
// returned alongside it and is immutable thereafter.
package layout

// Box is an absolute axis-aligned rectangle in document units. Y grows
// downwards, matching the output coordinate space.
type Box struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return (b.Y0 + b.Y1) / 2 }

// Inset returns the box shrunk by the given amounts per edge. The result
// may be inverted if the insets exceed the box; callers clamp as needed.
func (b Box) Inset(left, top, right, bottom float64) Box {
	return Box{b.X0 + left, b.Y0 + top, b.X1 - right, b.Y1 - bottom}
}

// Translate returns the box shifted by dx, dy.
func (b Box) Translate(dx, dy float64) Box {
	return Box{b.X0 + dx, b.Y0 + dy, b.X1 + dx, b.Y1 + dy}
}

// ScaleAbout returns the box scaled by s about the point cx, cy.
func (b Box) ScaleAbout(cx, cy, s float64) Box {
	return Box{
		cx + (b.X0-cx)*s, cy + (b.Y0-cy)*s,
		cx + (b.X1-cx)*s, cy + (b.Y1-cy)*s,
	}
}

// Contains reports whether inner lies fully within b, within eps.
func (b Box) Contains(inner Box) bool {
	const eps = 1e-9
	return inner.X0 >= b.X0-eps && inner.Y0 >= b.Y0-eps &&
		inner.X1 <= b.X1+eps && inner.Y1 <= b.Y1+eps
}
