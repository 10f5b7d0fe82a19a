package primitive

import (
	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/errors"
	"github.com/atthecodeface/diagramc/pkg/layout"
)

// Emit walks the positioned tree depth-first and produces the ordered
// primitive sequence: parents before children, children in declaration
// order, so later primitives paint over earlier ones.
func Emit(res *layout.Result) ([]Primitive, error) {
	var out []Primitive
	if err := emitNode(res, res.Root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func emitNode(res *layout.Result, n *document.Node, out *[]Primitive) error {
	switch n.Kind {
	case document.KindStyleDef, document.KindRule:
		return nil
	case document.KindGroup:
		if p, ok := groupPrimitive(res, n); ok {
			*out = append(*out, p)
		}
		for _, c := range n.Children {
			if err := emitNode(res, c, out); err != nil {
				return err
			}
		}
		return nil
	case document.KindShape:
		*out = append(*out, shapePrimitive(res, n))
		return nil
	case document.KindText:
		*out = append(*out, textPrimitive(res, n))
		return nil
	case document.KindPath:
		*out = append(*out, pathPrimitive(res, n))
		return nil
	default:
		return errors.New(errors.ErrCodeUnsupportedPrimitive,
			"cannot render node kind %s", n.Kind)
	}
}

// base fills the fields common to all primitives.
func base(res *layout.Result, n *document.Node, kind Kind) Primitive {
	a := attrsOf(n)
	box, _ := res.BoxOf(n)
	return Primitive{
		Kind:     kind,
		NodeID:   n.ID,
		Classes:  append([]string(nil), n.Classes...),
		Box:      transformBox(a, borderBox(n, box)),
		Rotation: a.FloatOr(attrRotate, 0),
	}
}

// groupPrimitive renders a group's own background and border as a rect,
// when it has either. Groups without presentation are pure containers
// and emit nothing themselves.
func groupPrimitive(res *layout.Result, n *document.Node) (Primitive, bool) {
	a := attrsOf(n)
	bg := colorOf(a, attrBG)
	bw := a.FloatOr(attrBorderWidth, 0)
	if bg == "" && bw <= 0 {
		return Primitive{}, false
	}
	p := base(res, n, KindRect)
	p.Style = Style{
		Fill:        bg,
		Stroke:      colorOf(a, attrBorderColor),
		StrokeWidth: bw,
		Round:       a.FloatOr(attrBorderRound, 0),
	}
	return p, true
}

func shapeStyle(a document.Attributes) Style {
	return Style{
		Fill:        colorOf(a, attrFill),
		Stroke:      colorOf(a, attrStroke),
		StrokeWidth: a.FloatOr(attrStrokeWidth, 0),
		Round:       a.FloatOr(attrRound, 0),
	}
}

// shapePrimitive renders a shape node: a rect by default, a polygon when
// a vertex count is given (stellate pulls alternate vertices inward),
// a circle for the degenerate vertex counts 0..2.
func shapePrimitive(res *layout.Result, n *document.Node) Primitive {
	a := attrsOf(n)
	sides, hasSides := a.Ints(attrVertices)
	kind := KindRect
	count := 0
	if hasSides && len(sides) > 0 {
		count = sides[0]
		if count >= 3 {
			kind = KindPolygon
		} else {
			kind = KindCircle
		}
	}
	p := base(res, n, kind)
	p.Style = shapeStyle(a)
	p.Sides = count
	p.Stellate = a.FloatOr(attrStellate, 0)
	return p
}

func textPrimitive(res *layout.Result, n *document.Node) Primitive {
	a := attrsOf(n)
	p := base(res, n, KindText)
	p.Style = Style{
		Fill:       colorOf(a, attrFill),
		FontSize:   a.FloatOr(attrFontSize, defaultFontSize) * scaleOf(a),
		FontFamily: a.StringOr(attrFontFamily, ""),
	}
	p.TextLines = textOf(a)
	return p
}

// pathPrimitive translates a path's local coordinates into absolute
// ones: the local bounding box's minimum corner maps to the box origin.
func pathPrimitive(res *layout.Result, n *document.Node) Primitive {
	a := attrsOf(n)
	p := base(res, n, KindPath)
	p.Style = shapeStyle(a)

	coords, ok := a.Floats(attrCoords)
	if !ok || len(coords) < 2 {
		return p
	}
	minX, minY := coords[0], coords[1]
	for i := 0; i+1 < len(coords); i += 2 {
		if coords[i] < minX {
			minX = coords[i]
		}
		if coords[i+1] < minY {
			minY = coords[i+1]
		}
	}
	s := scaleOf(a)
	abs := make([]float64, len(coords)-len(coords)%2)
	for i := 0; i+1 < len(coords); i += 2 {
		abs[i] = p.Box.X0 + (coords[i]-minX)*s
		abs[i+1] = p.Box.Y0 + (coords[i+1]-minY)*s
	}
	p.Coords = abs
	return p
}
