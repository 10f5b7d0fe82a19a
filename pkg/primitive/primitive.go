// Package primitive projects a positioned document tree onto a flat,
// ordered sequence of drawing primitives for the serializers.
//
// The projection introduces no new computation: boxes come from the
// layout result, presentation attributes from the style cascade. The
// only failure mode is being handed a node kind the adapter does not
// recognize, which indicates an internal invariant violation upstream.
package primitive

import (
	"fmt"
	"strings"

	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/layout"
)

// Kind identifies a drawing primitive.
type Kind int

// Primitive kinds.
const (
	KindRect Kind = iota
	KindCircle
	KindPolygon
	KindText
	KindPath
)

// String returns the serializer-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	case KindPath:
		return "path"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Style carries the cascaded presentation attributes a serializer needs,
// already resolved to final values. Empty colour strings mean "none".
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Round       float64
	FontSize    float64
	FontFamily  string
}

// Primitive is one positioned, styled drawing operation. Rotation is in
// degrees, applied about the box centre.
type Primitive struct {
	Kind     Kind
	NodeID   string
	Classes  []string
	Box      layout.Box
	Rotation float64
	Style    Style

	// Sides and Stellate shape polygon primitives.
	Sides    int
	Stellate float64

	// TextLines is set for text primitives.
	TextLines []string

	// Coords holds absolute x,y pairs for path primitives.
	Coords []float64
}

// Attribute keys read by the adapter.
const (
	attrBG          = "bg"
	attrBorderColor = "border-color"
	attrBorderRound = "border-round"
	attrBorderWidth = "border-width"
	attrFill        = "fill-color"
	attrStroke      = "stroke-color"
	attrStrokeWidth = "stroke-width"
	attrRound       = "round"
	attrVertices    = "vertices"
	attrStellate    = "stellate"
	attrRotate      = "rotate"
	attrTranslate   = "translate"
	attrScale       = "scale"
	attrFontSize    = "font-size"
	attrFontFamily  = "font-family"
	attrText        = "text"
	attrCoords      = "coords"
	attrMargin      = "margin"
)

const defaultFontSize = 10.0

// colorOf resolves a colour attribute to a serializer token: a name or
// #hex string passes through, an r g b float triple (0..1) becomes an
// rgb() term. Absent colours return "".
func colorOf(a document.Attributes, key string) string {
	if s, ok := a.String(key); ok {
		return s
	}
	v, ok := a.Floats(key)
	if !ok || len(v) < 3 {
		return ""
	}
	return fmt.Sprintf("rgb(%d,%d,%d)",
		int(v[0]*255+0.5), int(v[1]*255+0.5), int(v[2]*255+0.5))
}

// attrsOf returns the cascaded attributes for a node, falling back to
// the inline set for trees that skipped the style pass.
func attrsOf(n *document.Node) document.Attributes {
	if n.Resolved != nil {
		return n.Resolved
	}
	return n.Attrs
}

// borderBox shrinks a node's assigned box by its margin: the rectangle
// the border (and everything inside it) is drawn in.
func borderBox(n *document.Node, b layout.Box) layout.Box {
	v, ok := attrsOf(n).Floats(attrMargin)
	if !ok || len(v) == 0 {
		return b
	}
	if len(v) < 4 {
		return b.Inset(v[0], v[0], v[0], v[0])
	}
	return b.Inset(v[0], v[1], v[2], v[3])
}

// scaleOf returns the node's uniform scale factor, 1 when absent or
// non-positive.
func scaleOf(a document.Attributes) float64 {
	s := a.FloatOr(attrScale, 1)
	if s <= 0 {
		return 1
	}
	return s
}

// transformBox applies the node's translate and scale attributes to its
// border box. Scale is uniform, about the box centre, after translation.
func transformBox(a document.Attributes, b layout.Box) layout.Box {
	if t, ok := a.Floats(attrTranslate); ok && len(t) >= 2 {
		b = b.Translate(t[0], t[1])
	}
	if s := scaleOf(a); s != 1 {
		b = b.ScaleAbout(b.CenterX(), b.CenterY(), s)
	}
	return b
}

// textOf returns a text node's lines. A single string with embedded
// newlines is split; a string list is taken as-is.
func textOf(a document.Attributes) []string {
	lines, ok := a.Strings(attrText)
	if !ok {
		return nil
	}
	if len(lines) == 1 && strings.Contains(lines[0], "\n") {
		return strings.Split(lines[0], "\n")
	}
	return lines
}
