package layout

import (
	"strconv"
	"strings"

	"github.com/atthecodeface/diagramc/pkg/document"
)

// Attribute keys read by the layout engine.
const (
	attrAnchor      = "anchor"
	attrExpand      = "expand"
	attrMinX        = "minx"
	attrMinY        = "miny"
	attrPad         = "pad"
	attrMargin      = "margin"
	attrBorderWidth = "border-width"
	attrWidth       = "width"
	attrHeight      = "height"
	attrFontSize    = "font-size"
	attrText        = "text"
	attrCoords      = "coords"
)

// Default content extent for shapes without an explicit width or height.
const defaultShapeSize = 10.0

// nodeAttrs returns the attributes layout should read: the cascaded set
// when the style pass has run, the raw inline set otherwise.
func nodeAttrs(n *document.Node) document.Attributes {
	if n.Resolved != nil {
		return n.Resolved
	}
	return n.Attrs
}

// anchorOf reads the per-axis anchor: -1 start, 0 centre, 1 end. A single
// value applies to both axes. Omitted anchors centre without stretching.
func anchorOf(a document.Attributes) (float64, float64) {
	v, ok := a.Floats(attrAnchor)
	if !ok || len(v) == 0 {
		return 0, 0
	}
	if len(v) == 1 {
		return v[0], v[0]
	}
	return v[0], v[1]
}

// expandOf reports whether the node declares expansion on each axis.
func expandOf(a document.Attributes) (bool, bool) {
	v, ok := a.Floats(attrExpand)
	if !ok || len(v) == 0 {
		return false, false
	}
	if len(v) == 1 {
		return v[0] > 0, v[0] > 0
	}
	return v[0] > 0, v[1] > 0
}

// insets is the per-edge space consumed around content: margin outside
// the border, padding inside it.
type insets struct {
	left, top, right, bottom float64
}

func (in insets) width() float64  { return in.left + in.right }
func (in insets) height() float64 { return in.top + in.bottom }

// edgeValues reads a 1- or 4-element edge attribute (left top right
// bottom; one value applies to all edges).
func edgeValues(a document.Attributes, key string) (float64, float64, float64, float64) {
	v, ok := a.Floats(key)
	if !ok || len(v) == 0 {
		return 0, 0, 0, 0
	}
	if len(v) < 4 {
		return v[0], v[0], v[0], v[0]
	}
	return v[0], v[1], v[2], v[3]
}

// insetsOf combines margin, border width and padding into the total
// per-edge inset between a node's outer box and its content.
func insetsOf(a document.Attributes) insets {
	ml, mt, mr, mb := edgeValues(a, attrMargin)
	pl, pt, pr, pb := edgeValues(a, attrPad)
	bw := a.FloatOr(attrBorderWidth, 0)
	return insets{
		left:   ml + bw + pl,
		top:    mt + bw + pt,
		right:  mr + bw + pr,
		bottom: mb + bw + pb,
	}
}

// minEntry is one explicit per-interval constraint from minx/miny: a
// literal minimum size, or an expansion weight for a "+value" entry.
type minEntry struct {
	line    int
	size    float64
	weight  float64
	literal bool
}

// minConstraints parses a minx/miny attribute: an ordered list of
// (line, size) pairs where a size written "+value" marks the interval
// following line as expansion-eligible with that weight and contributes
// zero to its baseline minimum. A plain size of 0 declares the interval
// without constraining it: it stays free to absorb span deficits.
//
//	minx="1 70 2 +1"  →  interval after line 1 at least 70,
//	                     interval after line 2 grows with weight 1
func minConstraints(a document.Attributes, key string) []minEntry {
	raw, ok := a[key]
	if !ok {
		return nil
	}
	tokens := minTokens(raw)
	var out []minEntry
	for i := 0; i+1 < len(tokens); i += 2 {
		line, ok := tokenInt(tokens[i])
		if !ok {
			return out
		}
		e := minEntry{line: line}
		switch t := tokens[i+1].(type) {
		case string:
			if strings.HasPrefix(t, "+") {
				w, err := strconv.ParseFloat(t[1:], 64)
				if err != nil {
					return out
				}
				e.weight = w
			} else {
				f, err := strconv.ParseFloat(t, 64)
				if err != nil {
					return out
				}
				e.size = f
				e.literal = f > 0
			}
		case float64:
			e.size = t
			e.literal = t > 0
		case int:
			e.size = float64(t)
			e.literal = t > 0
		default:
			return out
		}
		out = append(out, e)
	}
	return out
}

// minTokens flattens the raw attribute value into a token list: either a
// JSON array of numbers/strings, or one space-separated string.
func minTokens(raw any) []any {
	switch t := raw.(type) {
	case []any:
		return t
	case string:
		fields := strings.Fields(t)
		out := make([]any, len(fields))
		for i, f := range fields {
			out[i] = f
		}
		return out
	default:
		return nil
	}
}

func tokenInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}
