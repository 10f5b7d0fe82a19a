package sink

import (
	"fmt"
	"math"
	"strings"

	"github.com/beevik/etree"

	"github.com/atthecodeface/diagramc/pkg/errors"
	"github.com/atthecodeface/diagramc/pkg/layout"
	"github.com/atthecodeface/diagramc/pkg/primitive"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Text baselines sit one descender above the line's bottom edge; keep in
// step with the layout engine's metrics.
const (
	fontAscent  = 1.1
	fontDescent = 0.3
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	fontFamily string
}

// WithBackground fills the whole canvas with the given colour before any
// primitive is drawn.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithFontFamily sets the default font family for text primitives that
// do not carry their own.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// RenderSVG serializes the primitive sequence into an SVG document
// covering bounds. Primitives are emitted in order, so later ones paint
// over earlier ones.
func RenderSVG(bounds layout.Box, prims []primitive.Primitive, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", svgNamespace)
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", fnum(bounds.Width()), fnum(bounds.Height())))
	svg.CreateAttr("width", fnum(bounds.Width()))
	svg.CreateAttr("height", fnum(bounds.Height()))

	if r.background != "" {
		bg := svg.CreateElement("rect")
		bg.CreateAttr("width", fnum(bounds.Width()))
		bg.CreateAttr("height", fnum(bounds.Height()))
		bg.CreateAttr("fill", r.background)
	}

	for _, p := range prims {
		if err := r.renderPrimitive(svg, p); err != nil {
			return nil, err
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (r *svgRenderer) renderPrimitive(parent *etree.Element, p primitive.Primitive) error {
	var el *etree.Element
	switch p.Kind {
	case primitive.KindRect:
		el = renderRect(parent, p)
	case primitive.KindCircle:
		el = renderCircle(parent, p)
	case primitive.KindPolygon:
		el = renderPolygon(parent, p)
	case primitive.KindText:
		el = r.renderText(parent, p)
	case primitive.KindPath:
		el = renderPath(parent, p)
	default:
		return errors.New(errors.ErrCodeUnsupportedPrimitive,
			"cannot serialize primitive kind %s", p.Kind)
	}

	if p.NodeID != "" {
		el.CreateAttr("id", p.NodeID)
	}
	if len(p.Classes) > 0 {
		el.CreateAttr("class", strings.Join(p.Classes, " "))
	}
	if p.Rotation != 0 {
		el.CreateAttr("transform", fmt.Sprintf("rotate(%s %s %s)",
			fnum(p.Rotation), fnum(p.Box.CenterX()), fnum(p.Box.CenterY())))
	}
	return nil
}

func paintAttrs(el *etree.Element, s primitive.Style) {
	el.CreateAttr("fill", orNone(s.Fill))
	if s.Stroke != "" {
		el.CreateAttr("stroke", s.Stroke)
	}
	if s.StrokeWidth > 0 {
		el.CreateAttr("stroke-width", fnum(s.StrokeWidth))
	}
}

func renderRect(parent *etree.Element, p primitive.Primitive) *etree.Element {
	el := parent.CreateElement("rect")
	el.CreateAttr("x", fnum(p.Box.X0))
	el.CreateAttr("y", fnum(p.Box.Y0))
	el.CreateAttr("width", fnum(p.Box.Width()))
	el.CreateAttr("height", fnum(p.Box.Height()))
	if p.Style.Round > 0 {
		el.CreateAttr("rx", fnum(p.Style.Round))
	}
	paintAttrs(el, p.Style)
	return el
}

func renderCircle(parent *etree.Element, p primitive.Primitive) *etree.Element {
	el := parent.CreateElement("circle")
	el.CreateAttr("cx", fnum(p.Box.CenterX()))
	el.CreateAttr("cy", fnum(p.Box.CenterY()))
	el.CreateAttr("r", fnum(math.Min(p.Box.Width(), p.Box.Height())/2))
	paintAttrs(el, p.Style)
	return el
}

// renderPolygon draws a regular polygon inscribed in the box. A stellate
// value pulls every other vertex inward by that amount, doubling the
// vertex count to form a star.
func renderPolygon(parent *etree.Element, p primitive.Primitive) *etree.Element {
	el := parent.CreateElement("polygon")

	cx, cy := p.Box.CenterX(), p.Box.CenterY()
	outer := math.Min(p.Box.Width(), p.Box.Height()) / 2
	inner := outer - p.Stellate

	n := p.Sides
	total := n
	if p.Stellate > 0 {
		total = 2 * n
	}
	pts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		radius := outer
		if p.Stellate > 0 && i%2 == 1 {
			radius = inner
		}
		angle := 2*math.Pi*float64(i)/float64(total) - math.Pi/2
		pts = append(pts, fmt.Sprintf("%s,%s",
			fnum(cx+radius*math.Cos(angle)), fnum(cy+radius*math.Sin(angle))))
	}
	el.CreateAttr("points", strings.Join(pts, " "))
	paintAttrs(el, p.Style)
	return el
}

func (r *svgRenderer) renderText(parent *etree.Element, p primitive.Primitive) *etree.Element {
	el := parent.CreateElement("text")
	el.CreateAttr("x", fnum(p.Box.CenterX()))
	el.CreateAttr("text-anchor", "middle")
	el.CreateAttr("font-size", fnum(p.Style.FontSize))
	family := p.Style.FontFamily
	if family == "" {
		family = r.fontFamily
	}
	if family != "" {
		el.CreateAttr("font-family", family)
	}
	fill := p.Style.Fill
	if fill == "" {
		fill = "black"
	}
	el.CreateAttr("fill", fill)

	lh := p.Style.FontSize * (fontAscent + fontDescent)
	for i, line := range p.TextLines {
		ts := el.CreateElement("tspan")
		ts.CreateAttr("x", fnum(p.Box.CenterX()))
		ts.CreateAttr("y", fnum(p.Box.Y0+float64(i+1)*lh-p.Style.FontSize*fontDescent))
		ts.SetText(line)
	}
	return el
}

func renderPath(parent *etree.Element, p primitive.Primitive) *etree.Element {
	el := parent.CreateElement("path")
	var d strings.Builder
	for i := 0; i+1 < len(p.Coords); i += 2 {
		if i == 0 {
			d.WriteString("M ")
		} else {
			d.WriteString(" L ")
		}
		d.WriteString(fnum(p.Coords[i]))
		d.WriteByte(' ')
		d.WriteString(fnum(p.Coords[i+1]))
	}
	el.CreateAttr("d", d.String())
	paintAttrs(el, p.Style)
	return el
}

func orNone(color string) string {
	if color == "" {
		return "none"
	}
	return color
}

// fnum formats a coordinate with enough precision for pixel-accurate
// output while keeping integers clean.
func fnum(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
