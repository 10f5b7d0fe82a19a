package sink

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/atthecodeface/diagramc/pkg/errors"
	"github.com/atthecodeface/diagramc/pkg/layout"
	"github.com/atthecodeface/diagramc/pkg/primitive"
)

func parseSVG(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		t.Fatalf("root element = %v, want svg", root)
	}
	return root
}

func TestRenderSVGEmpty(t *testing.T) {
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 100, Y1: 50}, nil)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	svg := parseSVG(t, data)

	if got := svg.SelectAttrValue("viewBox", ""); got != "0 0 100 50" {
		t.Errorf("viewBox = %q", got)
	}
	if got := svg.SelectAttrValue("width", ""); got != "100" {
		t.Errorf("width = %q", got)
	}
	if len(svg.ChildElements()) != 0 {
		t.Errorf("children = %d, want 0", len(svg.ChildElements()))
	}
}

func TestRenderSVGBackground(t *testing.T) {
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}, nil, WithBackground("#fff"))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	svg := parseSVG(t, data)
	kids := svg.ChildElements()
	if len(kids) != 1 || kids[0].Tag != "rect" {
		t.Fatalf("children = %v, want one rect", kids)
	}
	if got := kids[0].SelectAttrValue("fill", ""); got != "#fff" {
		t.Errorf("background fill = %q", got)
	}
}

func TestRenderSVGUnknownKind(t *testing.T) {
	p := primitive.Primitive{Kind: primitive.Kind(99)}
	_, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}, []primitive.Primitive{p})
	if !errors.Is(err, errors.ErrCodeUnsupportedPrimitive) {
		t.Errorf("RenderSVG() error = %v, want UNSUPPORTED_PRIMITIVE", err)
	}
}

func TestRenderSVGRect(t *testing.T) {
	p := primitive.Primitive{
		Kind:    primitive.KindRect,
		NodeID:  "hero",
		Classes: []string{"big", "boxy"},
		Box:     layout.Box{X0: 10, Y0: 20, X1: 40, Y1: 50},
		Style: primitive.Style{
			Fill:        "red",
			Stroke:      "black",
			StrokeWidth: 2,
			Round:       3,
		},
	}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 100, Y1: 100}, []primitive.Primitive{p})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	svg := parseSVG(t, data)
	rect := svg.ChildElements()[0]

	want := map[string]string{
		"x": "10", "y": "20", "width": "30", "height": "30",
		"fill": "red", "stroke": "black", "stroke-width": "2",
		"rx": "3", "id": "hero", "class": "big boxy",
	}
	for k, v := range want {
		if got := rect.SelectAttrValue(k, ""); got != v {
			t.Errorf("rect %s = %q, want %q", k, got, v)
		}
	}
}

func TestRenderSVGUnfilledRect(t *testing.T) {
	p := primitive.Primitive{Kind: primitive.KindRect, Box: layout.Box{X0: 0, Y0: 0, X1: 5, Y1: 5}}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}, []primitive.Primitive{p})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	rect := parseSVG(t, data).ChildElements()[0]
	if got := rect.SelectAttrValue("fill", ""); got != "none" {
		t.Errorf("fill = %q, want none", got)
	}
}

func TestRenderSVGCircle(t *testing.T) {
	p := primitive.Primitive{
		Kind: primitive.KindCircle,
		Box:  layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 10},
	}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 10}, []primitive.Primitive{p})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	c := parseSVG(t, data).ChildElements()[0]
	if c.Tag != "circle" {
		t.Fatalf("tag = %q", c.Tag)
	}
	if got := c.SelectAttrValue("cx", ""); got != "10" {
		t.Errorf("cx = %q", got)
	}
	if got := c.SelectAttrValue("r", ""); got != "5" {
		t.Errorf("r = %q, want half the minor extent", got)
	}
}

func TestRenderSVGPolygonPointCount(t *testing.T) {
	tests := []struct {
		name     string
		stellate float64
		sides    int
		points   int
	}{
		{"plain pentagon", 0, 5, 5},
		{"stellated pentagon doubles vertices", 3, 5, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := primitive.Primitive{
				Kind:     primitive.KindPolygon,
				Box:      layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 20},
				Sides:    tt.sides,
				Stellate: tt.stellate,
			}
			data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 20}, []primitive.Primitive{p})
			if err != nil {
				t.Fatalf("RenderSVG() error = %v", err)
			}
			poly := parseSVG(t, data).ChildElements()[0]
			pts := strings.Fields(poly.SelectAttrValue("points", ""))
			if len(pts) != tt.points {
				t.Errorf("points = %d, want %d", len(pts), tt.points)
			}
		})
	}
}

func TestRenderSVGText(t *testing.T) {
	p := primitive.Primitive{
		Kind:      primitive.KindText,
		Box:       layout.Box{X0: 0, Y0: 0, X1: 40, Y1: 28},
		Style:     primitive.Style{FontSize: 10},
		TextLines: []string{"one", "two"},
	}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 40, Y1: 28}, []primitive.Primitive{p}, WithFontFamily("monospace"))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	text := parseSVG(t, data).ChildElements()[0]
	if text.Tag != "text" {
		t.Fatalf("tag = %q", text.Tag)
	}
	if got := text.SelectAttrValue("font-family", ""); got != "monospace" {
		t.Errorf("font-family = %q", got)
	}
	if got := text.SelectAttrValue("fill", ""); got != "black" {
		t.Errorf("fill = %q, want default black", got)
	}
	spans := text.ChildElements()
	if len(spans) != 2 {
		t.Fatalf("tspans = %d, want 2", len(spans))
	}
	if spans[0].Text() != "one" || spans[1].Text() != "two" {
		t.Errorf("tspan text = %q, %q", spans[0].Text(), spans[1].Text())
	}
	// baseline: line height 14, minus descent 3
	if got := spans[0].SelectAttrValue("y", ""); got != "11" {
		t.Errorf("first baseline = %q, want 11", got)
	}
}

func TestRenderSVGPath(t *testing.T) {
	p := primitive.Primitive{
		Kind:   primitive.KindPath,
		Box:    layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 15},
		Coords: []float64{0, 0, 20, 0, 20, 15},
		Style:  primitive.Style{Stroke: "blue", StrokeWidth: 1},
	}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 15}, []primitive.Primitive{p})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	path := parseSVG(t, data).ChildElements()[0]
	if got := path.SelectAttrValue("d", ""); got != "M 0 0 L 20 0 L 20 15" {
		t.Errorf("d = %q", got)
	}
}

func TestRenderSVGRotation(t *testing.T) {
	p := primitive.Primitive{
		Kind:     primitive.KindRect,
		Box:      layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10},
		Rotation: 45,
	}
	data, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}, []primitive.Primitive{p})
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	rect := parseSVG(t, data).ChildElements()[0]
	if got := rect.SelectAttrValue("transform", ""); got != "rotate(45 5 5)" {
		t.Errorf("transform = %q", got)
	}
}

func TestFnum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100"},
		{1.5, "1.5"},
		{1.2345, "1.234"},
		{-0.0001, "0"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := fnum(tt.in); got != tt.want {
			t.Errorf("fnum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	prims := []primitive.Primitive{
		{Kind: primitive.KindRect, Box: layout.Box{X0: 0, Y0: 0, X1: 10, Y1: 10}, Style: primitive.Style{Fill: "red"}},
		{Kind: primitive.KindCircle, Box: layout.Box{X0: 10, Y0: 0, X1: 20, Y1: 10}},
	}
	a, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 10}, prims)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	b, err := RenderSVG(layout.Box{X0: 0, Y0: 0, X1: 20, Y1: 10}, prims)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if string(a) != string(b) {
		t.Error("identical input produced different output")
	}
}
