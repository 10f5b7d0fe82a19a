package primitive

import (
	"reflect"
	"testing"

	"github.com/atthecodeface/diagramc/pkg/document"
	"github.com/atthecodeface/diagramc/pkg/layout"
)

// resultFor lays out a tree with no frame constraint.
func resultFor(t *testing.T, root *document.Node) *layout.Result {
	t.Helper()
	res, err := layout.Resolve(root, layout.Options{})
	if err != nil {
		t.Fatalf("layout.Resolve() error = %v", err)
	}
	return res
}

func TestEmitOrderAndKinds(t *testing.T) {
	shape := &document.Node{Kind: document.KindShape, ID: "s", Attrs: document.Attributes{
		"grid": []any{1.0, 1.0}, "width": 20.0, "height": 20.0, "fill-color": "red",
	}}
	shape.Placement = &document.Placement{X0: 1, Y0: 1, X1: 2, Y1: 2}
	text := &document.Node{Kind: document.KindText, ID: "t", Attrs: document.Attributes{
		"text": "hi", "font-size": 10.0,
	}}
	text.Placement = &document.Placement{X0: 1, Y0: 2, X1: 2, Y1: 3}
	root := &document.Node{Kind: document.KindGroup, ID: "g", Attrs: document.Attributes{
		"bg": "white",
	}, Children: []*document.Node{shape, text}}

	prims, err := Emit(resultFor(t, root))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	if len(prims) != 3 {
		t.Fatalf("len(prims) = %d, want 3", len(prims))
	}
	// parent background first, then children in declaration order
	if prims[0].Kind != KindRect || prims[0].NodeID != "g" {
		t.Errorf("prims[0] = %v %q", prims[0].Kind, prims[0].NodeID)
	}
	if prims[1].Kind != KindRect || prims[1].NodeID != "s" {
		t.Errorf("prims[1] = %v %q", prims[1].Kind, prims[1].NodeID)
	}
	if prims[2].Kind != KindText || prims[2].NodeID != "t" {
		t.Errorf("prims[2] = %v %q", prims[2].Kind, prims[2].NodeID)
	}

	if prims[0].Style.Fill != "white" {
		t.Errorf("group fill = %q, want white", prims[0].Style.Fill)
	}
	if prims[1].Style.Fill != "red" {
		t.Errorf("shape fill = %q, want red", prims[1].Style.Fill)
	}
	if !reflect.DeepEqual(prims[2].TextLines, []string{"hi"}) {
		t.Errorf("text lines = %v", prims[2].TextLines)
	}
}

func TestEmitPlainGroupIsInvisible(t *testing.T) {
	shape := &document.Node{Kind: document.KindShape, Attrs: document.Attributes{"width": 10.0, "height": 10.0}}
	root := &document.Node{Kind: document.KindGroup, Children: []*document.Node{shape}}

	prims, err := Emit(resultFor(t, root))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if len(prims) != 1 {
		t.Errorf("len(prims) = %d, want 1 (container groups emit nothing)", len(prims))
	}
}

func TestEmitStyleDeclarationsSkipped(t *testing.T) {
	root := &document.Node{Kind: document.KindGroup, Children: []*document.Node{
		{Kind: document.KindStyleDef, ID: "thick", Attrs: document.Attributes{"border-width": 2.0}},
		{Kind: document.KindRule, Attrs: document.Attributes{"class": "x", "fill-color": "red"}},
		{Kind: document.KindShape, Attrs: document.Attributes{"width": 10.0, "height": 10.0}},
	}}

	prims, err := Emit(resultFor(t, root))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if len(prims) != 1 {
		t.Errorf("len(prims) = %d, want 1", len(prims))
	}
}

func TestShapeVariants(t *testing.T) {
	tests := []struct {
		name     string
		attrs    document.Attributes
		wantKind Kind
		sides    int
	}{
		{"default rect", document.Attributes{"width": 10.0, "height": 10.0}, KindRect, 0},
		{"hexagon", document.Attributes{"width": 10.0, "height": 10.0, "vertices": 6.0}, KindPolygon, 6},
		{"circle via zero vertices", document.Attributes{"width": 10.0, "height": 10.0, "vertices": 0.0}, KindCircle, 0},
		{"circle via two vertices", document.Attributes{"width": 10.0, "height": 10.0, "vertices": 2.0}, KindCircle, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &document.Node{Kind: document.KindShape, Attrs: tt.attrs}
			prims, err := Emit(resultFor(t, n))
			if err != nil {
				t.Fatalf("Emit() error = %v", err)
			}
			if prims[0].Kind != tt.wantKind || prims[0].Sides != tt.sides {
				t.Errorf("got %v sides=%d, want %v sides=%d",
					prims[0].Kind, prims[0].Sides, tt.wantKind, tt.sides)
			}
		})
	}
}

func TestStellateAndRotation(t *testing.T) {
	n := &document.Node{Kind: document.KindShape, Attrs: document.Attributes{
		"width": 20.0, "height": 20.0, "vertices": 5.0, "stellate": 4.0, "rotate": 30.0,
	}}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	p := prims[0]
	if p.Kind != KindPolygon || p.Stellate != 4.0 || p.Rotation != 30.0 {
		t.Errorf("got %v stellate=%v rotation=%v", p.Kind, p.Stellate, p.Rotation)
	}
}

func TestPathCoordsTranslated(t *testing.T) {
	n := &document.Node{Kind: document.KindPath, Attrs: document.Attributes{
		"coords": []any{10.0, 10.0, 30.0, 10.0, 30.0, 25.0},
	}}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	p := prims[0]
	if p.Kind != KindPath {
		t.Fatalf("kind = %v, want path", p.Kind)
	}
	// local min corner (10,10) maps onto the box origin
	want := []float64{
		p.Box.X0, p.Box.Y0,
		p.Box.X0 + 20, p.Box.Y0,
		p.Box.X0 + 20, p.Box.Y0 + 15,
	}
	if !reflect.DeepEqual(p.Coords, want) {
		t.Errorf("coords = %v, want %v", p.Coords, want)
	}
}

func TestTranslateAndScale(t *testing.T) {
	n := &document.Node{Kind: document.KindShape, Attrs: document.Attributes{
		"width": 20.0, "height": 20.0, "translate": []any{5.0, 3.0}, "scale": 0.5,
	}}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	// natural box {0,0,20,20}, translated to {5,3,25,23}, then halved
	// about its centre (15,13)
	want := layout.Box{X0: 10, Y0: 8, X1: 20, Y1: 18}
	if prims[0].Box != want {
		t.Errorf("box = %+v, want %+v", prims[0].Box, want)
	}
}

func TestScaledText(t *testing.T) {
	n := &document.Node{Kind: document.KindText, Attrs: document.Attributes{
		"text": "hi", "font-size": 10.0, "scale": 2.0,
	}}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if prims[0].Style.FontSize != 20 {
		t.Errorf("font size = %v, want 20", prims[0].Style.FontSize)
	}
}

func TestScaledPathCoords(t *testing.T) {
	n := &document.Node{Kind: document.KindPath, Attrs: document.Attributes{
		"coords": []any{0.0, 0.0, 10.0, 0.0}, "scale": 2.0,
	}}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	p := prims[0]
	if got := p.Coords[2] - p.Coords[0]; got != 20 {
		t.Errorf("scaled span = %v, want 20", got)
	}
}

func TestColorOf(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"named", "red", "red"},
		{"hex", "#a0b0c0", "#a0b0c0"},
		{"rgb triple", []any{1.0, 0.0, 0.5}, "rgb(255,0,128)"},
		{"short list", []any{1.0}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := document.Attributes{"fill-color": tt.val}
			if got := colorOf(a, "fill-color"); got != tt.want {
				t.Errorf("colorOf() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := colorOf(document.Attributes{}, "fill-color"); got != "" {
		t.Errorf("colorOf(absent) = %q, want empty", got)
	}
}

func TestTextOfSplitsNewlines(t *testing.T) {
	a := document.Attributes{"text": "one\ntwo"}
	if got := textOf(a); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Errorf("textOf() = %v", got)
	}
	a = document.Attributes{"text": []any{"x", "y"}}
	if got := textOf(a); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("textOf(list) = %v", got)
	}
}

func TestResolvedAttrsWin(t *testing.T) {
	n := &document.Node{
		Kind:     document.KindShape,
		Attrs:    document.Attributes{"width": 10.0, "height": 10.0, "fill-color": "red"},
		Resolved: document.Attributes{"width": 10.0, "height": 10.0, "fill-color": "blue"},
	}
	prims, err := Emit(resultFor(t, n))
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if prims[0].Style.Fill != "blue" {
		t.Errorf("fill = %q, want the cascaded value", prims[0].Style.Fill)
	}
}
