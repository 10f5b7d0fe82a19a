package sink

import (
	"encoding/json"

	"github.com/atthecodeface/diagramc/pkg/layout"
	"github.com/atthecodeface/diagramc/pkg/primitive"
)

type jsonOutput struct {
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Primitives []jsonPrimitive `json:"primitives"`
}

type jsonPrimitive struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id,omitempty"`
	Classes   []string  `json:"classes,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Rotation  float64   `json:"rotation,omitempty"`
	Style     jsonStyle `json:"style"`
	Sides     int       `json:"sides,omitempty"`
	Stellate  float64   `json:"stellate,omitempty"`
	TextLines []string  `json:"text_lines,omitempty"`
	Coords    []float64 `json:"coords,omitempty"`
}

type jsonStyle struct {
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Round       float64 `json:"round,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	FontFamily  string  `json:"font_family,omitempty"`
}

// RenderJSON exports the primitive sequence as a pretty-printed JSON
// document: the data interchange form for external tooling and for
// artifact caching. Rendering the same primitives twice yields
// byte-identical output.
func RenderJSON(bounds layout.Box, prims []primitive.Primitive) ([]byte, error) {
	out := jsonOutput{
		Width:      bounds.Width(),
		Height:     bounds.Height(),
		Primitives: make([]jsonPrimitive, 0, len(prims)),
	}
	for _, p := range prims {
		out.Primitives = append(out.Primitives, jsonPrimitive{
			Kind:     p.Kind.String(),
			ID:       p.NodeID,
			Classes:  p.Classes,
			X:        p.Box.X0,
			Y:        p.Box.Y0,
			Width:    p.Box.Width(),
			Height:   p.Box.Height(),
			Rotation: p.Rotation,
			Style: jsonStyle{
				Fill:        p.Style.Fill,
				Stroke:      p.Style.Stroke,
				StrokeWidth: p.Style.StrokeWidth,
				Round:       p.Style.Round,
				FontSize:    p.Style.FontSize,
				FontFamily:  p.Style.FontFamily,
			},
			Sides:     p.Sides,
			Stellate:  p.Stellate,
			TextLines: p.TextLines,
			Coords:    p.Coords,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
