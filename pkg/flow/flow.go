package flow

import (
	"errors"
	"fmt"
)

// ErrInvalidLineType is returned by [ParseLineType] for values other than
// "continue" and "dashed".
var ErrInvalidLineType = errors.New("invalid line type")

const (
	// DefaultRadius is applied to vertices whose radius is missing or zero.
	DefaultRadius = 1.0

	// RadiusFactor converts a vertex radius into a rendered diameter.
	RadiusFactor = 90.0

	// DefaultBackgroundColor is the vertex fill used when no style is set.
	DefaultBackgroundColor = "#efefef"

	// DefaultEdgeColor is the edge stroke used when no color is set.
	DefaultEdgeColor = "#222222"
)

// LineType is the stroke pattern of an edge.
type LineType string

const (
	// LineContinuous is a solid stroke. It is the default.
	LineContinuous LineType = "continue"
	// LineDashed is a dashed stroke.
	LineDashed LineType = "dashed"
)

// ParseLineType converts a wire value into a LineType. The empty string maps
// to LineContinuous.
func ParseLineType(s string) (LineType, error) {
	switch LineType(s) {
	case "", LineContinuous:
		return LineContinuous, nil
	case LineDashed:
		return LineDashed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLineType, s)
}

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VertexData is the semantic payload of a vertex.
type VertexData struct {
	Label  string  `json:"label"`
	Radius float64 `json:"radius"`
}

// VertexStyle holds optional render colors. Empty fields are unset.
type VertexStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Color           string `json:"color,omitempty"`
}

// IsZero reports whether no color is set.
func (s VertexStyle) IsZero() bool { return s.BackgroundColor == "" && s.Color == "" }

// Vertex is a node on the canvas.
type Vertex struct {
	ID       string      `json:"id"`
	Data     VertexData  `json:"data"`
	Position Position    `json:"position"`
	Style    VertexStyle `json:"style"`
	Selected bool        `json:"selected,omitempty"` // visual only, never exported
}

// NewVertex returns a vertex with the default radius and no style.
func NewVertex(id, label string, pos Position) Vertex {
	return Vertex{
		ID:       id,
		Data:     VertexData{Label: label, Radius: DefaultRadius},
		Position: pos,
	}
}

// Radius returns the vertex radius, falling back to DefaultRadius for zero,
// negative and NaN values.
func (v Vertex) Radius() float64 {
	if !(v.Data.Radius > 0) {
		return DefaultRadius
	}
	return v.Data.Radius
}

// Diameter returns the rendered width and height of the vertex.
func (v Vertex) Diameter() float64 { return v.Radius() * RadiusFactor }

// Fill returns the background color the renderer should use.
func (v Vertex) Fill() string {
	if v.Style.BackgroundColor != "" {
		return v.Style.BackgroundColor
	}
	return DefaultBackgroundColor
}

// EdgeData is the semantic payload of an edge.
type EdgeData struct {
	Weight   float64  `json:"weight"`
	Color    string   `json:"color,omitempty"`
	LineType LineType `json:"lineType,omitempty"`
}

// EdgeStyle holds the live render stroke of an edge.
type EdgeStyle struct {
	Stroke string `json:"stroke,omitempty"`
}

// Edge is a directed connection between two vertices, identified by id.
// Endpoints are not required to exist.
type Edge struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	Target   string    `json:"target"`
	Data     EdgeData  `json:"data"`
	Style    EdgeStyle `json:"style"`
	Selected bool      `json:"selected,omitempty"` // visual only, never exported
}

// EdgeID returns the id derived for the edge from source to target when a
// graph is parsed from its wire form.
func EdgeID(source, target string) string {
	return "e" + source + "-" + target
}

// Color returns the edge's effective color: the live stroke when set,
// otherwise the semantic color. It is empty when neither is set.
func (e Edge) Color() string {
	if e.Style.Stroke != "" {
		return e.Style.Stroke
	}
	return e.Data.Color
}

// Stroke returns the color the renderer should draw the edge with.
func (e Edge) Stroke() string {
	if c := e.Color(); c != "" {
		return c
	}
	return DefaultEdgeColor
}

// Dashed reports whether the edge is drawn with a dashed line.
func (e Edge) Dashed() bool { return e.Data.LineType == LineDashed }

// Ptr returns a pointer to v. It is a convenience for building patches.
func Ptr[T any](v T) *T { return &v }
