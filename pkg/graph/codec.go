package graph

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/matzehuels/flowgraph/pkg/flow"
)

var (
	// ErrEmptyDocument is returned by [Parse] when the document has no graphs.
	ErrEmptyDocument = errors.New("document contains no graph")

	// ErrMissingID is returned by [Parse] when a vertex or link has an empty id.
	ErrMissingID = errors.New("missing vertex id")

	// ErrDuplicateVertexID is returned by [Parse] when two vertices share an id.
	// Vertex ids must be unique within a graph.
	ErrDuplicateVertexID = errors.New("duplicate vertex id")
)

// Parsed is the in-memory form of a document's first graph.
type Parsed struct {
	Name     string
	Vertices []flow.Vertex
	Edges    []flow.Edge

	// Collisions counts adjacency entries whose derived edge id was already
	// taken and received a numeric suffix.
	Collisions int
}

// Parse converts the first graph of doc into vertices and edges.
//
// Missing or non-positive radii become [flow.DefaultRadius]; a missing style
// block leaves the style unset. Adjacency entries become edges in document
// order with ids from [flow.EdgeID]. Edge endpoints are not checked against
// the vertex list.
func Parse(doc Document) (Parsed, error) {
	g, ok := doc.First()
	if !ok {
		return Parsed{}, ErrEmptyDocument
	}

	p := Parsed{
		Name:     g.Name,
		Vertices: make([]flow.Vertex, 0, len(g.Data)),
		Edges:    make([]flow.Edge, 0, g.EdgeCount()),
	}

	seen := make(map[string]bool, len(g.Data))
	for i, wv := range g.Data {
		id := string(wv.ID)
		if id == "" {
			return Parsed{}, fmt.Errorf("vertex %d: %w", i, ErrMissingID)
		}
		if seen[id] {
			return Parsed{}, fmt.Errorf("%w: %q", ErrDuplicateVertexID, id)
		}
		seen[id] = true
		p.Vertices = append(p.Vertices, toVertex(wv))
	}

	used := make(map[string]bool, cap(p.Edges))
	for _, wv := range g.Data {
		src := string(wv.ID)
		for j, l := range wv.LinkedTo {
			dst := string(l.NodeID)
			if dst == "" {
				return Parsed{}, fmt.Errorf("vertex %q link %d: %w", src, j, ErrMissingID)
			}
			lt, err := flow.ParseLineType(l.LineType)
			if err != nil {
				return Parsed{}, fmt.Errorf("vertex %q link %d: %w", src, j, err)
			}

			id := flow.EdgeID(src, dst)
			if used[id] {
				p.Collisions++
				id = nextFreeID(id, used)
			}
			used[id] = true

			p.Edges = append(p.Edges, flow.Edge{
				ID:     id,
				Source: src,
				Target: dst,
				Data:   flow.EdgeData{Weight: l.Weight, Color: l.Color, LineType: lt},
			})
		}
	}
	return p, nil
}

func nextFreeID(base string, used map[string]bool) string {
	for n := 2; ; n++ {
		id := base + "-" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

func toVertex(wv Vertex) flow.Vertex {
	radius := wv.Radius
	if radius <= 0 {
		radius = flow.DefaultRadius
	}
	v := flow.Vertex{
		ID:       string(wv.ID),
		Data:     flow.VertexData{Label: wv.Label, Radius: radius},
		Position: flow.Position{X: wv.Coordinates.X, Y: wv.Coordinates.Y},
	}
	if wv.Data != nil {
		v.Style = flow.VertexStyle{BackgroundColor: wv.Data.BackgroundColor, Color: wv.Data.Color}
	}
	return v
}

// Export builds a single-graph document named id.
//
// Each vertex's adjacency is rebuilt by scanning all edges for those whose
// source is the vertex, in edge order. Edges whose source is not a vertex
// are not represented. The edge color written is the live stroke if set,
// otherwise the semantic color; lineType is written only for dashed edges.
// A non-positive radius is written as flow.DefaultRadius; store.Store keeps
// radii normalized so its contents round-trip exactly.
func Export(id string, vertices []flow.Vertex, edges []flow.Edge) Document {
	data := make([]Vertex, 0, len(vertices))
	for _, v := range vertices {
		wv := Vertex{
			ID:          ID(v.ID),
			Label:       v.Data.Label,
			Coordinates: Coordinates{X: v.Position.X, Y: v.Position.Y},
			Radius:      v.Radius(),
			LinkedTo:    []Link{},
		}
		if !v.Style.IsZero() {
			wv.Data = &Visual{Color: v.Style.Color, BackgroundColor: v.Style.BackgroundColor}
		}
		for _, e := range edges {
			if e.Source != v.ID {
				continue
			}
			l := Link{NodeID: ID(e.Target), Weight: e.Data.Weight, Color: e.Color()}
			if e.Dashed() {
				l.LineType = string(flow.LineDashed)
			}
			wv.LinkedTo = append(wv.LinkedTo, l)
		}
		data = append(data, wv)
	}
	return Document{Graph: []Graph{{Name: id, Data: data}}}
}
