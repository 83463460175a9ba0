package graph

import (
	"errors"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/flow"
)

func TestParse(t *testing.T) {
	doc := Document{Graph: []Graph{{
		Name: "g1",
		Data: []Vertex{
			{
				ID: "v1", Label: "A", Coordinates: Coordinates{X: 1, Y: 2}, Radius: 2,
				Data:     &Visual{BackgroundColor: "#ff0000", Color: "#ffffff"},
				LinkedTo: []Link{{NodeID: "v2", Weight: 0.5, Color: "#00ff00", LineType: "dashed"}},
			},
			{ID: "v2", Label: "B"},
		},
	}}}

	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.Name != "g1" {
		t.Errorf("Name = %q, want %q", p.Name, "g1")
	}
	if len(p.Vertices) != 2 || len(p.Edges) != 1 {
		t.Fatalf("got %d vertices, %d edges, want 2/1", len(p.Vertices), len(p.Edges))
	}

	v1 := p.Vertices[0]
	if v1.Data.Radius != 2 || v1.Position != (flow.Position{X: 1, Y: 2}) {
		t.Errorf("v1 = %+v", v1)
	}
	if v1.Style.BackgroundColor != "#ff0000" || v1.Style.Color != "#ffffff" {
		t.Errorf("v1 style = %+v", v1.Style)
	}
	if v2 := p.Vertices[1]; v2.Data.Radius != flow.DefaultRadius || !v2.Style.IsZero() {
		t.Errorf("v2 = %+v, want default radius and unset style", v2)
	}

	e := p.Edges[0]
	if e.ID != "ev1-v2" || e.Source != "v1" || e.Target != "v2" {
		t.Errorf("edge = %+v", e)
	}
	if e.Data.Weight != 0.5 || e.Data.Color != "#00ff00" || e.Data.LineType != flow.LineDashed {
		t.Errorf("edge data = %+v", e.Data)
	}
}

func TestParse_ParallelEdges(t *testing.T) {
	doc := Document{Graph: []Graph{{
		Name: "g",
		Data: []Vertex{
			{ID: "a", LinkedTo: []Link{{NodeID: "b", Weight: 0.1}, {NodeID: "b", Weight: 0.2}, {NodeID: "b", Weight: 0.3}}},
			{ID: "b"},
		},
	}}}

	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []string{"ea-b", "ea-b-2", "ea-b-3"}
	if len(p.Edges) != len(want) {
		t.Fatalf("len(Edges) = %d, want %d", len(p.Edges), len(want))
	}
	for i, id := range want {
		if p.Edges[i].ID != id {
			t.Errorf("Edges[%d].ID = %q, want %q", i, p.Edges[i].ID, id)
		}
	}
	if p.Collisions != 2 {
		t.Errorf("Collisions = %d, want 2", p.Collisions)
	}

	again, _ := Parse(doc)
	for i := range again.Edges {
		if again.Edges[i].ID != p.Edges[i].ID {
			t.Errorf("re-parse id %d = %q, want %q", i, again.Edges[i].ID, p.Edges[i].ID)
		}
	}
}

func TestParse_SuffixDoesNotShadowRealEdge(t *testing.T) {
	// "ea-b" twice, plus a real edge a -> "b-2" deriving "ea-b-2".
	doc := Document{Graph: []Graph{{
		Data: []Vertex{
			{ID: "a", LinkedTo: []Link{{NodeID: "b-2"}, {NodeID: "b"}, {NodeID: "b"}}},
		},
	}}}
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	got := []string{p.Edges[0].ID, p.Edges[1].ID, p.Edges[2].ID}
	want := []string{"ea-b-2", "ea-b", "ea-b-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids = %v, want %v", got, want)
			break
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want error
	}{
		{"empty document", Document{}, ErrEmptyDocument},
		{"missing vertex id", Document{Graph: []Graph{{Data: []Vertex{{Label: "x"}}}}}, ErrMissingID},
		{"missing link id", Document{Graph: []Graph{{Data: []Vertex{{ID: "a", LinkedTo: []Link{{}}}}}}}, ErrMissingID},
		{"duplicate vertex", Document{Graph: []Graph{{Data: []Vertex{{ID: "a"}, {ID: "a"}}}}}, ErrDuplicateVertexID},
		{"bad line type", Document{Graph: []Graph{{Data: []Vertex{{ID: "a", LinkedTo: []Link{{NodeID: "a", LineType: "dotted"}}}}}}}, flow.ErrInvalidLineType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	vs := []flow.Vertex{
		flow.NewVertex("v1", "A", flow.Position{}),
		flow.NewVertex("v2", "B", flow.Position{X: 5}),
	}
	es := []flow.Edge{{ID: "x", Source: "v1", Target: "v2", Data: flow.EdgeData{LineType: flow.LineContinuous}}}

	doc := Export("g1", vs, es)

	if len(doc.Graph) != 1 || doc.Graph[0].Name != "g1" {
		t.Fatalf("doc = %+v, want one graph named g1", doc)
	}
	data := doc.Graph[0].Data
	if len(data[0].LinkedTo) != 1 {
		t.Fatalf("v1 linkedTo = %+v, want one link", data[0].LinkedTo)
	}
	want := Link{NodeID: "v2", Weight: 0}
	if data[0].LinkedTo[0] != want {
		t.Errorf("v1 link = %+v, want %+v", data[0].LinkedTo[0], want)
	}
	if data[1].LinkedTo == nil || len(data[1].LinkedTo) != 0 {
		t.Errorf("v2 linkedTo = %#v, want empty non-nil", data[1].LinkedTo)
	}
	if data[0].Data != nil {
		t.Errorf("v1 data = %+v, want omitted", data[0].Data)
	}
}

func TestExport_ColorsAndLineType(t *testing.T) {
	vs := []flow.Vertex{{ID: "a", Style: flow.VertexStyle{BackgroundColor: "#123456"}}}
	es := []flow.Edge{
		{ID: "1", Source: "a", Target: "a", Data: flow.EdgeData{Color: "#aaaaaa", LineType: flow.LineDashed}},
		{ID: "2", Source: "a", Target: "a", Data: flow.EdgeData{Color: "#aaaaaa"}, Style: flow.EdgeStyle{Stroke: "#bbbbbb"}},
	}

	links := Export("g", vs, es).Graph[0].Data[0].LinkedTo
	if links[0].Color != "#aaaaaa" || links[0].LineType != "dashed" {
		t.Errorf("link 0 = %+v", links[0])
	}
	if links[1].Color != "#bbbbbb" || links[1].LineType != "" {
		t.Errorf("link 1 = %+v, want stroke color and no lineType", links[1])
	}
	if got := Export("g", vs, es).Graph[0].Data[0].Data; got == nil || got.BackgroundColor != "#123456" {
		t.Errorf("visual = %+v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	vs := []flow.Vertex{
		{ID: "a", Data: flow.VertexData{Label: "A", Radius: 1.5}, Position: flow.Position{X: 10, Y: -3}},
		{ID: "b", Data: flow.VertexData{Label: "B", Radius: 1}, Position: flow.Position{X: 0.25, Y: 99}},
	}
	es := []flow.Edge{
		{ID: "ea-b", Source: "a", Target: "b", Data: flow.EdgeData{Weight: 0.3, Color: "#010101", LineType: flow.LineContinuous}},
		{ID: "ea-b-2", Source: "a", Target: "b", Data: flow.EdgeData{Weight: 0.7, LineType: flow.LineDashed}},
		{ID: "eb-a", Source: "b", Target: "a", Data: flow.EdgeData{LineType: flow.LineContinuous}},
	}

	p, err := Parse(Export("g", vs, es))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	for i, v := range vs {
		got := p.Vertices[i]
		if got.ID != v.ID || got.Data != v.Data || got.Position != v.Position {
			t.Errorf("vertex %d = %+v, want %+v", i, got, v)
		}
	}
	if len(p.Edges) != len(es) {
		t.Fatalf("len(Edges) = %d, want %d", len(p.Edges), len(es))
	}
	for i, e := range es {
		got := p.Edges[i]
		if got.Source != e.Source || got.Target != e.Target || got.Data.Weight != e.Data.Weight || got.Color() != e.Color() {
			t.Errorf("edge %d = %+v, want %+v", i, got, e)
		}
		if got.ID != e.ID {
			t.Errorf("edge %d id = %q, want %q", i, got.ID, e.ID)
		}
	}
}
