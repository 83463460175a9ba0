package cli

import (
	"testing"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/store"
)

func editStore() *store.Store {
	return store.New("g1",
		store.WithVertices([]flow.Vertex{
			flow.NewVertex("v1", "One", flow.Position{}),
			flow.NewVertex("v2", "Two", flow.Position{X: 10}),
			flow.NewVertex("v3", "Three", flow.Position{Y: 10}),
		}),
		store.WithEdges([]flow.Edge{{ID: "ev1-v2", Source: "v1", Target: "v2"}}),
	)
}

func TestEditApply(t *testing.T) {
	st := editStore()
	opts := editOpts{
		rename:     []string{"v1=Entry"},
		background: []string{"v1=#ffcc00"},
		move:       []string{"v2=120, 40"},
		connect:    []string{"v2:v3"},
		weight:     []string{"ev1-v2=0.5"},
		lineType:   []string{"ev1-v2=dashed"},
		stroke:     []string{"ev1-v2=#00ff00"},
		removeV:    []string{"v3"},
	}

	sum, err := opts.apply(st)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if sum.edits != 8 {
		t.Errorf("edits = %d, want 8", sum.edits)
	}
	if len(sum.connected) != 1 {
		t.Fatalf("connected = %v, want one edge", sum.connected)
	}

	v1, _ := st.VertexByID("v1")
	if v1.Data.Label != "Entry" || v1.Style.BackgroundColor != "#ffcc00" {
		t.Errorf("v1 = %+v", v1)
	}
	v2, _ := st.VertexByID("v2")
	if v2.Position != (flow.Position{X: 120, Y: 40}) {
		t.Errorf("v2 position = %+v", v2.Position)
	}
	e, _ := st.EdgeByID("ev1-v2")
	if e.Data.Weight != 0.5 || !e.Dashed() || e.Stroke() != "#00ff00" {
		t.Errorf("edge = %+v", e)
	}
	if _, ok := st.EdgeByID(sum.connected[0].ID); ok {
		t.Error("edge to removed vertex v3 survived")
	}
	if st.VertexCount() != 2 {
		t.Errorf("VertexCount = %d, want 2", st.VertexCount())
	}
}

func TestEditApply_SkipEmpty(t *testing.T) {
	st := editStore()
	if _, err := (&editOpts{rename: []string{"v1="}}).apply(st); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v, _ := st.VertexByID("v1"); v.Data.Label != "One" {
		t.Errorf("label = %q, want One", v.Data.Label)
	}

	_, err := (&editOpts{rename: []string{"v1="}, overwrite: true}).apply(st)
	if fgerrors.GetCode(err) != fgerrors.ErrCodeInvalidLabel {
		t.Errorf("overwrite empty label: code = %q, want %q", fgerrors.GetCode(err), fgerrors.ErrCodeInvalidLabel)
	}
}

func TestEditApply_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts editOpts
		want fgerrors.Code
	}{
		{"malformed pair", editOpts{rename: []string{"v1"}}, fgerrors.ErrCodeInvalidInput},
		{"unknown vertex", editOpts{rename: []string{"zz=x"}}, fgerrors.ErrCodeNotFound},
		{"bad color", editOpts{background: []string{"v1=orange"}}, fgerrors.ErrCodeInvalidColor},
		{"bad connect", editOpts{connect: []string{"v1"}}, fgerrors.ErrCodeInvalidInput},
		{"connect unknown", editOpts{connect: []string{"v1:zz"}}, fgerrors.ErrCodeNotFound},
		{"bad weight", editOpts{weight: []string{"ev1-v2=heavy"}}, fgerrors.ErrCodeInvalidInput},
		{"weight range", editOpts{weight: []string{"ev1-v2=3"}}, fgerrors.ErrCodeInvalidInput},
		{"bad line", editOpts{lineType: []string{"ev1-v2=dotted"}}, fgerrors.ErrCodeInvalidInput},
		{"bad move", editOpts{move: []string{"v1=1"}}, fgerrors.ErrCodeInvalidInput},
		{"unknown edge", editOpts{removeE: []string{"nope"}}, fgerrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.apply(editStore())
			if got := fgerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestEditOptsEmpty(t *testing.T) {
	if !(&editOpts{}).empty() {
		t.Error("zero editOpts should be empty")
	}
	if !(&editOpts{overwrite: true}).empty() {
		t.Error("--overwrite alone is not an edit")
	}
	if (&editOpts{removeE: []string{"e"}}).empty() {
		t.Error("removal is an edit")
	}
}

func TestEditApply_ConnectWithEdgeEdits(t *testing.T) {
	st := editStore()
	opts := editOpts{
		connect:  []string{"v2:v3"},
		weight:   []string{"ev1-v2=0.5"},
		lineType: []string{"ev1-v2=dashed"},
	}
	sum, err := opts.apply(st)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(sum.connected) != 1 || sum.connected[0].ID == "ev2-v3" {
		t.Errorf("connected = %+v, want one edge with a generated id", sum.connected)
	}
	if e, _ := st.EdgeByID("ev1-v2"); e.Data.Weight != 0.5 || !e.Dashed() {
		t.Errorf("edited edge = %+v", e)
	}

	_, err = (&editOpts{connect: []string{"v1:v3"}, weight: []string{"ev1-v3=0.5"}}).apply(editStore())
	if fgerrors.GetCode(err) != fgerrors.ErrCodeNotFound {
		t.Errorf("weight on a just-connected derived id: code = %q, want %q", fgerrors.GetCode(err), fgerrors.ErrCodeNotFound)
	}
}
