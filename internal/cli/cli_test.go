package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/backend"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/store"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"new", "open", "push", "check", "strategy", "edit", "inspect", "render", "serve", "drafts", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func writeGraph(t *testing.T, dir string) string {
	t.Helper()
	st := store.New("g1", store.WithVertices([]flow.Vertex{
		flow.NewVertex("v1", "One", flow.Position{}),
		flow.NewVertex("v2", "Two", flow.Position{X: 100}),
	}))
	st.Connect("v1", "v2")
	path := filepath.Join(dir, "g1.json")
	if err := pkgio.ExportJSON(st.Snapshot(), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestEditCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir)
	out := filepath.Join(dir, "out.json")

	if err := runCLI(t, "edit", path, "--rename", "v1=Entry", "--remove-vertex", "v2", "-o", out); err != nil {
		t.Fatalf("edit: %v", err)
	}
	p, err := pkgio.ImportGraph(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Vertices) != 1 || p.Vertices[0].Data.Label != "Entry" || len(p.Edges) != 0 {
		t.Errorf("edited graph = %+v", p)
	}
}

func TestEditCommandNothingToDo(t *testing.T) {
	path := writeGraph(t, t.TempDir())
	if err := runCLI(t, "edit", path); err != errNothingToDo {
		t.Errorf("edit without flags = %v, want %v", err, errNothingToDo)
	}
}

func TestNewCommandLocal(t *testing.T) {
	dir := t.TempDir()
	if err := runCLI(t, "new", "seeded", "--local", "3", "-d", dir); err != nil {
		t.Fatalf("new: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "seeded.json"))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := graph.UnmarshalDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if g, _ := doc.First(); g.Name != "seeded" || len(g.Data) != 3 {
		t.Errorf("seeded graph = %+v", g)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir := t.TempDir()
	path := writeGraph(t, dir)
	if err := runCLI(t, "render", path, "--format", "dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "g1.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") {
		t.Errorf("dot output = %q", data)
	}
	if err := runCLI(t, "render", path, "--format", "png"); err == nil {
		t.Error("render --format png should fail")
	}
}

func TestStatsOf(t *testing.T) {
	st := store.New("g", store.WithVertices([]flow.Vertex{
		flow.NewVertex("a", "A", flow.Position{}),
		flow.NewVertex("b", "B", flow.Position{}),
	}), store.WithEdges([]flow.Edge{
		{ID: "1", Source: "a", Target: "b", Data: flow.EdgeData{Weight: 0.2, LineType: flow.LineDashed}},
		{ID: "2", Source: "a", Target: "zz", Data: flow.EdgeData{Weight: 0.6}},
	}))
	s := statsOf(st)
	if s.edges != 2 || s.dashed != 1 || s.dangling != 1 || s.outDegree["a"] != 2 || s.inDegree["b"] != 1 {
		t.Errorf("statsOf() = %+v", s)
	}
	if s.meanWeight < 0.39 || s.meanWeight > 0.41 {
		t.Errorf("meanWeight = %v, want 0.4", s.meanWeight)
	}
}

func TestNewCommandRandomKeepsZeroProbability(t *testing.T) {
	var got backend.GenerateRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"graph":[{"name":"rnd","data":[{"id":"1","label":"A","coordenates":{"x":0,"y":0},"radius":1,"linkedTo":[]}]}]}`))
	}))
	defer ts.Close()

	dir := t.TempDir()
	if err := runCLI(t, "new", "--random", "3", "--probability", "0", "--backend", ts.URL, "-d", dir); err != nil {
		t.Fatalf("new --random: %v", err)
	}
	if got.Probability == nil || *got.Probability != 0 {
		t.Errorf("sent probability = %v, want 0", got.Probability)
	}
	if _, err := os.Stat(filepath.Join(dir, "rnd.json")); err != nil {
		t.Errorf("generated graph not written: %v", err)
	}
}
