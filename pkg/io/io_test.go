package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

const sample = `{"graph":[{"name":"g1","data":[
  {"id":"v1","label":"A","coordenates":{"x":0,"y":0},"radius":1,"linkedTo":[{"nodeId":"v2","weight":0.5}]},
  {"id":"v2","label":"B","coordenates":{"x":10,"y":10},"radius":1,"linkedTo":[]}
]}]}`

func TestReadJSON(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if doc.Name() != "g1" {
		t.Errorf("Name() = %q, want %q", doc.Name(), "g1")
	}
}

func TestReadJSON_InvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"graph":[`},
		{"empty document", `{"graph":[]}`},
		{"not an object", `"hello"`},
		{"duplicate ids", `{"graph":[{"name":"g","data":[{"id":"a"},{"id":"a"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadGraph(t *testing.T) {
	p, err := ReadGraph(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadGraph() error: %v", err)
	}
	if len(p.Vertices) != 2 || len(p.Edges) != 1 {
		t.Errorf("got %d vertices, %d edges, want 2/1", len(p.Vertices), len(p.Edges))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	doc := graph.Export("g1", []flow.Vertex{flow.NewVertex("a", "A", flow.Position{X: 3})}, nil)
	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	p, err := ImportGraph(path)
	if err != nil {
		t.Fatalf("ImportGraph() error: %v", err)
	}
	if p.Name != "g1" || len(p.Vertices) != 1 || p.Vertices[0].Position.X != 3 {
		t.Errorf("ImportGraph() = %+v", p)
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ImportJSON(missing) error = nil, want error")
	}
}

func TestArtifact(t *testing.T) {
	doc := graph.Export("g1", nil, nil)
	a, err := NewArtifact(doc)
	if err != nil {
		t.Fatalf("NewArtifact() error: %v", err)
	}
	if a.Filename != "g1.json" {
		t.Errorf("Filename = %q, want %q", a.Filename, "g1.json")
	}

	dir := t.TempDir()
	path, err := a.WriteTo(dir)
	if err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != string(a.Content) {
		t.Error("written content differs")
	}

	bad := Artifact{Filename: "../evil.json"}
	if _, err := bad.WriteTo(dir); err == nil {
		t.Error("WriteTo(../evil.json) error = nil, want error")
	}
}
