package graph

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestUnmarshalDocument(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantFirst string
		wantErr   bool
	}{
		{
			name:      "wrapped",
			input:     `{"graph":[{"name":"g1","data":[{"id":"v1","label":"A","coordenates":{"x":0,"y":0},"radius":1,"linkedTo":[]}]}]}`,
			wantName:  "g1",
			wantFirst: "v1",
		},
		{
			name:      "bare graph",
			input:     `{"name":"g2","data":[{"id":"x","label":"X","coordenates":{"x":1,"y":1},"linkedTo":[]}]}`,
			wantName:  "g2",
			wantFirst: "x",
		},
		{
			name:      "numeric ids",
			input:     `{"graph":[{"name":"n","data":[{"id":7,"label":"7","coordenates":{"x":0,"y":0},"linkedTo":[{"nodeId":8,"weight":1}]}]}]}`,
			wantName:  "n",
			wantFirst: "7",
		},
		{name: "malformed", input: `{"graph":[`, wantErr: true},
		{name: "array", input: `[]`, wantErr: true},
		{name: "unknown shape", input: `{"nodes":[]}`, wantErr: true},
		{name: "bool id", input: `{"graph":[{"name":"b","data":[{"id":true}]}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := UnmarshalDocument([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if doc.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", doc.Name(), tt.wantName)
			}
			if got := string(doc.Graph[0].Data[0].ID); got != tt.wantFirst {
				t.Errorf("first id = %q, want %q", got, tt.wantFirst)
			}
		})
	}
}

func TestUnmarshalDocument_UnrecognizedSentinel(t *testing.T) {
	_, err := UnmarshalDocument([]byte(`{"foo":1}`))
	if !errors.Is(err, ErrUnrecognizedDocument) {
		t.Errorf("error = %v, want ErrUnrecognizedDocument", err)
	}
}

func TestNumericIDsParseAsStrings(t *testing.T) {
	doc, err := UnmarshalDocument([]byte(`{"graph":[{"name":"n","data":[{"id":1,"label":"a","coordenates":{"x":0,"y":0},"linkedTo":[{"nodeId":2,"weight":0.5}]},{"id":2,"label":"b","coordenates":{"x":0,"y":0},"linkedTo":[]}]}]}`))
	if err != nil {
		t.Fatalf("UnmarshalDocument() error: %v", err)
	}
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if p.Edges[0].ID != "e1-2" || p.Edges[0].Source != "1" || p.Edges[0].Target != "2" {
		t.Errorf("edge = %+v", p.Edges[0])
	}
}

func TestWriteDocument(t *testing.T) {
	doc := Document{Graph: []Graph{{
		Name: "g1",
		Data: []Vertex{{ID: "v1", Label: "A", Radius: 1, LinkedTo: []Link{{NodeID: "v2"}}}},
	}}}

	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc); err != nil {
		t.Fatalf("WriteDocument() error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{`"coordenates"`, `"linkedTo"`, `"nodeId": "v2"`, `"weight": 0`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{`"lineType"`, `"color"`, `"data": {`} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output contains %s:\n%s", unwanted, out)
		}
	}

	back, err := ReadDocument(&buf)
	if err != nil {
		t.Fatalf("ReadDocument() error: %v", err)
	}
	if back.Name() != "g1" || len(back.Graph[0].Data) != 1 {
		t.Errorf("ReadDocument() = %+v", back)
	}
}
