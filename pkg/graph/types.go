package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// Document - Wire Envelope
// =============================================================================

// Document is the top-level wire object. Only the first graph is used by
// [Parse]; [Export] always produces exactly one.
type Document struct {
	Graph []Graph `json:"graph"`
}

// First returns the first graph of the document.
func (d Document) First() (Graph, bool) {
	if len(d.Graph) == 0 {
		return Graph{}, false
	}
	return d.Graph[0], true
}

// Name returns the name of the first graph, or "" for an empty document.
func (d Document) Name() string {
	g, _ := d.First()
	return g.Name
}

// =============================================================================
// Graph - Named Vertex List
// =============================================================================

// Graph is a named list of vertices with their adjacency.
type Graph struct {
	Name string   `json:"name"`
	Data []Vertex `json:"data"`
}

// EdgeCount returns the total number of adjacency entries.
func (g Graph) EdgeCount() int {
	n := 0
	for _, v := range g.Data {
		n += len(v.LinkedTo)
	}
	return n
}

// =============================================================================
// Vertex and Link
// =============================================================================

// Vertex is a vertex in wire form.
type Vertex struct {
	ID          ID          `json:"id"`
	Label       string      `json:"label"`
	Coordinates Coordinates `json:"coordenates"`
	Radius      float64     `json:"radius"`
	Data        *Visual     `json:"data,omitempty"`
	LinkedTo    []Link      `json:"linkedTo"`
}

// Coordinates is a canvas position.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Visual is the optional style block of a vertex.
type Visual struct {
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Link is one outgoing adjacency entry.
type Link struct {
	NodeID   ID      `json:"nodeId"`
	Weight   float64 `json:"weight"`
	Color    string  `json:"color,omitempty"`
	LineType string  `json:"lineType,omitempty"` // "continue" (default) or "dashed"
}

// ID is a vertex identifier that decodes from either a JSON string or a
// JSON number. It always encodes as a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %s", b)
	}
	*id = ID(n.String())
	return nil
}
