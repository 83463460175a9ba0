package io

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// ReadJSON decodes a graph document from r.
//
// Both the wrapped form ({"graph":[...]}) and a bare graph object are
// accepted. ReadJSON returns an ErrCodeInvalidFormat error if the JSON is
// malformed, the document holds no graph, or its first graph does not parse
// (missing or duplicate vertex ids, unknown line types).
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (graph.Document, error) {
	doc, _, err := read(r)
	return doc, err
}

// ReadGraph is like ReadJSON but also returns the parsed first graph.
func ReadGraph(r io.Reader) (graph.Parsed, error) {
	_, p, err := read(r)
	return p, err
}

// ImportJSON reads the JSON file at path.
// It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) (graph.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ImportGraph reads and parses the JSON file at path.
func ImportGraph(path string) (graph.Parsed, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Parsed{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ParseBytes decodes and parses an in-memory document, as received in an
// HTTP request body.
func ParseBytes(data []byte) (graph.Document, graph.Parsed, error) {
	return read(bytes.NewReader(data))
}

func read(r io.Reader) (graph.Document, graph.Parsed, error) {
	doc, err := graph.ReadDocument(r)
	if err != nil {
		return graph.Document{}, graph.Parsed{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed graph document")
	}
	p, err := graph.Parse(doc)
	if err != nil {
		return graph.Document{}, graph.Parsed{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid graph document")
	}
	return doc, p, nil
}
