package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUnrecognizedDocument is returned by [UnmarshalDocument] when the JSON
// object has neither a "graph" array nor a vertex "data" array.
var ErrUnrecognizedDocument = errors.New("unrecognized graph document")

// =============================================================================
// Document Serialization API
// =============================================================================

// MarshalDocument encodes doc as indented JSON.
func MarshalDocument(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument writes doc as indented JSON to w.
func WriteDocument(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDocument decodes a document from r. See [UnmarshalDocument].
func ReadDocument(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalDocument(data)
}

// UnmarshalDocument decodes either a wrapped document ({"graph":[...]}) or a
// bare graph object ({"name","data"}), which is wrapped into a one-graph
// document.
func UnmarshalDocument(data []byte) (Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}

	if _, ok := probe["graph"]; ok {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decode: %w", err)
		}
		return doc, nil
	}

	if _, ok := probe["data"]; ok {
		var g Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return Document{}, fmt.Errorf("decode: %w", err)
		}
		return Document{Graph: []Graph{g}}, nil
	}

	return Document{}, ErrUnrecognizedDocument
}
