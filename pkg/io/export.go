package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// ContentType is the media type of exported artifacts.
const ContentType = "application/json"

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, doc graph.Document) error {
	return graph.WriteDocument(w, doc)
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc graph.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Artifact is an exported graph ready for download.
type Artifact struct {
	Filename string // "{graphId}.json"
	Content  []byte
}

// NewArtifact encodes doc and names the artifact after its first graph.
func NewArtifact(doc graph.Document) (Artifact, error) {
	data, err := graph.MarshalDocument(doc)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Filename: Filename(doc.Name()), Content: data}, nil
}

// Filename returns the artifact filename for a graph id.
func Filename(graphID string) string {
	return graphID + ".json"
}

// WriteTo writes the artifact into dir and returns the file path.
// The filename is validated so an id cannot escape dir.
func (a Artifact) WriteTo(dir string) (string, error) {
	name := a.Filename[:len(a.Filename)-len(filepath.Ext(a.Filename))]
	if err := errors.ValidateGraphID(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
