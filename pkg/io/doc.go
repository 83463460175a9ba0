// Package io reads and writes graph documents as JSON files and packages
// exports as downloadable artifacts.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	doc, err := io.ImportJSON("g1.json")
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // malformed document; nothing was loaded
//	}
//
// Both functions decode the document and check that its first graph parses,
// so callers can replace state only after a successful read.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. [NewArtifact] wraps the encoded document with the filename a
// browser download or CLI export should use ("{graphId}.json").
package io
