// Package idgen generates the random hexadecimal identifiers used for
// vertices and edges created in the editor.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the lowercase hexadecimal character set.
const Alphabet = "0123456789abcdef"

// EdgeIDLength is the length of ids assigned to edges drawn on the canvas.
const EdgeIDLength = 8

// Generate returns n random lowercase hex characters drawn from a
// cryptographically secure source.
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	id, err := nanoid.Generate(Alphabet, n)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}

// GenRandomHex is like Generate but panics if the random source fails.
// Uniqueness is not checked.
func GenRandomHex(n int) string {
	if n <= 0 {
		return ""
	}
	return nanoid.MustGenerate(Alphabet, n)
}
