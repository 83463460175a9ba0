package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer derives cache keys for drafts.
type Keyer interface {
	// DraftKey returns the key of the draft for a graph.
	DraftKey(graphID string) string
}

// DefaultKeyer produces unscoped keys of the form "draft:{hash}".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DraftKey hashes the graph id so arbitrary ids are safe as keys in every
// backend.
func (DefaultKeyer) DraftKey(graphID string) string {
	return "draft:" + Hash([]byte(graphID))
}

// ScopedKeyer wraps a Keyer with a prefix, giving each workspace or user its
// own draft namespace in a shared backend.
//
//	keyer := cache.NewScopedKeyer(nil, "alice:")
//	keyer.DraftKey("g1") // "alice:draft:..."
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DraftKey returns the prefixed draft key.
func (k *ScopedKeyer) DraftKey(graphID string) string {
	return k.prefix + k.inner.DraftKey(graphID)
}
