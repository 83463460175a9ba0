package backend

import (
	"math"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// Graph families the generator supports.
const (
	GraphBipartite  = "bipartite"
	GraphTripartite = "tripartite"
)

// Edge directions the generator supports.
const (
	Directed   = "directed"
	Undirected = "undirected"
)

// DefaultProbability is the edge probability used when a request sets none.
const DefaultProbability = 0.5

// GenerateRequest describes a random graph to generate.
type GenerateRequest struct {
	NodesNumber int      `json:"nodesNumber"`
	GraphType   string   `json:"graphType,omitempty"`
	Direction   string   `json:"direction"`
	Weighted    bool     `json:"weighted"`
	Connected   bool     `json:"connected"`
	Complete    bool     `json:"complete"`
	Probability *float64 `json:"probability,omitempty"` // nil means DefaultProbability
	Degree      int      `json:"degree"`
}

// WithDefaults fills unset direction, probability and degree.
func (r GenerateRequest) WithDefaults() GenerateRequest {
	if r.Direction == "" {
		r.Direction = Undirected
	}
	if r.Probability == nil {
		p := DefaultProbability
		r.Probability = &p
	}
	if r.Degree == 0 {
		r.Degree = 2
	}
	return r
}

// Validate checks the request after defaults are applied.
func (r GenerateRequest) Validate() error {
	if r.NodesNumber <= 0 {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "nodesNumber must be positive")
	}
	switch r.GraphType {
	case "", GraphBipartite, GraphTripartite:
	default:
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "unknown graph type %q", r.GraphType)
	}
	if r.Direction != Directed && r.Direction != Undirected {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "direction must be %q or %q", Directed, Undirected)
	}
	if p := r.Probability; p != nil && (math.IsNaN(*p) || *p < 0 || *p > 1) {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "probability must be in [0, 1]")
	}
	if r.Degree <= 0 {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "degree must be positive")
	}
	return nil
}

// BipartiteResult is the backend's answer to a bipartiteness check.
type BipartiteResult struct {
	IsBipartite bool   `json:"isBipartite"`
	Reason      string `json:"reason,omitempty"`
}

// StrategyResult is the outcome of a traversal strategy. Graph is set when
// the strategy produced a new graph; Error holds the backend's message when
// it failed.
type StrategyResult struct {
	Graph *graph.Document `json:"graph,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Failed reports whether the strategy reported an error.
func (r StrategyResult) Failed() bool { return r.Error != "" }

// Err returns the strategy failure as a STRATEGY_FAILED error carrying the
// backend message verbatim, or nil.
func (r StrategyResult) Err() error {
	if !r.Failed() {
		return nil
	}
	return fgerrors.Strategy(r.Error)
}

type strategyRequest struct {
	Graph graph.Document `json:"graph"`
}
