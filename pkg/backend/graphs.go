package backend

import (
	"context"
	"encoding/json"
	"net/http"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// FetchGraph retrieves the graph named id. The backend's bare graph object
// is returned wrapped in a one-graph document.
func (c *Client) FetchGraph(ctx context.Context, id string) (graph.Document, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/graphs/"+escape(id), nil, &raw); err != nil {
		return graph.Document{}, err
	}
	doc, err := graph.UnmarshalDocument(raw)
	if err != nil {
		return graph.Document{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "graph %q from backend", id)
	}
	return doc, nil
}

// SaveGraph uploads the first graph of doc. The backend upserts by name.
func (c *Client) SaveGraph(ctx context.Context, doc graph.Document) error {
	g, ok := doc.First()
	if !ok {
		return fgerrors.New(fgerrors.ErrCodeInvalidInput, "nothing to save: %v", graph.ErrEmptyDocument)
	}
	return c.doJSON(ctx, http.MethodPost, "/api/upload", g, nil)
}

// GenerateGraph asks the backend for a random graph.
func (c *Client) GenerateGraph(ctx context.Context, req GenerateRequest) (graph.Document, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return graph.Document{}, err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/graphs/random", req, &raw); err != nil {
		return graph.Document{}, err
	}
	doc, err := graph.UnmarshalDocument(raw)
	if err != nil {
		return graph.Document{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "generated graph")
	}
	return doc, nil
}

// CheckBipartite asks the backend whether the stored graph id is bipartite.
func (c *Client) CheckBipartite(ctx context.Context, id string) (BipartiteResult, error) {
	var res BipartiteResult
	err := c.doJSON(ctx, http.MethodGet, "/api/graphs/"+escape(id)+"/bipartite", nil, &res)
	return res, err
}

// RunStrategy runs the named traversal strategy on doc. A strategy that
// fails reports through StrategyResult.Error, not through the returned
// error, which is reserved for transport failures.
func (c *Client) RunStrategy(ctx context.Context, name string, doc graph.Document) (StrategyResult, error) {
	if name == "" {
		return StrategyResult{}, fgerrors.New(fgerrors.ErrCodeInvalidInput, "strategy name cannot be empty")
	}
	var res StrategyResult
	body := strategyRequest{Graph: doc}
	if err := c.doJSON(ctx, http.MethodPost, "/api/strategies/"+escape(name), body, &res); err != nil {
		return StrategyResult{}, err
	}
	return res, nil
}
