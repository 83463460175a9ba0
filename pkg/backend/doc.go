// Package backend is the client for the graph backend API: persistence of
// named graphs, random graph generation, bipartiteness checks, and
// traversal strategies. All graph algorithms run on the backend.
//
// Every call makes exactly one attempt; there are no retries. A 404 response
// yields an error matching [ErrNotFound]; transport failures and any other
// non-2xx status yield [ErrNetwork]. Both are also coded with package errors
// (ErrCodeNotFound, ErrCodeNetwork) for the CLI and HTTP surfaces.
//
//	c := backend.New("http://localhost:8000")
//	doc, err := c.FetchGraph(ctx, "g1")
//	if errors.Is(err, backend.ErrNotFound) {
//	    // absent graph
//	}
package backend
