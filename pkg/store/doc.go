// Package store holds the canonical in-memory state of one graph being
// edited: its identity, its vertex and edge collections, and id lookups.
//
// # Ownership
//
// A [Store] is created per editing session with [New] and is owned by that
// session. It is not safe for concurrent use; all mutations must come from
// a single logical writer. Package session serializes access when a store
// is reachable from concurrent request handlers.
//
// # Mutations
//
//	s := store.New("g1")
//	s.AddVertices(flow.NewVertex("v1", "A", flow.Position{}), flow.NewVertex("v2", "B", flow.Position{}))
//	s.Connect("v1", "v2")
//	art, _ := s.Export() // art.Filename == "g1.json"
//
// [Store.ReplaceVertices] and [Store.ReplaceEdges] ignore empty input so a
// stale or incomplete update never wipes the graph. Partial updates take an
// explicit [flow.MergePolicy]. No operation fails for an unknown id; updates
// report whether the target existed.
//
// Edges are not checked against the vertex collection and may dangle;
// [Store.DanglingEdges] reports them.
//
// # Observers
//
// [Store.Subscribe] registers a listener that is called synchronously after
// every mutation that changed state, in subscription order.
package store
