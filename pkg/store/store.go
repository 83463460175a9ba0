package store

import (
	"slices"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/idgen"
	"github.com/matzehuels/flowgraph/pkg/io"
)

// Store is the state container for one authored graph.
//
// The zero value is not usable; use New. Store is not safe for concurrent
// use without external synchronization.
type Store struct {
	id       string
	vertices []flow.Vertex
	edges    []flow.Edge
	vindex   map[string]int // vertex id -> position in vertices
	eindex   map[string]int // edge id -> position in edges
	newID    func(n int) string

	listeners []subscription
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithVertices seeds the store with vertices.
func WithVertices(vs []flow.Vertex) Option {
	return func(s *Store) { s.vertices = dedupe(vs, vertexID) }
}

// WithEdges seeds the store with edges.
func WithEdges(es []flow.Edge) Option {
	return func(s *Store) { s.edges = dedupe(es, edgeID) }
}

// WithIDGenerator replaces the generator used for new edge ids.
// It defaults to idgen.GenRandomHex.
func WithIDGenerator(fn func(n int) string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a store for the graph identified by id.
func New(id string, opts ...Option) *Store {
	s := &Store{id: id, newID: idgen.GenRandomHex}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.vertices {
		normalizeRadius(&s.vertices[i])
	}
	s.reindexVertices()
	s.reindexEdges()
	return s
}

// ID returns the graph identity. It names exports and backend requests.
func (s *Store) ID() string { return s.id }

// Vertices returns a copy of the vertex collection in insertion order.
func (s *Store) Vertices() []flow.Vertex { return slices.Clone(s.vertices) }

// Edges returns a copy of the edge collection in insertion order.
func (s *Store) Edges() []flow.Edge { return slices.Clone(s.edges) }

// VertexCount returns the number of vertices.
func (s *Store) VertexCount() int { return len(s.vertices) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// VertexByID returns the vertex with the given id.
func (s *Store) VertexByID(id string) (flow.Vertex, bool) {
	i, ok := s.vindex[id]
	if !ok {
		return flow.Vertex{}, false
	}
	return s.vertices[i], true
}

// EdgeByID returns the edge with the given id.
func (s *Store) EdgeByID(id string) (flow.Edge, bool) {
	i, ok := s.eindex[id]
	if !ok {
		return flow.Edge{}, false
	}
	return s.edges[i], true
}

// =============================================================================
// Wholesale replacement
// =============================================================================

// ReplaceVertices replaces the vertex collection. Empty input is a no-op.
// If vs repeats an id, the later entry wins.
func (s *Store) ReplaceVertices(vs []flow.Vertex) {
	if len(vs) == 0 {
		return
	}
	s.vertices = dedupe(vs, vertexID)
	for i := range s.vertices {
		normalizeRadius(&s.vertices[i])
	}
	s.reindexVertices()
	s.notify(Event{Kind: EventVerticesReplaced, IDs: ids(s.vertices, vertexID)})
}

// ReplaceEdges replaces the edge collection. Empty input is a no-op.
func (s *Store) ReplaceEdges(es []flow.Edge) {
	if len(es) == 0 {
		return
	}
	s.edges = dedupe(es, edgeID)
	s.reindexEdges()
	s.notify(Event{Kind: EventEdgesReplaced, IDs: ids(s.edges, edgeID)})
}

// ReplaceGraph replaces both collections from a parsed document, each only
// if non-empty.
func (s *Store) ReplaceGraph(p graph.Parsed) {
	s.ReplaceVertices(p.Vertices)
	s.ReplaceEdges(p.Edges)
}

// AddVertices appends vertices. A vertex whose id already exists replaces
// the existing one in place.
func (s *Store) AddVertices(vs ...flow.Vertex) {
	if len(vs) == 0 {
		return
	}
	added := make([]string, 0, len(vs))
	for _, v := range vs {
		normalizeRadius(&v)
		if i, ok := s.vindex[v.ID]; ok {
			s.vertices[i] = v
		} else {
			s.vindex[v.ID] = len(s.vertices)
			s.vertices = append(s.vertices, v)
		}
		added = append(added, v.ID)
	}
	s.notify(Event{Kind: EventVerticesAdded, IDs: added})
}

// =============================================================================
// Partial updates
// =============================================================================

// UpdateVertexData merges patch into the data of vertex id under policy.
// It reports whether the vertex exists.
func (s *Store) UpdateVertexData(id string, patch flow.VertexDataPatch, policy flow.MergePolicy) bool {
	return s.updateVertex(id, func(v *flow.Vertex) { v.Data = patch.Apply(v.Data, policy) })
}

// UpdateVertexStyle merges patch into the style of vertex id under policy.
func (s *Store) UpdateVertexStyle(id string, patch flow.VertexStylePatch, policy flow.MergePolicy) bool {
	return s.updateVertex(id, func(v *flow.Vertex) { v.Style = patch.Apply(v.Style, policy) })
}

// UpdateEdgeData merges patch into the data of edge id under policy.
func (s *Store) UpdateEdgeData(id string, patch flow.EdgeDataPatch, policy flow.MergePolicy) bool {
	return s.updateEdge(id, func(e *flow.Edge) { e.Data = patch.Apply(e.Data, policy) })
}

// UpdateEdgeStyle merges patch into the style of edge id under policy.
func (s *Store) UpdateEdgeStyle(id string, patch flow.EdgeStylePatch, policy flow.MergePolicy) bool {
	return s.updateEdge(id, func(e *flow.Edge) { e.Style = patch.Apply(e.Style, policy) })
}

func (s *Store) updateVertex(id string, fn func(*flow.Vertex)) bool {
	i, ok := s.vindex[id]
	if !ok {
		return false
	}
	before := s.vertices[i]
	fn(&s.vertices[i])
	normalizeRadius(&s.vertices[i])
	if s.vertices[i] != before {
		s.notify(Event{Kind: EventVertexUpdated, IDs: []string{id}})
	}
	return true
}

func (s *Store) updateEdge(id string, fn func(*flow.Edge)) bool {
	i, ok := s.eindex[id]
	if !ok {
		return false
	}
	before := s.edges[i]
	fn(&s.edges[i])
	if s.edges[i] != before {
		s.notify(Event{Kind: EventEdgeUpdated, IDs: []string{id}})
	}
	return true
}

// =============================================================================
// Canvas interaction
// =============================================================================

// Connect appends a new edge from source to target with a fresh 8-character
// hex id, weight 0 and a continuous line, and returns it. Endpoints are not
// checked.
func (s *Store) Connect(source, target string) flow.Edge {
	id := s.newID(idgen.EdgeIDLength)
	for s.hasEdge(id) {
		id = s.newID(idgen.EdgeIDLength)
	}
	e := flow.Edge{
		ID:     id,
		Source: source,
		Target: target,
		Data:   flow.EdgeData{Weight: 0, LineType: flow.LineContinuous},
	}
	s.eindex[id] = len(s.edges)
	s.edges = append(s.edges, e)
	s.notify(Event{Kind: EventEdgeConnected, IDs: []string{id}})
	return e
}

// ApplyVertexChanges applies a canvas change batch to the vertices. Edges
// incident to removed vertices are removed as well.
func (s *Store) ApplyVertexChanges(changes []flow.Change) flow.ChangeResult {
	vs, res := flow.ApplyVertexChanges(s.vertices, changes)
	if res.Empty() {
		return res
	}
	s.vertices = vs
	s.reindexVertices()
	s.notify(Event{Kind: EventVerticesChanged, IDs: res.Changed})

	if len(res.Removed) > 0 {
		var drop []flow.Change
		for _, e := range s.edges {
			if slices.Contains(res.Removed, e.Source) || slices.Contains(res.Removed, e.Target) {
				drop = append(drop, flow.Change{Kind: flow.ChangeRemove, ID: e.ID})
			}
		}
		s.applyEdges(drop)
	}
	return res
}

// ApplyEdgeChanges applies a canvas change batch to the edges.
func (s *Store) ApplyEdgeChanges(changes []flow.Change) flow.ChangeResult {
	return s.applyEdges(changes)
}

func (s *Store) applyEdges(changes []flow.Change) flow.ChangeResult {
	es, res := flow.ApplyEdgeChanges(s.edges, changes)
	if res.Empty() {
		return res
	}
	s.edges = es
	s.reindexEdges()
	s.notify(Event{Kind: EventEdgesChanged, IDs: res.Changed})
	return res
}

// RemoveVertex removes a vertex and its incident edges.
func (s *Store) RemoveVertex(id string) bool {
	return len(s.ApplyVertexChanges([]flow.Change{{Kind: flow.ChangeRemove, ID: id}}).Removed) > 0
}

// RemoveEdge removes an edge.
func (s *Store) RemoveEdge(id string) bool {
	return len(s.ApplyEdgeChanges([]flow.Change{{Kind: flow.ChangeRemove, ID: id}}).Removed) > 0
}

// =============================================================================
// Export
// =============================================================================

// Snapshot returns the current state in wire form, named after the store.
func (s *Store) Snapshot() graph.Document {
	return graph.Export(s.id, s.vertices, s.edges)
}

// Export encodes the current state as a downloadable artifact named
// "{id}.json".
func (s *Store) Export() (io.Artifact, error) {
	return io.NewArtifact(s.Snapshot())
}

// DanglingEdges returns the edges whose source or target is not a vertex.
func (s *Store) DanglingEdges() []flow.Edge {
	var out []flow.Edge
	for _, e := range s.edges {
		_, src := s.vindex[e.Source]
		_, dst := s.vindex[e.Target]
		if !src || !dst {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Internal helpers
// =============================================================================

func (s *Store) hasEdge(id string) bool {
	_, ok := s.eindex[id]
	return ok
}

func (s *Store) reindexVertices() {
	s.vindex = make(map[string]int, len(s.vertices))
	for i, v := range s.vertices {
		s.vindex[v.ID] = i
	}
}

func (s *Store) reindexEdges() {
	s.eindex = make(map[string]int, len(s.edges))
	for i, e := range s.edges {
		s.eindex[e.ID] = i
	}
}

// normalizeRadius stores the radius the vertex renders and exports with.
func normalizeRadius(v *flow.Vertex) {
	v.Data.Radius = v.Radius()
}

func vertexID(v flow.Vertex) string { return v.ID }
func edgeID(e flow.Edge) string     { return e.ID }

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// dedupe copies items, keeping the first position of each id and the value
// of its last occurrence.
func dedupe[T any](items []T, id func(T) string) []T {
	out := make([]T, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, it := range items {
		if i, ok := pos[id(it)]; ok {
			out[i] = it
			continue
		}
		pos[id(it)] = len(out)
		out = append(out, it)
	}
	return out
}
