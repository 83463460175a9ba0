// Package session manages editing sessions. A session owns exactly one
// graph store and serializes every access to it, so a store reachable from
// concurrent request handlers still sees a single writer.
//
// # Loading
//
// Graph state comes from four places, each applied with the store's
// non-empty replace so a partial or failed load never wipes the canvas:
//
//   - [Session.Load] fetches the graph from the backend. A missing graph is
//     not an error: a warning is logged and the state is kept.
//   - [Session.Import] reads a wire document. Malformed input returns an
//     INVALID_FORMAT error and leaves the store untouched.
//   - [Session.RunStrategy] replaces the graph with a strategy's result, only
//     if it returned one.
//   - [Manager.Resume] restores an autosaved draft.
//
// Backend I/O happens outside the session lock; only the final replace runs
// under it.
//
// # Drafts
//
// A [Manager] created with [WithDrafts] subscribes to each store it creates
// and writes the exported document to the draft cache after every batch of
// mutations.
package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/flowgraph/pkg/backend"
	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Load sources reported to observability hooks.
const (
	SourceBackend  = "backend"
	SourceImport   = "import"
	SourceStrategy = "strategy"
	SourceDraft    = "draft"
	SourceRandom   = "random"
)

// Backend is the subset of the backend API a session uses.
// *backend.Client implements it.
type Backend interface {
	FetchGraph(ctx context.Context, id string) (graph.Document, error)
	SaveGraph(ctx context.Context, doc graph.Document) error
	GenerateGraph(ctx context.Context, req backend.GenerateRequest) (graph.Document, error)
	CheckBipartite(ctx context.Context, id string) (backend.BipartiteResult, error)
	RunStrategy(ctx context.Context, name string, doc graph.Document) (backend.StrategyResult, error)
}

// Session is one editing session over one graph.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	store    *store.Store
	dirty    bool
	rev      uint64 // revision of the last autosaved snapshot
	cancel   func()
	autosave func(doc graph.Document, rev uint64)

	lastUsed atomic.Int64 // unix nanoseconds
	backend  Backend
	logger   *log.Logger
}

// New creates a session for graphID with a fresh store. A nil logger
// discards output.
func New(graphID string, be Backend, logger *log.Logger, opts ...store.Option) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		store:     store.New(graphID, opts...),
		backend:   be,
		logger:    logger.With("graph", graphID),
	}
	s.lastUsed.Store(now.UnixNano())
	s.cancel = s.store.Subscribe(func(store.Event) { s.dirty = true })
	return s
}

// GraphID returns the identity of the session's graph.
func (s *Session) GraphID() string { return s.store.ID() }

// LastUsed returns the time of the last access through Do.
func (s *Session) LastUsed() time.Time { return time.Unix(0, s.lastUsed.Load()) }

// Do runs fn with exclusive access to the store. If fn changed the graph
// and the session autosaves, the new state is written after the lock is
// released, tagged with a revision so a slower write of an older snapshot
// cannot replace it.
func (s *Session) Do(fn func(*store.Store) error) error {
	s.lastUsed.Store(time.Now().UnixNano())

	snapshot, rev, save, err := s.locked(fn)
	if snapshot != nil {
		save(*snapshot, rev)
	}
	return err
}

// locked runs fn under the session lock and takes the autosave snapshot.
// The lock is released even if fn panics.
func (s *Session) locked(fn func(*store.Store) error) (*graph.Document, uint64, func(graph.Document, uint64), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.store)
	if !s.dirty {
		return nil, 0, nil, err
	}
	s.dirty = false
	if s.autosave == nil {
		return nil, 0, nil, err
	}
	s.rev++
	doc := s.store.Snapshot()
	return &doc, s.rev, s.autosave, err
}

// View runs fn with exclusive access to the store for reading.
func (s *Session) View(fn func(*store.Store)) {
	_ = s.Do(func(st *store.Store) error {
		fn(st)
		return nil
	})
}

// Snapshot returns the current state in wire form.
func (s *Session) Snapshot() graph.Document {
	var doc graph.Document
	s.View(func(st *store.Store) { doc = st.Snapshot() })
	return doc
}

// Export returns the current state as a downloadable artifact.
func (s *Session) Export() (pkgio.Artifact, error) {
	var (
		art pkgio.Artifact
		err error
	)
	s.View(func(st *store.Store) { art, err = st.Export() })
	return art, err
}

// close detaches the session from its store.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.autosave = nil
}

// =============================================================================
// Loading
// =============================================================================

// LoadResult describes the outcome of a load.
type LoadResult struct {
	NotFound   bool `json:"notFound,omitempty"` // the backend has no such graph; state was kept
	Vertices   int  `json:"vertices"`
	Edges      int  `json:"edges"`
	Collisions int  `json:"collisions,omitempty"` // parallel edges that received suffixed ids
}

// Load fetches the session's graph from the backend and replaces the
// state with it. Not-found is absorbed: a warning is logged, the state is
// kept, and LoadResult.NotFound is set. Other backend errors are returned.
func (s *Session) Load(ctx context.Context) (LoadResult, error) {
	start := time.Now()
	res, err := s.load(ctx)
	observability.Session().OnLoad(ctx, s.GraphID(), SourceBackend, res.Vertices, res.Edges, time.Since(start), err)
	return res, err
}

func (s *Session) load(ctx context.Context) (LoadResult, error) {
	doc, err := s.backend.FetchGraph(ctx, s.GraphID())
	if errors.Is(err, backend.ErrNotFound) {
		s.logger.Warn("graph not found on backend, keeping current state")
		return LoadResult{NotFound: true}, nil
	}
	if err != nil {
		return LoadResult{}, err
	}
	p, err := graph.Parse(doc)
	if err != nil {
		return LoadResult{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "graph %q from backend", s.GraphID())
	}
	return s.apply(p), nil
}

// Import replaces the state with a wire document read from r. On any error
// the store is untouched.
func (s *Session) Import(r io.Reader) (LoadResult, error) {
	start := time.Now()
	p, err := pkgio.ReadGraph(r)
	var res LoadResult
	if err == nil {
		res = s.apply(p)
	}
	observability.Session().OnLoad(context.Background(), s.GraphID(), SourceImport, res.Vertices, res.Edges, time.Since(start), err)
	return res, err
}

// apply replaces both collections, each only if non-empty.
func (s *Session) apply(p graph.Parsed) LoadResult {
	if p.Collisions > 0 {
		s.logger.Warn("parallel edges disambiguated", "count", p.Collisions)
	}
	_ = s.Do(func(st *store.Store) error {
		st.ReplaceGraph(p)
		return nil
	})
	return LoadResult{Vertices: len(p.Vertices), Edges: len(p.Edges), Collisions: p.Collisions}
}

// =============================================================================
// Backend operations
// =============================================================================

// Save uploads the current state to the backend.
func (s *Session) Save(ctx context.Context) error {
	start := time.Now()
	err := s.backend.SaveGraph(ctx, s.Snapshot())
	observability.Session().OnSave(ctx, s.GraphID(), time.Since(start), err)
	return err
}

// CheckBipartite asks the backend whether the stored graph is bipartite.
func (s *Session) CheckBipartite(ctx context.Context) (backend.BipartiteResult, error) {
	return s.backend.CheckBipartite(ctx, s.GraphID())
}

// RunStrategy runs a traversal strategy on the current state. If the
// strategy fails, its message is returned verbatim as a STRATEGY_FAILED
// error and the state is unchanged. The state is replaced only when the
// response carries a graph.
func (s *Session) RunStrategy(ctx context.Context, name string) (LoadResult, error) {
	start := time.Now()
	res, err := s.runStrategy(ctx, name)
	observability.Session().OnStrategy(ctx, s.GraphID(), name, time.Since(start), err)
	return res, err
}

func (s *Session) runStrategy(ctx context.Context, name string) (LoadResult, error) {
	out, err := s.backend.RunStrategy(ctx, name, s.Snapshot())
	if err != nil {
		return LoadResult{}, err
	}
	if out.Failed() {
		return LoadResult{}, out.Err()
	}
	if out.Graph == nil {
		return LoadResult{}, nil
	}
	p, err := graph.Parse(*out.Graph)
	if err != nil {
		return LoadResult{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "strategy %q result", name)
	}
	return s.apply(p), nil
}
