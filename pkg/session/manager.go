package session

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/backend"
	"github.com/matzehuels/flowgraph/pkg/cache"
	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/idgen"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Default durations.
const (
	// DefaultDraftTTL is how long an autosaved draft is kept.
	DefaultDraftTTL = 7 * 24 * time.Hour

	// DefaultIdleTTL is how long an unused session stays registered.
	DefaultIdleTTL = 2 * time.Hour

	draftWriteTimeout = 5 * time.Second
)

// ErrNotFound is returned when a session id is not registered.
var ErrNotFound = errors.New("session not found")

// Manager keeps the sessions of one process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	backend  Backend
	logger   *log.Logger
	drafts   cache.Cache
	keyer    cache.Keyer
	draftTTL time.Duration
	idleTTL  time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger passed to sessions.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithDrafts enables autosaving into c. A nil keyer uses cache.DefaultKeyer;
// a zero ttl uses DefaultDraftTTL.
func WithDrafts(c cache.Cache, keyer cache.Keyer, ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.drafts = c
		if keyer != nil {
			m.keyer = keyer
		}
		if ttl > 0 {
			m.draftTTL = ttl
		}
	}
}

// WithIdleTTL sets how long an unused session survives Cleanup.
func WithIdleTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTTL = d }
}

// NewManager creates a manager whose sessions talk to be.
func NewManager(be Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		backend:  be,
		logger:   log.New(io.Discard),
		keyer:    cache.NewDefaultKeyer(),
		draftTTL: DefaultDraftTTL,
		idleTTL:  DefaultIdleTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new session with an empty store for graphID.
func (m *Manager) Create(graphID string, opts ...store.Option) (*Session, error) {
	if err := fgerrors.ValidateGraphID(graphID); err != nil {
		return nil, err
	}
	s := New(graphID, m.backend, m.logger, opts...)
	if m.drafts != nil {
		s.autosave = m.saveDraft(graphID)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session", s.ID, "graph", graphID)
	return s, nil
}

// Open creates a session for graphID and loads it from the backend. A graph
// the backend does not know yields an empty session and LoadResult.NotFound.
func (m *Manager) Open(ctx context.Context, graphID string) (*Session, LoadResult, error) {
	s, err := m.Create(graphID)
	if err != nil {
		return nil, LoadResult{}, err
	}
	res, err := s.Load(ctx)
	if err != nil {
		m.remove(s.ID)
		return nil, LoadResult{}, err
	}
	return s, res, nil
}

// Generate creates a session seeded with a random graph from the backend.
// An empty graphID takes the generated graph's name, or a random one.
func (m *Manager) Generate(ctx context.Context, graphID string, req backend.GenerateRequest) (*Session, LoadResult, error) {
	start := time.Now()
	doc, err := m.backend.GenerateGraph(ctx, req)
	if err != nil {
		return nil, LoadResult{}, err
	}
	p, err := graph.Parse(doc)
	if err != nil {
		return nil, LoadResult{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidFormat, err, "generated graph")
	}
	if graphID == "" {
		graphID = p.Name
	}
	if graphID == "" {
		graphID = "random-" + idgen.GenRandomHex(6)
	}
	s, err := m.Create(graphID)
	if err != nil {
		return nil, LoadResult{}, err
	}
	res := s.apply(p)
	observability.Session().OnLoad(ctx, graphID, SourceRandom, res.Vertices, res.Edges, time.Since(start), nil)
	return s, res, nil
}

// Seed creates a session with size locally generated random vertices and
// edges. rnd may be nil.
func (m *Manager) Seed(graphID string, size int, rnd *rand.Rand) (*Session, error) {
	vs, es := flow.RandomGraph(size, rnd)
	s, err := m.Create(graphID)
	if err != nil {
		return nil, err
	}
	_ = s.Do(func(st *store.Store) error {
		st.ReplaceVertices(vs)
		st.ReplaceEdges(es)
		return nil
	})
	return s, nil
}

// Resume creates a session for graphID from its autosaved draft. It reports
// false and returns no session if there is no draft.
func (m *Manager) Resume(ctx context.Context, graphID string) (*Session, bool, error) {
	if m.drafts == nil {
		return nil, false, nil
	}
	data, ok, err := m.drafts.Get(ctx, m.keyer.DraftKey(graphID))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	_, p, err := pkgio.ParseBytes(data)
	if err != nil {
		m.logger.Warn("discarding unreadable draft", "graph", graphID, "err", err)
		_ = m.drafts.Delete(ctx, m.keyer.DraftKey(graphID))
		return nil, false, nil
	}
	s, err := m.Create(graphID)
	if err != nil {
		return nil, false, err
	}
	res := s.apply(p)
	observability.Session().OnLoad(ctx, graphID, SourceDraft, res.Vertices, res.Edges, 0, nil)
	return s, true, nil
}

// DiscardDraft deletes the autosaved draft of graphID.
func (m *Manager) DiscardDraft(ctx context.Context, graphID string) error {
	if m.drafts == nil {
		return nil
	}
	return m.drafts.Delete(ctx, m.keyer.DraftKey(graphID))
}

// Get returns a registered session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fgerrors.Wrap(fgerrors.ErrCodeSessionNotFound, ErrNotFound, "session %q", id)
	}
	return s, nil
}

// Delete unregisters a session. Its draft is kept.
func (m *Manager) Delete(id string) error {
	if !m.remove(id) {
		return fgerrors.Wrap(fgerrors.ErrCodeSessionNotFound, ErrNotFound, "session %q", id)
	}
	return nil
}

// List returns the registered sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Session) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// Cleanup unregisters sessions idle for longer than the idle TTL and
// returns how many were removed.
func (m *Manager) Cleanup() int {
	cutoff := time.Now().Add(-m.idleTTL)
	var stale []string
	m.mu.RLock()
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.remove(id)
	}
	if len(stale) > 0 {
		m.logger.Debug("expired idle sessions", "count", len(stale))
	}
	return len(stale)
}

// Close unregisters every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

func (m *Manager) remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
	return ok
}

// saveDraft returns the autosave function of one session. Writes are
// serialized and a snapshot older than the last one written is dropped.
func (m *Manager) saveDraft(graphID string) func(graph.Document, uint64) {
	key := m.keyer.DraftKey(graphID)
	var (
		mu      sync.Mutex
		written uint64
	)
	return func(doc graph.Document, rev uint64) {
		mu.Lock()
		defer mu.Unlock()
		if rev <= written {
			m.logger.Debug("stale draft skipped", "graph", graphID, "rev", rev, "written", written)
			return
		}
		written = rev

		data, err := graph.MarshalDocument(doc)
		if err != nil {
			m.logger.Warn("encode draft", "graph", graphID, "err", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), draftWriteTimeout)
		defer cancel()
		if err := m.drafts.Set(ctx, key, data, m.draftTTL); err != nil {
			m.logger.Warn("save draft", "graph", graphID, "err", err)
		}
	}
}
