package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowgraph/pkg/backend"
	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/idgen"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/session"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID        string              `json:"id"`
	GraphID   string              `json:"graphId"`
	CreatedAt time.Time           `json:"createdAt"`
	Vertices  []flow.Vertex       `json:"vertices"`
	Edges     []flow.Edge         `json:"edges"`
	Load      *session.LoadResult `json:"load,omitempty"`
}

func viewOf(sess *session.Session, load *session.LoadResult) sessionView {
	v := sessionView{ID: sess.ID, GraphID: sess.GraphID(), CreatedAt: sess.CreatedAt, Load: load}
	sess.View(func(st *store.Store) {
		v.Vertices = st.Vertices()
		v.Edges = st.Edges()
	})
	if v.Vertices == nil {
		v.Vertices = []flow.Vertex{}
	}
	if v.Edges == nil {
		v.Edges = []flow.Edge{}
	}
	return v
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(s.sessions.List()),
		"build":    buildinfo.Current(),
	})
}

// createSessionInput is the body of POST /sessions. At most one seed is used,
// in the order random, local, graphId.
type createSessionInput struct {
	GraphID string                   `json:"graphId"`
	Random  *backend.GenerateRequest `json:"random,omitempty"`
	Local   *int                     `json:"local,omitempty"`
	Resume  bool                     `json:"resume,omitempty"`
	Fetch   *bool                    `json:"fetch,omitempty"`
}

// handleCreateSession handles POST /sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in createSessionInput
	if err := decode(w, r, &in, true); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		sess *session.Session
		load session.LoadResult
		err  error
	)
	switch {
	case in.Random != nil:
		req := in.Random.WithDefaults()
		if err = req.Validate(); err == nil {
			sess, load, err = s.sessions.Generate(r.Context(), in.GraphID, req)
		}
	case in.Local != nil:
		if *in.Local < 0 {
			err = fgerrors.New(fgerrors.ErrCodeInvalidInput, "local size must not be negative")
			break
		}
		id := in.GraphID
		if id == "" {
			id = "local-" + idgen.GenRandomHex(6)
		}
		sess, err = s.sessions.Seed(id, *in.Local, nil)
	case in.GraphID == "":
		err = fgerrors.New(fgerrors.ErrCodeInvalidInput, "graphId, random or local is required")
	default:
		sess, load, err = s.openSession(r, in)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess, &load))
}

// openSession resumes a draft when asked, and otherwise fetches the graph
// unless fetch is false.
func (s *Server) openSession(r *http.Request, in createSessionInput) (*session.Session, session.LoadResult, error) {
	if in.Resume {
		sess, ok, err := s.sessions.Resume(r.Context(), in.GraphID)
		if err != nil || ok {
			return sess, session.LoadResult{}, err
		}
	}
	if in.Fetch != nil && !*in.Fetch {
		sess, err := s.sessions.Create(in.GraphID)
		return sess, session.LoadResult{}, err
	}
	return s.sessions.Open(r.Context(), in.GraphID)
}

// handleListSessions handles GET /sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID       string    `json:"id"`
		GraphID  string    `json:"graphId"`
		LastUsed time.Time `json:"lastUsed"`
	}
	out := []entry{}
	for _, sess := range s.sessions.List() {
		out = append(out, entry{ID: sess.ID, GraphID: sess.GraphID(), LastUsed: sess.LastUsed()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetSession handles GET /sessions/{sid}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, nil))
}

// handleDeleteSession handles DELETE /sessions/{sid}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sid")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Editing
// =============================================================================

// handleAddVertices handles POST /sessions/{sid}/vertices. Vertices without
// an id get a random one; a zero radius becomes the default.
func (s *Server) handleAddVertices(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in struct {
		Vertices []flow.Vertex `json:"vertices"`
	}
	if err := decode(w, r, &in, false); err != nil {
		s.writeError(w, err)
		return
	}
	for i := range in.Vertices {
		v := &in.Vertices[i]
		if err := fgerrors.ValidateLabel(v.Data.Label); err != nil {
			s.writeError(w, err)
			return
		}
		if v.ID == "" {
			v.ID = idgen.GenRandomHex(idgen.EdgeIDLength)
		}
		if v.Data.Radius <= 0 {
			v.Data.Radius = flow.DefaultRadius
		}
	}
	_ = sess.Do(func(st *store.Store) error {
		st.AddVertices(in.Vertices...)
		return nil
	})
	writeJSON(w, http.StatusCreated, map[string]any{"vertices": in.Vertices})
}

// handleConnect handles POST /sessions/{sid}/connect.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := decode(w, r, &in, false); err != nil {
		s.writeError(w, err)
		return
	}
	if in.Source == "" || in.Target == "" {
		s.writeError(w, fgerrors.New(fgerrors.ErrCodeInvalidInput, "source and target are required"))
		return
	}
	var e flow.Edge
	_ = sess.Do(func(st *store.Store) error {
		e = st.Connect(in.Source, in.Target)
		return nil
	})
	writeJSON(w, http.StatusCreated, e)
}

// handleChanges handles POST /sessions/{sid}/changes/{vertices|edges}.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	kind := chi.URLParam(r, "kind")
	if kind != "vertices" && kind != "edges" {
		s.writeError(w, fgerrors.New(fgerrors.ErrCodeNotFound, "unknown change target %q", kind))
		return
	}
	var changes []flow.Change
	if err := decode(w, r, &changes, false); err != nil {
		s.writeError(w, err)
		return
	}
	var res flow.ChangeResult
	_ = sess.Do(func(st *store.Store) error {
		if kind == "vertices" {
			res = st.ApplyVertexChanges(changes)
		} else {
			res = st.ApplyEdgeChanges(changes)
		}
		return nil
	})
	writeJSON(w, http.StatusOK, res)
}

// patchRequest decodes a patch body with its merge policy, validates it and
// applies it under the session lock. apply reports whether the target exists.
func patchRequest[P any](s *Server, w http.ResponseWriter, r *http.Request, what string,
	validate func(P, flow.MergePolicy) error,
	apply func(*store.Store, string, P, flow.MergePolicy) bool,
) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var in struct {
		Patch  P      `json:"patch"`
		Policy string `json:"policy"`
	}
	if err := decode(w, r, &in, false); err != nil {
		s.writeError(w, err)
		return
	}
	policy, err := policyFrom(in.Policy)
	if err == nil {
		err = validate(in.Patch, policy)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	var found bool
	_ = sess.Do(func(st *store.Store) error {
		found = apply(st, id, in.Patch, policy)
		return nil
	})
	if !found {
		s.writeError(w, fgerrors.New(fgerrors.ErrCodeNotFound, "%s %q not found", what, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePatchVertexData handles PATCH /sessions/{sid}/vertices/{id}/data.
func (s *Server) handlePatchVertexData(w http.ResponseWriter, r *http.Request) {
	patchRequest(s, w, r, "vertex",
		func(p flow.VertexDataPatch, policy flow.MergePolicy) error { return p.Validate(policy) },
		(*store.Store).UpdateVertexData)
}

// handlePatchVertexStyle handles PATCH /sessions/{sid}/vertices/{id}/style.
func (s *Server) handlePatchVertexStyle(w http.ResponseWriter, r *http.Request) {
	patchRequest(s, w, r, "vertex",
		func(p flow.VertexStylePatch, _ flow.MergePolicy) error { return p.Validate() },
		(*store.Store).UpdateVertexStyle)
}

// handlePatchEdgeData handles PATCH /sessions/{sid}/edges/{id}/data.
func (s *Server) handlePatchEdgeData(w http.ResponseWriter, r *http.Request) {
	patchRequest(s, w, r, "edge",
		func(p flow.EdgeDataPatch, _ flow.MergePolicy) error { return p.Validate() },
		(*store.Store).UpdateEdgeData)
}

// handlePatchEdgeStyle handles PATCH /sessions/{sid}/edges/{id}/style.
func (s *Server) handlePatchEdgeStyle(w http.ResponseWriter, r *http.Request) {
	patchRequest(s, w, r, "edge",
		func(p flow.EdgeStylePatch, _ flow.MergePolicy) error { return p.Validate() },
		(*store.Store).UpdateEdgeStyle)
}

// =============================================================================
// Backend and file flows
// =============================================================================

// handleReload handles POST /sessions/{sid}/reload.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	load, err := sess.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, &load))
}

// handleSave handles POST /sessions/{sid}/save.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"graphId": sess.GraphID(), "status": "saved"})
}

// handleStrategy handles POST /sessions/{sid}/strategies/{name}.
func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	load, err := sess.RunStrategy(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, &load))
}

// handleBipartite handles GET /sessions/{sid}/bipartite.
func (s *Server) handleBipartite(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := sess.CheckBipartite(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleImport handles POST /sessions/{sid}/import with a wire document body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	load, err := sess.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, &load))
}

// handleExport handles GET /sessions/{sid}/export as a file download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	art, err := sess.Export()
	if err != nil {
		s.writeError(w, fgerrors.Wrap(fgerrors.ErrCodeInternal, err, "export"))
		return
	}
	w.Header().Set("Content-Type", pkgio.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Content)
}
