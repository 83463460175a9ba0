// Package server exposes editing sessions over HTTP for a rendering
// collaborator such as a browser canvas.
//
// Every route under /sessions/{sid} resolves the session first and then
// works through session.Session, so requests against one graph never
// interleave their mutations.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowgraph/pkg/session"
)

const (
	// maxBodyBytes bounds request bodies, including imported documents.
	maxBodyBytes = 10 << 20

	shutdownTimeout = 5 * time.Second
	janitorInterval = time.Minute
)

// Server serves the session API.
type Server struct {
	sessions *session.Manager
	logger   *log.Logger
}

// New creates a server over m.
func New(m *session.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{sessions: m, logger: logger}
}

// Handler returns the router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)

		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/vertices", s.handleAddVertices)
			r.Patch("/vertices/{id}/data", s.handlePatchVertexData)
			r.Patch("/vertices/{id}/style", s.handlePatchVertexStyle)
			r.Patch("/edges/{id}/data", s.handlePatchEdgeData)
			r.Patch("/edges/{id}/style", s.handlePatchEdgeStyle)
			r.Post("/connect", s.handleConnect)
			r.Post("/changes/{kind}", s.handleChanges)

			r.Post("/reload", s.handleReload)
			r.Post("/save", s.handleSave)
			r.Post("/strategies/{name}", s.handleStrategy)
			r.Get("/bipartite", s.handleBipartite)
			r.Post("/import", s.handleImport)
			r.Get("/export", s.handleExport)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, expiring idle sessions in the
// background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.janitor(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.sessions.Close()
		return ctx.Err()
	}
}

func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sessions.Cleanup()
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
