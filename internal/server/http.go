package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/session"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code  fgerrors.Code `json:"code"`
	Error string        `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes err as a JSON error response, choosing the status from
// its code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := fgerrors.GetCode(err)
	if code == "" {
		code = fgerrors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: fgerrors.UserMessage(err)})
}

func statusFor(code fgerrors.Code) int {
	switch code {
	case fgerrors.ErrCodeInvalidInput, fgerrors.ErrCodeInvalidFormat, fgerrors.ErrCodeInvalidLabel,
		fgerrors.ErrCodeInvalidColor, fgerrors.ErrCodeInvalidGraphID, fgerrors.ErrCodeStrategyFailed:
		return http.StatusBadRequest
	case fgerrors.ErrCodeNotFound, fgerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case fgerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. An empty body leaves v unchanged when
// optional is set.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

// session resolves the {sid} route parameter.
func (s *Server) session(r *http.Request) (*session.Session, error) {
	return s.sessions.Get(chi.URLParam(r, "sid"))
}

func policyFrom(name string) (flow.MergePolicy, error) {
	p, err := flow.ParseMergePolicy(name)
	if err != nil {
		return p, fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "policy")
	}
	return p, nil
}
