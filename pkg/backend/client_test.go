package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

const bareGraph = `{"name":"g1","data":[{"id":"v1","label":"A","coordenates":{"x":0,"y":0},"radius":1,"linkedTo":[]}]}`

func TestFetchGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/graphs/g1" {
			t.Errorf("request = %s %s, want GET /api/graphs/g1", r.Method, r.URL.Path)
		}
		w.Write([]byte(bareGraph))
	}))
	defer server.Close()

	doc, err := New(server.URL).FetchGraph(context.Background(), "g1")
	if err != nil {
		t.Fatalf("FetchGraph() error: %v", err)
	}
	if doc.Name() != "g1" || len(doc.Graph[0].Data) != 1 {
		t.Errorf("FetchGraph() = %+v", doc)
	}
}

func TestFetchGraph_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Graph not found"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).FetchGraph(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if !fgerrors.Is(err, fgerrors.ErrCodeNotFound) {
		t.Errorf("code = %v, want NOT_FOUND", fgerrors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "Graph not found") {
		t.Errorf("error = %q, want backend detail", err.Error())
	}
}

func TestCheckStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantErr  error
		wantCode fgerrors.Code
	}{
		{http.StatusOK, nil, ""},
		{http.StatusNoContent, nil, ""},
		{http.StatusNotFound, ErrNotFound, fgerrors.ErrCodeNotFound},
		{http.StatusBadRequest, ErrNetwork, fgerrors.ErrCodeNetwork},
		{http.StatusUnprocessableEntity, ErrNetwork, fgerrors.ErrCodeNetwork},
		{http.StatusInternalServerError, ErrNetwork, fgerrors.ErrCodeNetwork},
		{http.StatusBadGateway, ErrNetwork, fgerrors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := New(server.URL).doJSON(context.Background(), http.MethodGet, "/x", nil, nil)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if got := fgerrors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestNoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(server.URL).FetchGraph(context.Background(), "g1")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want exactly 1", calls.Load())
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url, WithTimeout(time.Second)).FetchGraph(context.Background(), "g1")
	if !errors.Is(err, ErrNetwork) || !fgerrors.Is(err, fgerrors.ErrCodeNetwork) {
		t.Errorf("error = %v, want network error", err)
	}
}

func TestSaveGraph(t *testing.T) {
	var got graph.Graph
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/upload" {
			t.Errorf("request = %s %s, want POST /api/upload", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	doc := graph.Document{Graph: []graph.Graph{{Name: "g1", Data: []graph.Vertex{{ID: "v1", LinkedTo: []graph.Link{}}}}}}
	if err := New(server.URL).SaveGraph(context.Background(), doc); err != nil {
		t.Fatalf("SaveGraph() error: %v", err)
	}
	if got.Name != "g1" || len(got.Data) != 1 {
		t.Errorf("uploaded = %+v", got)
	}

	if err := New(server.URL).SaveGraph(context.Background(), graph.Document{}); !fgerrors.Is(err, fgerrors.ErrCodeInvalidInput) {
		t.Errorf("SaveGraph(empty) error = %v, want INVALID_INPUT", err)
	}
}

func TestGenerateGraph(t *testing.T) {
	var req GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"graph":[` + bareGraph + `]}`))
	}))
	defer server.Close()

	doc, err := New(server.URL).GenerateGraph(context.Background(), GenerateRequest{NodesNumber: 5, GraphType: GraphBipartite})
	if err != nil {
		t.Fatalf("GenerateGraph() error: %v", err)
	}
	if doc.Name() != "g1" {
		t.Errorf("Name() = %q", doc.Name())
	}
	if req.Direction != Undirected || req.Probability == nil || *req.Probability != DefaultProbability || req.Degree != 2 {
		t.Errorf("request defaults = %+v", req)
	}
}

func TestGenerateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerateRequest
		wantErr bool
	}{
		{"defaults", GenerateRequest{NodesNumber: 3}, false},
		{"directed complete", GenerateRequest{NodesNumber: 3, Direction: Directed, Complete: true}, false},
		{"zero nodes", GenerateRequest{}, true},
		{"bad direction", GenerateRequest{NodesNumber: 3, Direction: "sideways"}, true},
		{"bad probability", GenerateRequest{NodesNumber: 3, Probability: ptr(1.5)}, true},
		{"zero probability", GenerateRequest{NodesNumber: 3, Probability: ptr(0.0)}, false},
		{"negative degree", GenerateRequest{NodesNumber: 3, Degree: -1}, true},
		{"bad type", GenerateRequest{NodesNumber: 3, GraphType: "cubic"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.WithDefaults().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestWithDefaultsKeepsExplicitZeroProbability(t *testing.T) {
	got := GenerateRequest{NodesNumber: 3, Probability: ptr(0)}.WithDefaults()
	if got.Probability == nil || *got.Probability != 0 {
		t.Errorf("Probability = %v, want 0", got.Probability)
	}
	if got := (GenerateRequest{NodesNumber: 3}).WithDefaults(); *got.Probability != DefaultProbability {
		t.Errorf("default Probability = %v, want %v", *got.Probability, DefaultProbability)
	}
}

func TestCheckBipartite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/graphs/g1/bipartite" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"isBipartite":false,"reason":"odd cycle"}`))
	}))
	defer server.Close()

	res, err := New(server.URL).CheckBipartite(context.Background(), "g1")
	if err != nil {
		t.Fatalf("CheckBipartite() error: %v", err)
	}
	if res.IsBipartite || res.Reason != "odd cycle" {
		t.Errorf("CheckBipartite() = %+v", res)
	}
}

func TestRunStrategy(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantGraph bool
		wantErr   string
	}{
		{"graph", `{"graph":{"graph":[` + bareGraph + `]}}`, true, ""},
		{"failure", `{"error":"graph is not connected"}`, false, "graph is not connected"},
		{"empty", `{}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/strategies/bfs" {
					t.Errorf("path = %q", r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				if !strings.HasPrefix(string(body), `{"graph":{"graph":`) {
					t.Errorf("body = %s", body)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			doc := graph.Document{Graph: []graph.Graph{{Name: "g1"}}}
			res, err := New(server.URL).RunStrategy(context.Background(), "bfs", doc)
			if err != nil {
				t.Fatalf("RunStrategy() error: %v", err)
			}
			if (res.Graph != nil) != tt.wantGraph {
				t.Errorf("Graph = %v, wantGraph %v", res.Graph, tt.wantGraph)
			}
			if res.Error != tt.wantErr {
				t.Errorf("Error = %q, want %q", res.Error, tt.wantErr)
			}
			if tt.wantErr != "" && fgerrors.UserMessage(res.Err()) != tt.wantErr {
				t.Errorf("UserMessage(Err()) = %q, want verbatim", fgerrors.UserMessage(res.Err()))
			}
		})
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests, responses atomic.Int32
	lastStatus          atomic.Int32
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) { h.requests.Add(1) }
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses.Add(1)
	h.lastStatus.Store(int32(status))
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	New(server.URL).FetchGraph(context.Background(), "x")

	if hooks.requests.Load() != 1 || hooks.responses.Load() != 1 || hooks.lastStatus.Load() != 404 {
		t.Errorf("requests/responses/status = %d/%d/%d", hooks.requests.Load(), hooks.responses.Load(), hooks.lastStatus.Load())
	}
}

func TestEscapesGraphID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/api/graphs/my%20graph" {
			t.Errorf("escaped path = %q", r.URL.EscapedPath())
		}
		w.Write([]byte(bareGraph))
	}))
	defer server.Close()

	if _, err := New(server.URL + "/").FetchGraph(context.Background(), "my graph"); err != nil {
		t.Fatalf("FetchGraph() error: %v", err)
	}
}
