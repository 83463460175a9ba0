package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/observability"
)

// DefaultTimeout bounds each backend request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the requested graph does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// Client calls the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New creates a client for the backend at baseURL (e.g. "http://localhost:8000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doJSON sends body (if non-nil) as JSON and decodes a JSON response into
// result (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	host := req.URL.Host
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return fgerrors.Wrap(fgerrors.ErrCodeNetwork, fmt.Errorf("%w: %v", ErrNetwork, err), "%s %s", method, path)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if se := checkStatus(resp); se != nil {
		return fgerrors.Wrap(se.code, se, "%s %s", method, path)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fgerrors.Wrap(fgerrors.ErrCodeNetwork, fmt.Errorf("%w: decode response: %v", ErrNetwork, err), "%s %s", method, path)
	}
	return nil
}

// statusError carries the backend's status and detail message.
type statusError struct {
	code   fgerrors.Code
	status int
	detail string
	base   error
}

func (e *statusError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%v: status %d: %s", e.base, e.status, e.detail)
	}
	return fmt.Sprintf("%v: status %d", e.base, e.status)
}

func (e *statusError) Unwrap() error { return e.base }

func checkStatus(resp *http.Response) *statusError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	se := &statusError{status: resp.StatusCode, detail: readDetail(resp.Body)}
	if resp.StatusCode == http.StatusNotFound {
		se.code, se.base = fgerrors.ErrCodeNotFound, ErrNotFound
	} else {
		se.code, se.base = fgerrors.ErrCodeNetwork, ErrNetwork
	}
	return se
}

// readDetail extracts the error detail from a FastAPI-style body
// ({"detail": "..."}) or an {"error": "..."} body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return strings.TrimSpace(string(data))
	}
	if s, ok := body.Detail.(string); ok && s != "" {
		return s
	}
	if body.Error != "" {
		return body.Error
	}
	return ""
}

func escape(id string) string { return url.PathEscape(id) }
