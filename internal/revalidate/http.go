package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/G3Ram/liftingdiary/internal/metrics"
)

// HTTPSignaler delivers stale-path notifications as a JSON POST, the shape a
// Next.js style revalidation endpoint expects: {"paths": ["/dashboard", ...]}.
type HTTPSignaler struct {
	client *http.Client
	url    string
	token  string
}

// HTTPSignalerOption configures HTTPSignaler.
type HTTPSignalerOption func(*HTTPSignaler)

// WithClient sets the HTTP client (default: 5s timeout).
func WithClient(c *http.Client) HTTPSignalerOption {
	return func(s *HTTPSignaler) {
		s.client = c
	}
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) HTTPSignalerOption {
	return func(s *HTTPSignaler) {
		s.token = token
	}
}

// NewHTTPSignaler returns a Signaler that POSTs stale paths to url.
func NewHTTPSignaler(url string, opts ...HTTPSignalerOption) *HTTPSignaler {
	s := &HTTPSignaler{
		client: &http.Client{Timeout: 5 * time.Second},
		url:    url,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type invalidatePayload struct {
	Paths []string `json:"paths"`
}

// Invalidate implements Signaler.
func (s *HTTPSignaler) Invalidate(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	err := s.post(ctx, paths)
	if err != nil {
		metrics.RevalidateSignalsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.RevalidateSignalsTotal.WithLabelValues("ok").Inc()
	return nil
}

func (s *HTTPSignaler) post(ctx context.Context, paths []string) error {
	body, err := json.Marshal(invalidatePayload{Paths: paths})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revalidate endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Signaler = (*HTTPSignaler)(nil)
