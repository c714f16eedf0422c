package proxy

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Relay streams upstream segment bodies straight to the client.
// Bodies are piped chunk by chunk through io.Copy, never buffered
// whole, so memory stays bounded by the copy buffer and a slow client
// applies backpressure to the upstream read.
type Relay struct {
	client *http.Client
}

// NewRelay returns a Relay whose upstream fetches are bounded by
// headerTimeout until response headers arrive. The body itself has no
// deadline: segments can legitimately stream for longer than any
// fixed whole-request timeout.
func NewRelay(headerTimeout time.Duration) *Relay {
	return &Relay{
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: headerTimeout},
		},
	}
}

// Stream issues a GET for upstreamURL and pipes the response to w,
// mirroring the upstream Content-Type header and status code. The
// outbound request carries r's context, so a client disconnect aborts
// the upstream fetch instead of letting it run to completion.
//
// An error before headers are written leaves w untouched, so the
// caller can still send a clean error status. A failure mid-copy is
// reported as ErrStreamInterrupted; the caller must simply return,
// which closes the connection rather than leaving the client hanging.
func (rel *Relay) Stream(w http.ResponseWriter, r *http.Request, upstreamURL string) error {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
	if err != nil {
		return fmt.Errorf("segment request: %w", err)
	}

	resp, err := rel.client.Do(req)
	if err != nil {
		return fmt.Errorf("segment fetch: %w", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("segment copy: %v: %w", err, ErrStreamInterrupted)
	}
	return nil
}
