package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

// playlistContentType is the MIME type sent with every manifest
// response, including when the upstream omits its own.
const playlistContentType = "application/vnd.apple.mpegurl"

// absoluteURL matches one URL-shaped token: a scheme://... run up to
// the next whitespace or quote. Directive keywords, durations, and
// attribute lists never form such a token, so they pass through the
// rewrite untouched.
var absoluteURL = regexp.MustCompile(`https?://[^\s"']+`)

// manifestProxyURL wraps upstream as a same-origin manifest proxy URL.
func manifestProxyURL(base, upstream string) string {
	return base + "/proxy/manifest?url=" + url.QueryEscape(upstream)
}

// segmentProxyURL wraps upstream as a same-origin segment proxy URL.
// Decoding the url parameter yields upstream byte-for-byte.
func segmentProxyURL(base, upstream string) string {
	return base + "/proxy/segment?url=" + url.QueryEscape(upstream)
}

// Rewriter fetches upstream manifests and redirects every absolute URL
// in them through the proxy's segment endpoint. The manifest is
// treated as opaque line-oriented text, not parsed as a playlist, so
// the same pass handles both strict audio-only playlists and the
// broader adaptive manifest variants.
//
// Rewriting is not idempotent: the proxy URLs it emits are themselves
// absolute, so rewriting already-rewritten text double-wraps them.
type Rewriter struct {
	base   string
	client *http.Client
}

// NewRewriter returns a Rewriter emitting proxy URLs rooted at
// baseURL. timeout bounds the entire manifest fetch; manifests are
// small enough that a whole-request deadline is safe.
func NewRewriter(baseURL string, timeout time.Duration) *Rewriter {
	return &Rewriter{
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Rewrite substitutes every absolute URL token in manifest with a
// same-origin segment proxy URL. All other bytes are preserved
// verbatim; text containing no URL tokens comes back unchanged.
func (rw *Rewriter) Rewrite(manifest string) string {
	return absoluteURL.ReplaceAllStringFunc(manifest, func(match string) string {
		return segmentProxyURL(rw.base, match)
	})
}

// FetchAndRewrite fetches the manifest at upstreamURL and rewrites it.
// A transport error or non-2xx upstream status is an error; the caller
// never receives partial manifest text.
func (rw *Rewriter) FetchAndRewrite(ctx context.Context, upstreamURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, nil)
	if err != nil {
		return "", fmt.Errorf("manifest request: %w", err)
	}

	resp, err := rw.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("manifest fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("manifest fetch: upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("manifest read: %w", err)
	}

	return rw.Rewrite(string(body)), nil
}
