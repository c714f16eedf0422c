package proxy

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"stream-proxy/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// ErrorMessages customizes the client-facing wording of proxy
// failures. The two deployed services historically report different
// strings for the same failure.
type ErrorMessages struct {
	Manifest string
	Segment  string
}

// Handler exposes the proxy HTTP endpoints using go-chi.
type Handler struct {
	resolver *Resolver
	rewriter *Rewriter
	relay    *Relay
	log      *slog.Logger
	metrics  *metrics.Metrics
	msgs     ErrorMessages
}

// NewHandler returns a Handler wiring the resolver, rewriter, and
// relay behind HTTP endpoints. Metrics may be nil to disable metric
// recording (e.g. in tests).
func NewHandler(resolver *Resolver, rewriter *Rewriter, relay *Relay, log *slog.Logger, m *metrics.Metrics, msgs ErrorMessages) *Handler {
	return &Handler{
		resolver: resolver,
		rewriter: rewriter,
		relay:    relay,
		log:      log,
		metrics:  m,
		msgs:     msgs,
	}
}

// Health handles GET /.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Trailer proxy backend is running"))
}

// StreamOptions handles GET /api/trailer-hls/{videoId}: every eligible
// video rendition plus the best audio rendition, as proxy URLs.
func (h *Handler) StreamOptions(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	opts, err := h.resolver.Resolve(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, ErrNoStreams) {
			h.log.Info("no streams found", slog.String("video_id", videoID))
			writeJSONError(w, http.StatusNotFound, "No streams found")
			return
		}
		h.log.Error("resolve failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpstreamErrors()
		}
		writeJSONError(w, http.StatusInternalServerError, "Failed to resolve streams")
		return
	}

	h.log.Debug("streams resolved",
		slog.String("video_id", videoID),
		slog.Int("video_options", len(opts.VideoOptions)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(opts)
}

// AudioHLS handles GET /api/audio-hls/{videoId}: finds the HLS
// audio-only rendition and serves its manifest already rewritten,
// skipping the manifest-proxy indirection.
func (h *Handler) AudioHLS(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	if videoID == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	format, err := h.resolver.ResolveHLSAudio(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, ErrNoHLSAudio) {
			h.log.Info("no hls audio rendition", slog.String("video_id", videoID))
			http.Error(w, "No HLS audio", http.StatusNotFound)
			return
		}
		h.log.Error("audio resolve failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpstreamErrors()
		}
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	manifest, err := h.rewriter.FetchAndRewrite(r.Context(), format.URL)
	if err != nil {
		h.log.Error("audio manifest fetch failed",
			slog.String("url", format.URL),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpstreamErrors()
		}
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))
	if h.metrics != nil {
		h.metrics.IncManifestsRewritten()
	}
}

// ProxyManifest handles GET /proxy/manifest?url=X: fetches the
// upstream manifest at X and returns it with every absolute URL
// redirected through /proxy/segment.
func (h *Handler) ProxyManifest(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing manifest URL")
		return
	}

	manifest, err := h.rewriter.FetchAndRewrite(r.Context(), target)
	if err != nil {
		h.log.Error("manifest proxy failed",
			slog.String("url", target),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpstreamErrors()
		}
		writeJSONError(w, http.StatusInternalServerError, h.msgs.Manifest)
		return
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))
	if h.metrics != nil {
		h.metrics.IncManifestsRewritten()
	}
}

// ProxySegment handles GET /proxy/segment?url=X: streams the upstream
// body at X to the client as it arrives.
func (h *Handler) ProxySegment(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing segment URL")
		return
	}

	if h.metrics != nil {
		h.metrics.IncInflightRelays()
		defer h.metrics.DecInflightRelays()
	}

	if err := h.relay.Stream(w, r, target); err != nil {
		h.log.Error("segment proxy failed",
			slog.String("url", target),
			slog.String("error", err.Error()))
		if h.metrics != nil {
			h.metrics.IncUpstreamErrors()
		}
		// Mid-copy failures already sent headers; returning closes the
		// connection, which is all that is left to do.
		if !errors.Is(err, ErrStreamInterrupted) {
			writeJSONError(w, http.StatusInternalServerError, h.msgs.Segment)
		}
		return
	}

	if h.metrics != nil {
		h.metrics.IncSegmentsRelayed()
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
