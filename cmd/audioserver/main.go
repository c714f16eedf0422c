package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stream-proxy/internal/extract"
	"stream-proxy/internal/platform/config"
	"stream-proxy/internal/platform/logger"
	"stream-proxy/internal/platform/metrics"
	"stream-proxy/internal/proxy"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "3000")
	baseURL := config.GetEnv("PUBLIC_BASE_URL", "http://localhost:"+port)
	upstreamTimeout := config.GetEnvSeconds("UPSTREAM_TIMEOUT_S", 30*time.Second)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	extractor := extract.NewYtDlp(config.GetEnv("YTDLP_PATH", "yt-dlp"))
	resolver := proxy.NewResolver(extractor, baseURL)
	rewriter := proxy.NewRewriter(baseURL, upstreamTimeout)
	relay := proxy.NewRelay(upstreamTimeout)
	met := metrics.New()
	h := proxy.NewHandler(resolver, rewriter, relay, log, met, proxy.ErrorMessages{
		Manifest: "Failed to proxy manifest",
		Segment:  "Failed to proxy segment",
	})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{AllowedOrigins: []string{"*"}}))
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", met.Handler().ServeHTTP)
	r.Get("/api/audio-hls/{videoId}", h.AudioHLS)
	r.Route("/proxy", func(r chi.Router) {
		r.Get("/manifest", h.ProxyManifest)
		r.Get("/segment", h.ProxySegment)
	})

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("audio proxy starting",
		"port", port,
		"base_url", baseURL,
		"upstream_timeout", upstreamTimeout.String(),
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
