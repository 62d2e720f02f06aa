package server

import (
	"log/slog"
	"net/http"

	"github.com/SINU1012/my-baby-anniversary/internal/metrics"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
	// EnableMetrics exposes GET /metrics.
	EnableMetrics bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		EnableMetrics:  true,
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /upload_images", h.UploadImages)
	mux.HandleFunc("POST /slideshows", h.CreateSlideshow)
	mux.HandleFunc("GET /slideshows", h.ListSlideshows)
	mux.HandleFunc("GET /slideshows/{id}", h.GetSlideshow)
	mux.HandleFunc("GET /slideshows/{id}/video", h.GetSlideshowVideo)
	if cfg.EnableMetrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
