package gateway

import (
	"log/slog"
	"net/http"

	"github.com/apuntestech/apuntes/internal/gateway/middleware"
	"github.com/apuntestech/apuntes/internal/modules/filestorage"
	notes_http "github.com/apuntestech/apuntes/internal/modules/notes/interfaces/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	NoteHandler *notes_http.NoteHandler
	// FilesHandler serves stored files under filestorage.UploadsPrefix; nil
	// unless storage is on local disk
	FilesHandler http.Handler
	// RateLimiter guards the upload and delete routes; nil disables it
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins string
	Logger         *slog.Logger
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	router := NewRouter()

	// Health Check
	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	router.Handle("GET /metrics", promhttp.Handler())

	var limited []Middleware
	if config.RateLimiter != nil {
		limited = append(limited, config.RateLimiter.Middleware)
	}

	// Note Routes
	router.HandleFunc("POST /upload", config.NoteHandler.Upload, limited...)
	router.HandleFunc("GET /pdfs", config.NoteHandler.List)
	router.HandleFunc("DELETE /delete", config.NoteHandler.Delete, limited...)
	router.HandleFunc("GET /subjects", config.NoteHandler.Subjects)

	if config.FilesHandler != nil {
		router.Handle("GET "+filestorage.UploadsPrefix, config.FilesHandler)
	}

	return router.Mux()
}

// NewHandler wraps the routes in the shared middleware chain
func NewHandler(config RouterConfig) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = SetupRoutes(config)
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.RequestID(handler)
	return middleware.CORSMiddleware(handler, config.AllowedOrigins)
}
