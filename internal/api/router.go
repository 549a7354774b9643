package api

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/modcatalog/internal/catalog"
	"github.com/meur/modcatalog/internal/upload"
	"go.uber.org/zap"
)

// Options configures the HTTP surface
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64 // request body cap for file uploads, 0 = unlimited
}

// Server holds the HTTP server dependencies
type Server struct {
	store    *catalog.Store
	attacher *upload.Attacher
	opts     Options
	logger   *zap.Logger
	router   chi.Router
	revision atomic.Int64
}

// New creates a new API server
func New(store *catalog.Store, attacher *upload.Attacher, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:    store,
		attacher: attacher,
		opts:     opts,
		logger:   logger,
		router:   chi.NewRouter(),
	}

	store.Subscribe(func(catalog.Change) { s.revision.Add(1) })

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the underlying router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
		ExposedHeaders: []string{"Content-Disposition", revisionHeader},
		MaxAge:         86400,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleGetCategories)

		// Mods
		r.Get("/mods", s.handleGetMods)
		r.Post("/mods", s.handleCreateMod)
		r.Get("/mods/{id}", s.handleGetMod)
		r.Get("/mods/{id}/download", s.handleDownloadMod)
		r.Post("/mods/{id}/file", s.handleAttachFile)

		// Upload endpoint
		r.Post("/upload-file", s.handleUploadFile)
		r.Get("/upload-file", s.handleGetUploadFile)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// requestLogger logs one line per request with zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("HTTP request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
