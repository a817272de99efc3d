// Package web serves the applications REST API, the websocket event stream
// and an optional single-page front-end.
package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds server configuration
type Config struct {
	Port           int
	StaticDir      string // built front-end, served from StaticDir/dist
	AllowedOrigins []string
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
	Version        string
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	api        chi.Router
	httpServer *http.Server
	config     *Config
	listener   net.Listener
	hub        *Hub
}

// NewServer creates a new HTTP server. hub may be nil.
func NewServer(cfg *Config, hub *Hub) *Server {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	srv := &Server{
		router: chi.NewRouter(),
		config: cfg,
		hub:    hub,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(middleware.Compress(5))

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	if s.config.StaticDir != "" {
		distDir := filepath.Join(s.config.StaticDir, "dist")
		assetsFS := http.FileServer(http.Dir(filepath.Join(distDir, "assets")))
		s.router.Handle("/assets/*", http.StripPrefix("/assets/", assetsFS))
	}

	if s.hub != nil {
		s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q}`, s.config.Version)
	})

	s.api = s.router.With(s.apiMiddleware()...)
}

func (s *Server) apiMiddleware() []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.AllowContentType("application/json"),
	}
	if s.config.RateLimitRPS > 0 {
		mw = append(mw, NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst).Middleware)
	}
	return mw
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}

// ApplicationsRoutes is served under /api/applications.
type ApplicationsRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

// RegisterApplicationsHandler registers applications API handlers
func (s *Server) RegisterApplicationsHandler(h ApplicationsRoutes) {
	s.api.Route("/api/applications", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.GetByID)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// CatalogRoutes serves the reference data.
type CatalogRoutes interface {
	Catalog(w http.ResponseWriter, r *http.Request)
	Countries(w http.ResponseWriter, r *http.Request)
}

// RegisterCatalogHandler registers reference data handlers
func (s *Server) RegisterCatalogHandler(h CatalogRoutes) {
	s.api.Get("/api/catalog", h.Catalog)
	s.api.Get("/api/countries", h.Countries)
}

// Router returns the underlying Chi router for external route mounting.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// SetupSPAFallback adds SPA fallback routing. Call this after all API routes are registered.
func (s *Server) SetupSPAFallback() {
	if s.config.StaticDir == "" {
		return
	}

	indexPath := filepath.Join(s.config.StaticDir, "dist", "index.html")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		return
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if strings.HasPrefix(path, "/api/") ||
			strings.HasPrefix(path, "/assets/") ||
			path == "/ws" ||
			path == "/health" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	})
}
