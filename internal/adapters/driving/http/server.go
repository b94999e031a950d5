package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/refledger/refledger-core/internal/core/ports/driving"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	libraryService driving.LibraryService
	authService    driving.AuthService
	reconciler     driving.SyncReconciler // nil when no live source is configured
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	libraryService driving.LibraryService,
	authService driving.AuthService,
	reconciler driving.SyncReconciler, // can be nil
) *Server {
	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		libraryService: libraryService,
		authService:    authService,
		reconciler:     reconciler,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Auth endpoints (authenticated)
	s.router.Handle("POST /api/v1/auth/logout",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleLogout)))

	// Item read endpoints (public)
	s.router.HandleFunc("GET /api/v1/items", s.handleListItems)
	s.router.HandleFunc("GET /api/v1/items/{key}", s.handleGetItem)
	s.router.HandleFunc("GET /api/v1/items/{key}/children", s.handleGetChildren)
	s.router.HandleFunc("GET /api/v1/items/{key}/doi-status", s.handleDOIStatus)
	s.router.HandleFunc("GET /api/v1/items/{key}/scores", s.handleGetScores)

	// Item write endpoints (authenticated)
	s.router.Handle("POST /api/v1/items",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateItem)))
	s.router.Handle("PATCH /api/v1/items/{key}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpdateItem)))
	s.router.Handle("DELETE /api/v1/items/{key}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteItem)))
	s.router.Handle("POST /api/v1/items/{key}/variant",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateVariant)))
	s.router.Handle("PUT /api/v1/items/{key}/score",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSetScore)))
	s.router.Handle("POST /api/v1/items/{key}/scores",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleAddScorerScore)))
	s.router.Handle("PUT /api/v1/items/{key}/publisher",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSetItemPublisher)))
	s.router.Handle("PUT /api/v1/items/{key}/funding",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSetItemFunding)))

	// Collection endpoints (public reads)
	s.router.HandleFunc("GET /api/v1/collections", s.handleListCollections)
	s.router.HandleFunc("GET /api/v1/collections/{key}", s.handleGetCollection)
	s.router.HandleFunc("GET /api/v1/collections/{key}/items", s.handleCollectionItems)

	// Publisher endpoints
	s.router.HandleFunc("GET /api/v1/publishers", s.handleListPublishers)
	s.router.Handle("PUT /api/v1/publishers",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleUpsertPublisher)))
	s.router.Handle("PUT /api/v1/publishers/{name}/score",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSetPublisherScore)))

	// Blindspot report (public read)
	s.router.HandleFunc("GET /api/v1/blindspots", s.handleBlindspots)

	// Admin endpoints
	s.router.Handle("POST /api/v1/admin/sync",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTriggerSync))))
	s.router.Handle("POST /api/v1/admin/verify",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleVerifyChain))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
