// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New wires the whole dependency chain in one
// place:
//
//	sqlite.DB ┬→ AuthService      → AuthHandler
//	          └→ SchematicService → SchematicHandler
//	blobstore.FSStore ┘
//
// Handlers never touch the database, services never touch HTTP; this package
// is the only one that sees every layer at once.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/schematic-hub/internal/auth"
	"github.com/sakif/schematic-hub/internal/blobstore"
	"github.com/sakif/schematic-hub/internal/config"
	"github.com/sakif/schematic-hub/internal/handler"
	"github.com/sakif/schematic-hub/internal/middleware"
	sqliteRepo "github.com/sakif/schematic-hub/internal/repository/sqlite"
	"github.com/sakif/schematic-hub/internal/service"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, creates the blob store
// directory, builds services and handlers, and wires the routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /                   → landing page (HTML)
//	GET  /static/*           → static assets
//	POST /api/register       → create account
//	POST /api/login          → establish session (HttpOnly cookie)
//	POST /api/logout         → clear session cookie
//	GET  /api/me             → current user          [auth]
//	GET  /api/schematics     → list own schematics   [auth]
//	POST /api/upload         → upload a schematic    [auth]
//	GET  /api/download/{id}  → download own schematic [auth]
//
// Middleware order matters: RequestID and RealIP first so the logger sees
// them, Recoverer before everything that can panic.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Static files and landing page ===
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	homeHandler, err := handler.NewHomeHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating home handler: %w", err)
	}
	s.router.Get("/", homeHandler.HandleHome)

	// === Dependency wiring ===
	blobs, err := blobstore.NewFSStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating blob store: %w", err)
	}

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	schematicService := service.NewSchematicService(s.db, blobs, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	schematicHandler := handler.NewSchematicHandler(schematicService, s.config.MaxUploadBytes, s.logger)

	// === API routes ===
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Get("/schematics", schematicHandler.HandleList)
			r.Post("/upload", schematicHandler.HandleUpload)
			r.Get("/download/{id}", schematicHandler.HandleDownload)
		})
	})

	return nil
}

// Handler exposes the assembled router, mainly for tests that want to drive
// the full middleware/handler stack through httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start does this
// itself; Close exists for tests and for error paths in main.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
