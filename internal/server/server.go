// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root" — the one place where the whole dependency
// chain is assembled:
//
//	config → sqlite.DB → EntryService → EntryHandler → routes
//
// Each layer only receives what it needs: the service gets the repository
// interface (not the concrete sqlite.DB), the handler gets the service (not
// the repository). The handler never touches the database; the service never
// touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/coffee-journal/internal/config"
	"github.com/sakif/coffee-journal/internal/handler"
	"github.com/sakif/coffee-journal/internal/middleware"
	sqliteRepo "github.com/sakif/coffee-journal/internal/repository/sqlite"
	"github.com/sakif/coffee-journal/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown — most importantly the database connection, which is closed
// last so in-flight requests can still reach it.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with all dependencies wired.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
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
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /                     → journal page (HTML)
//	GET    /static/*             → static files (CSS, JS)
//	GET    /coffee-entries       → list entries, newest first (JSON)
//	GET    /coffee-entries/{id}  → single entry (JSON)
//	POST   /coffee-entries       → create entry (JSON)
//	DELETE /coffee-entries/{id}  → delete entry
//
// Middleware runs in the order it's added: request IDs and real client IPs
// first, panic recovery, then CORS (preflight handling must precede route
// matching), then request logging.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(s.config.CORS.AllowedOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         s.config.CORS.MaxAge,
	}))
	s.router.Use(middleware.Logger(s.logger))

	// Static files: GET /static/css/style.css → {StaticDir}/css/style.css
	fileServer := http.FileServer(http.Dir(s.config.Web.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	journalHandler, err := handler.NewJournalHandler(s.config.Web.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating journal handler: %w", err)
	}
	s.router.Get("/", journalHandler.HandleJournal)

	entryService := service.NewEntryService(s.db, s.logger)
	entryHandler := handler.NewEntryHandler(entryService, s.logger)

	s.router.Route("/coffee-entries", func(r chi.Router) {
		r.Get("/", entryHandler.HandleList)
		r.Post("/", entryHandler.HandleCreate)
		r.Get("/{id}", entryHandler.HandleGetByID)
		r.Delete("/{id}", entryHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (bounded by ShutdownTimeout), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("database", s.config.Database.Path),
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

		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
