// Package server wires the HTTP surface together: middleware stack, route
// table, and graceful lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walletpass/passd/internal/config"
	"github.com/walletpass/passd/internal/database"
	"github.com/walletpass/passd/internal/server/handlers"
	"github.com/walletpass/passd/internal/server/middleware"
	"github.com/walletpass/passd/internal/webservice"
)

// Deps carries the initialized handler sets the router mounts.
type Deps struct {
	Protocol  *webservice.Service
	Admin     *handlers.AdminHandler
	Templates *handlers.TemplateHandler
	Queries   *database.Queries
}

type Server struct {
	pool   *pgxpool.Pool
	config *config.ServerEnvironment
	logger *slog.Logger
	router *chi.Mux
	deps   Deps
}

func NewServer(
	pool *pgxpool.Pool,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
	deps Deps,
) *Server {
	server := &Server{
		pool:   pool,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
		deps:   deps,
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestBytes))
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HandleHealth)
	s.router.Get("/ready", handlers.HandleReadiness(s.deps.Queries))
	s.router.Get("/version", handlers.HandleVersion)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/passes/{passTypeIdentifier}", s.deps.Protocol.HandleListUpdatedPasses)
		r.Get("/passes/{passTypeIdentifier}/{serialNumber}", s.deps.Protocol.HandleFetchPass)
		r.Post("/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber}", s.deps.Protocol.HandleRegisterDevice)
		r.Delete("/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}/{serialNumber}", s.deps.Protocol.HandleUnregisterDevice)
		r.Get("/devices/{deviceLibraryIdentifier}/registrations/{passTypeIdentifier}", s.deps.Protocol.HandleListDeviceRegistrations)
		r.Post("/log", s.deps.Protocol.HandleClientLog)
	})

	s.router.Route("/admin", func(r chi.Router) {
		r.Post("/passes", s.deps.Admin.HandleIssuePass)
		r.Get("/passes", s.deps.Admin.HandleListPasses)
		r.Get("/passes/{serialNumber}", s.deps.Admin.HandleGetPass)
		r.Post("/passes/{serialNumber}", s.deps.Admin.HandleUpdatePass)
		r.Post("/resend/{serialNumber}", s.deps.Admin.HandleResend)
		r.Post("/bulk-send", s.deps.Admin.HandleBulkSend)
		r.Get("/metrics", s.deps.Admin.HandleMetrics)

		r.Get("/templates", s.deps.Templates.HandleListAssets)
		r.Get("/templates/{name}", s.deps.Templates.HandleGetAsset)
		r.Put("/templates/{name}", s.deps.Templates.HandlePutAsset)
		r.Delete("/templates/{name}", s.deps.Templates.HandleDeleteAsset)
	})
}

// Router exposes the configured route tree, primarily for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}
