package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nhel2500/AUPWU/internal/config"
	"github.com/nhel2500/AUPWU/internal/container"
	"github.com/nhel2500/AUPWU/internal/handler"
	"github.com/nhel2500/AUPWU/internal/middleware"
	"github.com/nhel2500/AUPWU/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		r.log.Info("HTTP server shutdown complete")
	}

	if r.container != nil {
		r.container.Close()
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting AUPWU voting server")

	// Create dependency injection container
	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	// Setup router
	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	// Setup graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	services := c.Services

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c)
	ballotHandler := handler.NewBallotHandler(services.Ballot, log)
	resultsHandler := handler.NewResultsHandler(services.Tally, log)
	electionHandler := handler.NewElectionHandler(services.Election, log)
	candidateHandler := handler.NewCandidateHandler(services.Candidacy, log)

	// Health check (no auth required)
	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		// Public results endpoints
		r.Get("/elections/{electionID}/results", resultsHandler.GetResults)
		r.Get("/elections/{electionID}/positions/{positionID}/results", resultsHandler.GetPositionResult)
		r.Get("/positions/{positionID}/candidates", candidateHandler.ListApproved)

		// Member endpoints (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))

			r.Get("/elections", ballotHandler.ListOpenElections)
			r.Get("/elections/{electionID}/ballot", ballotHandler.GetBallot)
			r.Get("/elections/{electionID}/positions/{positionID}/ballot", ballotHandler.GetPositionBallot)
			r.Post("/elections/{electionID}/vote", ballotHandler.CastVote)
			r.Post("/positions/{positionID}/apply", candidateHandler.Apply)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))
			r.Use(middleware.RequireAdmin(log))

			r.Get("/elections", electionHandler.List)
			r.Post("/elections", electionHandler.Create)
			r.Get("/elections/{electionID}", electionHandler.Get)
			r.Put("/elections/{electionID}", electionHandler.Update)
			r.Delete("/elections/{electionID}", electionHandler.Delete)
			r.Put("/elections/{electionID}/positions", electionHandler.SetPositions)
			r.Get("/positions/{positionID}/candidates", candidateHandler.ListForReview)
			r.Post("/candidates/{candidateID}/approval", candidateHandler.Approve)
			r.Get("/elections/{electionID}/report", resultsHandler.GetReport)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("Router configured successfully")
	return r
}
