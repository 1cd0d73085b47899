/*
main.go - HTTP server entry point

PURPOSE:
  Starts the mortgage engine API. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Validate configuration
  3. Create metrics and API handler
  4. Configure HTTP router
  5. Start server with graceful shutdown

ENVIRONMENT:
  PORT                  HTTP server port (default: 8080)
  CORS_ALLOWED_ORIGINS  Comma-separated origins
  SHUTDOWN_TIMEOUT      Drain timeout (default: 30s)
  MAX_YEARS             Default simulation horizon (default: 1000)
  PAYMENT_DISPLAY       as-written | active-rate
  WAIVER_POLICY         after-initial | final-initial-year
  METRICS_NAMESPACE     Prometheus namespace (default: mortgage_engine)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment variables
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/mortgage-engine/api"
	"github.com/warp/mortgage-engine/config"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Printf("Warning: Failed to load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	defaults, err := cfg.EngineOptions()
	if err != nil {
		log.Fatalf("Invalid engine options: %v", err)
	}

	// Initialize handler
	metrics := api.NewMetrics(cfg.MetricsNamespace)
	handler := api.NewHandler(defaults, metrics)

	// Create router
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost%s", cfg.Addr())
		log.Printf("API available at http://localhost%s/api", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
