package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ewilliams-labs/beatlens/internal/adapters/gemini"
	"github.com/ewilliams-labs/beatlens/internal/adapters/openrouter"
	"github.com/ewilliams-labs/beatlens/internal/adapters/rest"
	"github.com/ewilliams-labs/beatlens/internal/adapters/sqlite"
	"github.com/ewilliams-labs/beatlens/internal/config"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
	"github.com/ewilliams-labs/beatlens/internal/core/services"
	"github.com/ewilliams-labs/beatlens/internal/metrics"
)

func main() {
	// 1. Configuration (Environment Variables)
	// Crash early on a broken config; a missing API key is not one — the
	// analyze endpoint surfaces it per request instead.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if cfg.APIKey() == "" {
		log.Printf("WARN: no API key configured for backend %q; /api/analyze will refuse requests", cfg.Backend)
	}

	// 2. Initialize "Driven" Adapters (The Tools)
	store, err := sqlite.NewStore()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize result store: %v", err)
	}
	defer store.Close()

	var analyzer ports.BeatAnalyzer
	switch cfg.Backend {
	case config.BackendOpenRouter:
		analyzer = openrouter.NewClient(cfg.OpenRouterAPIKey, "")
	default:
		analyzer = gemini.NewClient(cfg.GeminiAPIKey, "")
	}

	// 3. Initialize Core Logic (The Driver)
	// The compiler guarantees the adapters implement their ports.
	svc := services.NewOrchestrator(analyzer, store)

	// 4. Initialize "Driving" Adapter (The Interface)
	m := metrics.NewMetrics()
	handler := rest.NewHandler(svc, m)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎧 BeatLens API is running on http://localhost%s (backend: %s)", cfg.Addr, cfg.Backend)
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
