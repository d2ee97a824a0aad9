package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hwangga/signal-app/internal/config"
	"github.com/hwangga/signal-app/internal/email"
	"github.com/hwangga/signal-app/internal/insights"
	"github.com/hwangga/signal-app/internal/monitoring"
	"github.com/hwangga/signal-app/internal/pipeline"
	"github.com/hwangga/signal-app/internal/refresher"
	"github.com/hwangga/signal-app/internal/results"
	"github.com/hwangga/signal-app/internal/server"
	"github.com/hwangga/signal-app/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := youtube.NewClient(ctx, &cfg.YouTube)
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	pipe := pipeline.New(client)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		runOnce(ctx, pipe, cfg)
		return
	}

	store := results.NewStore()
	monitor := monitoring.NewMonitor()

	var summarizer server.Summarizer
	if cfg.AI.GeminiAPIKey != "" {
		analyzer, err := insights.NewAnalyzer(&cfg.AI)
		if err != nil {
			log.Fatalf("Failed to create insights analyzer: %v", err)
		}
		summarizer = analyzer
	}

	if cfg.Schedule != "" {
		var sender refresher.DigestSender
		if cfg.EmailConfigured() {
			sender = email.NewSender(&cfg.Email)
		}
		r := refresher.New(cfg.Schedule, pipe, store, monitor, sender, cfg.Search.Default)
		if err := r.Start(ctx); err != nil {
			log.Fatalf("Failed to start refresher: %v", err)
		}
		defer r.Stop()
	}

	srv := server.New(cfg.Server, pipe, store, monitor, summarizer)
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Shutdown complete")
}

// runOnce executes the configured default search and prints the ranked
// result set as JSON.
func runOnce(ctx context.Context, pipe *pipeline.Pipeline, cfg *config.Config) {
	rs, err := pipe.Run(ctx, cfg.Search.Default)
	if err != nil {
		log.Fatalf("Run failed (%s): %v", pipeline.KindOf(err), err)
	}
	if rs.IsEmpty() {
		fmt.Fprintln(os.Stderr, "No matching content")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rs); err != nil {
		log.Fatalf("Failed to encode result set: %v", err)
	}
}
