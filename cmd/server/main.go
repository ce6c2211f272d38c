package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/documind/internal/answer"
	"github.com/dgallion1/documind/internal/api"
	"github.com/dgallion1/documind/internal/config"
	"github.com/dgallion1/documind/internal/ingest"
	"github.com/dgallion1/documind/internal/llm"
	"github.com/dgallion1/documind/internal/mongostore"
	"github.com/dgallion1/documind/internal/parser"
	"github.com/dgallion1/documind/internal/splitter"
)

func main() {
	// Best-effort; the environment wins over .env values.
	godotenv.Load()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// The upload directory is created once here, not lazily per request.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("create upload dir", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	store, err := mongostore.Connect(connectCtx, cfg.MongoURI)
	connectCancel()
	if err != nil {
		log.Error("connect datastore", "error", err)
		os.Exit(1)
	}

	client, err := llm.New(cfg)
	if err != nil {
		log.Error("init llm client", "error", err)
		os.Exit(1)
	}

	// Wire the pipelines around the shared store and provider client.
	sp := splitter.New(cfg.ChunkSize, cfg.ChunkOverlap)
	pdf := &parser.PDF{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	ingestor := ingest.New(pdf, sp, client, store, log)
	answerer := answer.New(client, store, client, cfg.RetrievalTopK, log)

	srv := api.NewServer(ingestor, answerer, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		log.Info("provider stats",
			"generate", client.GenerateStats.Snapshot(),
			"embed", client.EmbedStats.Snapshot(),
		)
		if err := store.Close(shutdownCtx); err != nil {
			log.Error("close datastore", "error", err)
		}
	}()

	log.Info("starting documind", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
