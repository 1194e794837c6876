// Vitalog is a health logging daemon that interprets free-form meal,
// workout, weight, and step entries into structured records.
//
// Usage:
//
//	vitalog [flags]
//	vitalog --config /path/to/vitalog.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vitalog/vitalog/internal/config"
	"github.com/vitalog/vitalog/internal/health"
	"github.com/vitalog/vitalog/internal/inference"
	localinfer "github.com/vitalog/vitalog/internal/inference/local"
	openaiinfer "github.com/vitalog/vitalog/internal/inference/openai"
	"github.com/vitalog/vitalog/internal/interpret"
	"github.com/vitalog/vitalog/internal/record"
	"github.com/vitalog/vitalog/internal/transcribe"
	httptransport "github.com/vitalog/vitalog/internal/transport/http"

	_ "github.com/vitalog/vitalog/docs"
)

// version is set at build time via ldflags.
var version = "dev"

// @title        Vitalog API
// @version      1.0
// @description  Natural-language health entry interpretation and logging service.
// @BasePath     /
func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/vitalog.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vitalog %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("vitalog starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the inference backend.
	var client inference.Client
	var transcriber transcribe.Transcriber
	switch cfg.Inference.Backend {
	case "openai":
		client, err = openaiinfer.New(cfg.Inference.OpenAI)
		if err != nil {
			slog.Error("failed to initialize OpenAI backend", "error", err)
			os.Exit(1)
		}
		transcriber = transcribe.NewWhisper(
			strings.TrimRight(cfg.Inference.OpenAI.BaseURL, "/")+"/audio/transcriptions",
			cfg.Inference.OpenAI.APIKey,
			cfg.Inference.OpenAI.TranscriptionModel,
			cfg.Inference.OpenAI.Timeout)
		slog.Info("using OpenAI backend",
			"model", cfg.Inference.OpenAI.Model,
			"transcription_model", cfg.Inference.OpenAI.TranscriptionModel)
	case "local":
		client = localinfer.New(cfg.Inference.Local)
		transcriber = transcribe.NewWhisper(
			cfg.Inference.Local.WhisperEndpoint, "", "", cfg.Inference.Local.Timeout)
		slog.Info("using local backend",
			"chat", cfg.Inference.Local.ChatEndpoint,
			"whisper", cfg.Inference.Local.WhisperEndpoint)
	default:
		slog.Error("unknown inference backend", "backend", cfg.Inference.Backend)
		os.Exit(1)
	}
	defer client.Close()

	// Open the record store.
	store, err := record.OpenSQLite(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open record store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("record store open", "path", cfg.Store.Path)

	// Wire the pipeline and the API server.
	svc := interpret.New(client, store)
	server := httptransport.New(cfg.Server.Port, svc, store, transcriber)

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	healthServer.SetReady(true)
	slog.Info("vitalog ready",
		"port", cfg.Server.Port,
		"health_port", cfg.Server.HealthPort,
		"backend", client.Name())

	// Serve until shutdown signal.
	if err := server.Listen(ctx); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("vitalog stopped")
}
