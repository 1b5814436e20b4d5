// ember-api: HTTP relay between the Ember tutoring frontend and the
// chat-completion and speech providers it depends on.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberlabs/go-ember/internal/config"
	"github.com/emberlabs/go-ember/internal/log"
	"github.com/emberlabs/go-ember/internal/metrics"
	"github.com/emberlabs/go-ember/internal/server"
	"github.com/emberlabs/go-ember/pkg/audio"
	"github.com/emberlabs/go-ember/pkg/inference"
	"github.com/emberlabs/go-ember/pkg/ocr"
	"github.com/emberlabs/go-ember/pkg/tts"
	"github.com/emberlabs/go-ember/pkg/tutor"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	version = "1.0.0"
	port    = flag.Int("port", 0, "HTTP server port (overrides PORT)")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	log.Init(cfg.LogLevel)
	logger := log.L()

	logger.Info("ember-api starting", "version", version, "port", cfg.Port)

	llm, err := inference.NewClient(
		inference.WithBaseURL(cfg.OpenAIBaseURL),
		inference.WithAPIKey(cfg.OpenAIAPIKey),
		inference.WithModel(cfg.ChatModel),
		inference.WithLogger(logger),
	)
	if err != nil {
		logger.Error("inference client", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	speaker, err := tts.NewElevenLabs(
		tts.WithAPIKey(cfg.ElevenLabsAPIKey),
		tts.WithVoice(cfg.VoiceID),
		tts.WithModel(cfg.VoiceModel),
		tts.WithLogger(logger),
	)
	if err != nil {
		logger.Error("speech client", "error", err)
		os.Exit(1)
	}
	defer speaker.Close()

	store, err := audio.NewStore(cfg.AudioDir, "/audio")
	if err != nil {
		logger.Error("audio store", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	orchestrator, err := tutor.New(tutor.Config{
		LLM:     llm,
		TTS:     speaker,
		OCR:     ocr.NewVisionEngine(llm, cfg.ChatModel),
		Audio:   store,
		Metrics: m,
		Logger:  logger,
		Model:   cfg.ChatModel,
	})
	if err != nil {
		logger.Error("orchestrator", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		Orchestrator: orchestrator,
		Sessions:     tutor.NewStore(),
		Metrics:      m,
		AudioDir:     cfg.AudioDir,
		Registry:     registry,
		Logger:       logger,
		Debug:        *debug,
	})

	go func() {
		if err := srv.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	logger.Info("goodbye")
}
