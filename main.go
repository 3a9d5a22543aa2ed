package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Fl0rencess720/SearchChat/agent"
	"github.com/Fl0rencess720/SearchChat/chat"
	"github.com/Fl0rencess720/SearchChat/config"
	"github.com/Fl0rencess720/SearchChat/web"
)

func main() {
	// The default credential must not outlive its removal from .env.
	processEnv := config.SnapshotEnviron()

	// Load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newServerLogger(serverLogOutput, parseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaults := config.NewDefaultCredential(cfg.CredentialEnv, cfg.EnvFile, processEnv.Getenv)
	if _, err := defaults.Watch(sigCtx); err != nil {
		logger.Warn("Default credential will not be reloaded", "file", cfg.EnvFile, "error", err)
	}

	tools := agent.NewToolset(&http.Client{Timeout: cfg.SearchTimeout})
	builder, err := agent.NewBuilder(agent.Config{
		BaseURL:       cfg.BaseURL,
		Model:         cfg.Model,
		MaxIterations: cfg.MaxIterations,
	}, tools, logger)
	if err != nil {
		log.Fatalf("new agent builder: %v", err)
	}

	handler, err := chat.NewHandler(builder, defaults, logger)
	if err != nil {
		log.Fatalf("new chat handler: %v", err)
	}

	server, err := web.New(cfg.Addr, handler, logger)
	if err != nil {
		log.Fatalf("new server: %v", err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Start()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil {
			log.Fatalf("server exited: %v", err)
		}
		return
	case <-sigCtx.Done():
	}

	logger.Info("Received shutdown signal. Stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown server: %v", err)
	}
	if err := <-serverErrCh; err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
