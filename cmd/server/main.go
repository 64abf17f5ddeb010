package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/drawboard/internal/server/handlers"
	"github.com/iudanet/drawboard/internal/server/jwt"
	"github.com/iudanet/drawboard/internal/server/middleware"
	"github.com/iudanet/drawboard/internal/server/storage/sqlite"
	"github.com/iudanet/drawboard/internal/server/ws"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const (
	defaultTokenTTL    = 24 * time.Hour
	shutdownTimeout    = 10 * time.Second
	apiRateLimit       = 100
	apiRateLimitWindow = time.Minute
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "drawboard.db", "Path to SQLite database")
	jwtSecret := flag.String("jwt-secret", "", "JWT signing secret (or DRAWBOARD_JWT_SECRET)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	secret := *jwtSecret
	if secret == "" {
		secret = os.Getenv("DRAWBOARD_JWT_SECRET")
	}
	if secret == "" {
		logger.Error("JWT secret is required: pass --jwt-secret or set DRAWBOARD_JWT_SECRET")
		os.Exit(1)
	}

	if err := run(logger, *addr, *dbPath, secret); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, dbPath, secret string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Журнал событий комнат
	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	jwtService := jwt.NewService(secret, defaultTokenTTL)

	hub := ws.NewHub(logger, store)
	wsHandler := ws.NewHandler(logger, hub, jwtService)

	chatsHandler := handlers.NewChatsHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, Version)

	// HTTP API заворачивается в middleware; /ws живет без них:
	// logging middleware прячет http.Hijacker, а rate limit не нужен
	// долгоживущему соединению
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/v1/chats/{roomID}", chatsHandler.HandleChats)
	apiMux.HandleFunc("GET /api/v1/health", healthHandler.Health)

	var apiHandler http.Handler = apiMux
	apiHandler = middleware.RateLimitMiddleware(apiRateLimit, apiRateLimitWindow, logger)(apiHandler)
	apiHandler = middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(apiHandler)
	apiHandler = middleware.RecoveryMiddleware(logger)(apiHandler)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.Handle("/api/", apiHandler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", addr, "version", Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func printVersion() {
	fmt.Printf("Drawboard Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
