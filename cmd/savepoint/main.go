package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savepoint/internal/clients/hltb"
	"savepoint/internal/clients/igdb"
	"savepoint/internal/clients/steam"
	"savepoint/internal/config"
	"savepoint/internal/middleware"
	"savepoint/internal/routes"
	"savepoint/internal/storage/covers"
	"savepoint/internal/storage/mariadb"

	_ "savepoint/internal/controllers"

	ssogrpc "savepoint/internal/clients/sso/grpc"
)

const (
	envLocal = "local"
	envProd  = "prod"
)

const clientTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting server", slog.String("env", cfg.Env))

	ssoClient, err := ssogrpc.New(
		context.Background(),
		log,
		cfg.Clients.SSO.Address,
		cfg.Clients.SSO.Timeout,
		cfg.Clients.SSO.RetriesCount,
	)
	if err != nil {
		log.Error("failed to create sso client", slog.String("error", err.Error()))
		panic("sso-err")
	}

	authMiddleware := middleware.NewAuthMiddleware(ssoClient)

	storage, err := mariadb.New(cfg.Database)
	if err != nil {
		log.Error("failed to create database", slog.String("error", err.Error()))
		panic("db-err")
	}

	coversStorage, err := covers.NewCovers(cfg.CoversPath)
	if err != nil {
		log.Error("failed to create covers storage", slog.String("error", err.Error()))
		panic("covers-err")
	}

	log.Info("storage init")

	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	err = storage.Migrate()
	if err != nil {
		log.Error("migration", slog.String("error", err.Error()))
		panic("table-err")
	}

	log.Info("database init")

	clients := routes.Clients{
		Catalog:  igdb.New(log, cfg.TwitchClientId, cfg.TwitchClientSecret, clientTimeout),
		Estimate: hltb.New(log, clientTimeout),
		Steam:    steam.New(log, cfg.SteamAPIKey, clientTimeout),
		SSO:      ssoClient,
	}

	r := routes.SetupRouter(log, storage, coversStorage, cfg.CoversPath, authMiddleware, clients, cfg.Cors)

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("address", cfg.Address))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown error", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				log.Error("force shutdown error", slog.String("error", err.Error()))
			}
		}
		close(shutdown)
		close(serverErrors)
	}
	log.Info("server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}

// @title SavePoint API
// @version 1.0
// @description Backend for tracking video game backlogs, wishlists and playthroughs

// @host localhost:8080
// @BasePath /api
