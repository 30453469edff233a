package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nostr-widgets/internal/cache"
	"nostr-widgets/internal/config"
	"nostr-widgets/internal/nostr"
	"nostr-widgets/internal/relay"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	InitLogger(cfg.SlogLevel())

	caches := cache.New(cfg.RedisURL, cache.DefaultCacheConfig())
	defer caches.Close()

	pool := relay.NewPool()
	defer pool.Close()
	client := relay.NewClient(pool, cfg.Relays.Default, cfg.Fetch.RelayTimeout)

	var signer *nostr.Signer
	if cfg.SignerKey != "" {
		if signer, err = nostr.NewSigner(cfg.SignerKey); err != nil {
			slog.Error("invalid signer key", "error", err)
			os.Exit(1)
		}
		slog.Info("metadata signer enabled", "pubkey", nostr.ShortID(signer.Pubkey()))
	}

	app, err := NewApp(cfg, AppDeps{
		Source:     client,
		Caches:     caches,
		Signer:     signer,
		RelayConns: pool.ConnectedCount,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "port", cfg.Port, "relays", len(cfg.Relays.Default), "cache", caches.BackendType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
