package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/config"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/infra"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"
	"github.com/DaviAleixo/pollyana3-sub000/internal/router"
	"github.com/DaviAleixo/pollyana3-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is empty: admin login is disabled (generate one with cmd/genhash)")
	}
	if cfg.WhatsAppNumber == "" {
		log.Warn().Msg("WHATSAPP_NUMBER is empty: checkout will be refused")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres or migrate")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change notifications: local bus plus Redis fan-out to other instances.
	relay := events.NewRedisRelay(rdb, events.NewBus())
	go relay.Run(ctx)

	// Click counters are written by the worker pool, off the request path.
	pool := worker.NewPool(rdb)
	pool.Handle(worker.JobClick, worker.NewClickHandler(repository.NewClickRepository(db)))
	pool.Start(ctx, cfg.WorkerPoolSize)

	cepCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, relay, cepCB)

	// WriteTimeout stays zero: the cart event stream is long-lived.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("storefront backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
