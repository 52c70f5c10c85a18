package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/staffhub/internal/config"
	"github.com/geocoder89/staffhub/internal/db"
	httpapi "github.com/geocoder89/staffhub/internal/http"
	"github.com/geocoder89/staffhub/internal/observability"
	"github.com/geocoder89/staffhub/internal/redisclient"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, "staffhub", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("otel init failed", "error", err)
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := shutdown(flushCtx); err != nil {
					log.Error("otel shutdown", "error", err)
				}
			}()
		}
	}

	if err := db.RunMigrations(cfg.DBURL); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPool(cfg.DBURL)
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.EnsureManagerUser(ctx, pool, cfg); err != nil {
		log.Error("manager seed failed", "error", err)
		os.Exit(1)
	}

	var redis *redisclient.Client

	if cfg.RedisAddr != "" {
		redis = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancel := config.WithTimeout(2 * time.Second)

		if err := redis.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, falling back to in-memory rate limiting", "error", err)
			_ = redis.Close()
			redis = nil
		}

		cancel()

		if redis != nil {
			defer redis.Close() //nolint:errcheck
		}
	}

	router := httpapi.NewRouter(log, pool, cfg, redis)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port, "env", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
