package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/talentops/cvhub/internal/auth"
	"github.com/talentops/cvhub/internal/cache"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/db"
	httpx "github.com/talentops/cvhub/internal/http"
	"github.com/talentops/cvhub/internal/observability"
)

func main() {
	// .env is a dev convenience; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	// tracing is optional; enabled only when a collector endpoint is set
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "cvhub", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db pool failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	migrateCtx, cancelMigrate := config.WithTimeout(30 * time.Second)

	err = db.RunMigrations(migrateCtx, cfg.DBURL)

	cancelMigrate()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	seedCtx, cancelSeed := config.WithTimeout(5 * time.Second)

	err = db.EnsureAdminUser(seedCtx, pool, cfg)

	cancelSeed()

	if err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	// cache backend: shared Redis when configured, per-process otherwise
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	var listCache cache.Store

	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.RedisAddr, cacheTTL)

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		err := redisCache.Ping(pingCtx)
		cancelPing()

		if err != nil {
			log.Error("redis ping failed", "err", err)
			os.Exit(1)
		}

		defer redisCache.Close()

		listCache = redisCache
	} else {
		listCache = cache.NewMemory(cacheTTL)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, auth.SessionTTL)

	promReg := prometheus.NewRegistry()
	metrics := observability.NewProm(promReg)

	router := httpx.NewRouter(log, pool, cfg, jwtManager, jwtManager, listCache, metrics, promReg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
