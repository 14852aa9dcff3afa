// Package main is the entrypoint for the jobtracker API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/ai"
	"github.com/kiranshivaraju/jobtracker/internal/api"
	"github.com/kiranshivaraju/jobtracker/internal/api/handler"
	mw "github.com/kiranshivaraju/jobtracker/internal/api/middleware"
	"github.com/kiranshivaraju/jobtracker/internal/cache"
	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/internal/metrics"
	"github.com/kiranshivaraju/jobtracker/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast on invalid values
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"env", cfg.Server.Env,
		"store", cfg.Store.Kind,
		"primary", cfg.AI.Primary,
		"secondary", cfg.AI.Secondary,
		"redis", cfg.Redis.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// app is the wired server: its HTTP handler and the resources to release.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	// 2. Job store
	st, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, closeStore)

	// 3. Optional Redis cache
	var (
		redisCache *cache.RedisCache
		health     handler.Pinger
		rateLimit  *mw.RateLimit
		aiOpts     []ai.Option
	)
	if cfg.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fail(fmt.Errorf("create redis cache: %w", err))
		}
		a.closers = append(a.closers, func() { _ = redisCache.Close() })
		if err := redisCache.Ping(ctx); err != nil {
			return fail(fmt.Errorf("ping redis: %w", err))
		}
		slog.Info("redis connected")

		health = redisCache
		rateLimit = mw.NewRateLimit(redisCache, cfg.Redis.RateLimitPerMin)
		aiOpts = append(aiOpts, ai.WithCache(redisCache, cfg.Redis.AnalysisCacheTTL))
	}

	// 4. Analysis chain
	metrics.MustRegister()
	orch, err := ai.NewFromConfig(ctx, cfg.AI, slog.Default(), aiOpts...)
	if err != nil {
		return fail(fmt.Errorf("create analysis chain: %w", err))
	}
	if !orch.HasRemote() {
		slog.Warn("no AI provider credentials configured; analysis is local only")
	}

	// 5. Router
	a.handler = api.NewRouter(api.Dependencies{
		RateLimit:      rateLimit,
		HealthHandler:  handler.NewHealthHandler(st, health),
		AnalyzeHandler: handler.NewAnalyzeHandler(orch),
		ListJobs:       handler.NewListJobsHandler(st),
		CreateJob:      handler.NewCreateJobHandler(st),
		GetJob:         handler.NewGetJobHandler(st),
		UpdateJob:      handler.NewUpdateJobHandler(st),
		DeleteJob:      handler.NewDeleteJobHandler(st),
	})
	return a, nil
}
