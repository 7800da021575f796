package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harrytothemoon/lbet/internal/adapters/betlog"
	"github.com/harrytothemoon/lbet/internal/adapters/cache"
	"github.com/harrytothemoon/lbet/internal/adapters/http/api"
	"github.com/harrytothemoon/lbet/internal/adapters/sheets"
	"github.com/harrytothemoon/lbet/internal/app"
	"github.com/harrytothemoon/lbet/internal/config"
	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	dailyHour, dailyMinute, err := cfg.DailyBoundary()
	if err != nil {
		os.Stderr.WriteString("invalid daily_update_time: " + err.Error() + "\n")
		return
	}

	cacheManager := cache.NewManager(
		cache.NewMemoryStore(cache.WithCapacity(cfg.CacheCapacityBytes)),
		cache.WithPrefix(cfg.CachePrefix),
		cache.WithSlidingTTL(time.Duration(cfg.LiveCacheTTLMinutes)*time.Minute),
		cache.WithDailyBoundary(dailyHour, dailyMinute),
		cache.WithRetention(cfg.CacheRetention),
		cache.WithLogger(log.Named("cache")),
	)

	svc := app.New(cfg,
		app.WithLogger(log.Named("app")),
		app.WithCache(cacheManager),
		app.WithSheets(sheets.NewClient(cfg.SheetID, sheets.WithLogger(log.Named("sheets")))),
		app.WithBetlog(betlog.NewClient(cfg.APIBaseURL,
			betlog.WithMode(betlog.Mode(cfg.APIMode)),
			betlog.WithPageSize(cfg.APIPageSize),
			betlog.WithLogger(log.Named("betlog")),
		)),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Int("currentWeek", svc.CurrentWeek()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
