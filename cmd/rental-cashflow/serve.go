package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/iwvelando/rental-cashflow/internal/cache"
	"github.com/iwvelando/rental-cashflow/internal/server"
	"github.com/iwvelando/rental-cashflow/internal/store"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"go.uber.org/zap"
)

type serveCmd struct {
	configLocation string
	address        string
	logLevel       string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the projection API over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-config server-config.yaml] [-address :8080]

Starts the HTTP API. Projection results are cached in Redis when
cache.redisAddr is set and in memory otherwise; every computed run is
archived to the SQLite file at storage.path.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configLocation, "config", constants.DefaultServerConfigFile, "path to server configuration file")
	f.StringVar(&c.address, "address", "", "listen address override")
	f.StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := server.LoadConfig(c.configLocation)
	if err != nil {
		fatal("failed to load server configuration at "+c.configLocation, err)
		return subcommands.ExitFailure
	}
	if c.address != "" {
		cfg.Address = c.address
	}

	logger, err := initializeLogger(cfg.Logging, c.logLevel)
	if err != nil {
		fatal("failed to initialize logger", err)
		return subcommands.ExitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	runs, err := store.New(cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open run archive",
			zap.String("op", "main.serve"),
			zap.String("path", cfg.Storage.Path),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	defer func() { _ = runs.Close() }()

	var projectionCache cache.Cache = cache.NewMemory()
	if cfg.Cache.RedisAddr != "" {
		redisCache := cache.NewRedis(cfg.Cache.RedisAddr, logger)
		defer func() { _ = redisCache.Close() }()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, results will be recomputed until it recovers",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
		}
		projectionCache = redisCache
	}

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize:  cfg.UploadSizeBytes(),
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		Cache:          projectionCache,
		CacheTTL:       cfg.Cache.TTL,
		Store:          runs,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.String("op", "main.serve"), zap.Error(err))
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.String("op", "main.serve"), zap.Error(err))
			return subcommands.ExitFailure
		}
		logger.Info("server stopped", zap.String("op", "main.serve"))
	}
	return subcommands.ExitSuccess
}
