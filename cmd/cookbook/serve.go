package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/devdonalds/cookbook/internal/config"
	"github.com/devdonalds/cookbook/internal/cookbook"
	"github.com/devdonalds/cookbook/internal/web/api"
	"github.com/devdonalds/cookbook/internal/web/cache"
	"github.com/devdonalds/cookbook/internal/web/middleware"
	"github.com/devdonalds/cookbook/internal/web/server"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override the configured listen port")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cookbook HTTP server",
	Long:  "Load configuration, build the cookbook registry, and serve the API until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		logger, err := newLogger(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer logger.Sync()

		registry := cookbook.NewRegistry()

		summaryCache, closeCache, err := newSummaryCache(cfg.Cache)
		if err != nil {
			return err
		}

		var writeAuth middleware.Middleware
		if cfg.Auth.Enabled {
			writeAuth = middleware.BearerAuth([]byte(cfg.Auth.Secret))
			logger.Info("admission endpoint requires bearer token")
		}

		cookbookAPI := api.New(api.Options{
			Registry:     registry,
			SummaryCache: summaryCache,
			SummaryTTL:   cfg.Cache.TTL,
			Logger:       logger,
			WriteAuth:    writeAuth,
		})

		chain := middleware.NewChain(
			middleware.RequestID(),
			middleware.LoggingWithConfig(middleware.LoggingConfig{
				Logger:    logger,
				SkipPaths: []string{"/health"},
			}),
			middleware.Recovery(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
			middleware.CORS(),
		)

		serverConfig := server.DefaultConfig(chain.Apply(cookbookAPI.Routes()))
		serverConfig.Address = cfg.Address()
		serverConfig.ReadTimeout = cfg.Server.ReadTimeout
		serverConfig.WriteTimeout = cfg.Server.WriteTimeout

		srv, err := server.New(serverConfig)
		if err != nil {
			return err
		}

		color.Green("Cookbook serving on http://%s (cache: %s)", cfg.Address(), cfg.Cache.Backend)

		shutdown := server.NewGracefulShutdown(srv, &server.ShutdownConfig{
			Timeout: cfg.Server.ShutdownTimeout,
			Logger:  zap.NewStdLog(logger),
		})
		if closeCache != nil {
			shutdown.RegisterHook(func(ctx context.Context) error {
				return closeCache()
			})
		}

		return shutdown.Start()
	},
}

// newSummaryCache builds the configured cache backend. The returned
// close function is nil for backends with nothing to release.
func newSummaryCache(cfg config.CacheConfig) (cache.Cache, func() error, error) {
	cacheConfig := cache.DefaultConfig()
	if cfg.TTL > 0 {
		cacheConfig.DefaultTTL = cfg.TTL
	}

	switch cfg.Backend {
	case config.CacheBackendNone:
		return nil, nil, nil

	case config.CacheBackendMemory:
		return cache.NewMemoryCacheWithConfig(cacheConfig), nil, nil

	case config.CacheBackendRedis:
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			CacheConfig: cacheConfig,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return redisCache, redisCache.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

// newLogger builds the zap logger from the log config
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	return zapConfig.Build()
}
