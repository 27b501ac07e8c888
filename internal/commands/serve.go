package commands

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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	portsrepo "github.com/SscSPs/ngo_fund_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/ngo_fund_ledger/internal/core/services"
	"github.com/SscSPs/ngo_fund_ledger/internal/handlers"
	"github.com/SscSPs/ngo_fund_ledger/internal/metrics"
	"github.com/SscSPs/ngo_fund_ledger/internal/middleware"
	"github.com/SscSPs/ngo_fund_ledger/internal/platform/config"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/cache"
	"github.com/SscSPs/ngo_fund_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/ngo_fund_ledger/pkg/database"
	"github.com/SscSPs/ngo_fund_ledger/pkg/redisclient"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	var migrateOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(os.Stdout)
			slog.SetDefault(logger)

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger, migrateOnStart)
		},
	}

	cmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrateOnStart bool) error {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		return fmt.Errorf("registering validators: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if migrateOnStart {
		logger.Info("Running database migrations...")
		res, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, 0)
		if err != nil {
			return err
		}
		logger.Info("Database migrations done", slog.Uint64("version", uint64(res.Version)), slog.Bool("changed", res.Changed))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	var redisClient *redis.Client
	var idempotency portsrepo.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisClient, err = redisclient.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer redisclient.Close(redisClient)
		idempotency = cache.NewRedisIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		logger.Info("Redis connected", slog.String("addr", cfg.RedisAddr))
	} else {
		idempotency = cache.NewMemoryIdempotencyStore(cfg.IdempotencyTTL)
		logger.Warn("REDIS_ADDR not set; idempotency keys and rate limits are per instance")
	}

	repos := pgsql.NewRepositoryProvider(dbPool, pgsql.WithRetryHook(recorder.VoucherTxRetried))
	container := services.NewServiceContainer(cfg, repos,
		services.WithIdempotency(idempotency),
		services.WithObserver(recorder))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.MetricsMiddleware(recorder),
		middleware.RateLimit(rateLimiter),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("setting trusted proxies: %w", err)
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", handlers.IdempotencyKeyHeader)
	cc.ExposeHeaders = []string{"Content-Disposition"}
	return cc
}
