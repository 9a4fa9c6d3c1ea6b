package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/packfinderz-shipping/api/routes"
	"github.com/angelmondragon/packfinderz-shipping/internal/catalog"
	"github.com/angelmondragon/packfinderz-shipping/internal/postalcode"
	"github.com/angelmondragon/packfinderz-shipping/internal/shipping"
	"github.com/angelmondragon/packfinderz-shipping/pkg/config"
	"github.com/angelmondragon/packfinderz-shipping/pkg/db"
	"github.com/angelmondragon/packfinderz-shipping/pkg/instance"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/metrics"
	"github.com/angelmondragon/packfinderz-shipping/pkg/migrate"
	"github.com/angelmondragon/packfinderz-shipping/pkg/redis"
	"github.com/angelmondragon/packfinderz-shipping/pkg/viacep"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	postalCodeTTL     = 24 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured; rate limiting and postal code cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	quoteService, err := shipping.NewService(
		catalog.NewRepository(dbClient.DB()),
		logg,
		metrics.NewQuoteMetrics(registry),
	)
	if err != nil {
		return err
	}

	var cache interface {
		Get(context.Context, string) (string, error)
		Set(context.Context, string, any, time.Duration) error
		PostalCodeKey(string) string
	}
	if redisClient != nil {
		cache = redisClient
	}
	postalCodeService, err := postalcode.NewService(
		viacep.NewClient(
			viacep.WithBaseURL(cfg.PostalCode.BaseURL),
			viacep.WithTimeout(cfg.PostalCode.Timeout),
		),
		cache,
		postalCodeTTL,
		logg,
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	servers := []*http.Server{{
		Addr:              ":" + cfg.App.Port,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, quoteService, postalCodeService),
		ReadHeaderTimeout: readHeaderTimeout,
	}}
	if cfg.Metrics.Port != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		servers = append(servers, &http.Server{
			Addr:              ":" + cfg.Metrics.Port,
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		})
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     servers[0].Addr,
		"instance": instance.GetID(),
		"driver":   cfg.DB.Driver,
	})
	logg.Info(logCtx, "starting api server")

	group, groupCtx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		group.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		logg.Info(logCtx, "api server shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var shutdownErr error
		for _, srv := range servers {
			shutdownErr = multierr.Append(shutdownErr, srv.Shutdown(shutdownCtx))
		}
		return shutdownErr
	})

	return group.Wait()
}
