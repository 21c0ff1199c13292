// Package app wires the configuration, storage backend, HTTP stack and the
// individual stores into one storefront client.
package app

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pranavchugh1/alveera/internal/admin"
	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/cart"
	"github.com/pranavchugh1/alveera/internal/catalog"
	"github.com/pranavchugh1/alveera/internal/checkout"
	"github.com/pranavchugh1/alveera/internal/config"
	"github.com/pranavchugh1/alveera/internal/orders"
	"github.com/pranavchugh1/alveera/internal/session"
	"github.com/pranavchugh1/alveera/internal/storage"
	filestore "github.com/pranavchugh1/alveera/internal/storage/file"
	redisstore "github.com/pranavchugh1/alveera/internal/storage/redis"
	"github.com/pranavchugh1/alveera/pkg/httpclient"
	"github.com/pranavchugh1/alveera/pkg/tracing"
)

// App is the assembled storefront client.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Cart        *cart.Store
	Customer    *session.Store
	Admin       *session.Store
	Catalog     *catalog.Client
	Checkout    *checkout.Flow
	Orders      *orders.Client
	AdminClient *admin.Client

	redis           *goredis.Client
	tracingShutdown func(context.Context) error
}

// New assembles the application from configuration. The returned App must be
// closed with Shutdown.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "alveera-client",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracingShutdown = shutdown

	store, err := a.newStorage(ctx)
	if err != nil {
		return nil, err
	}

	hc := httpclient.New(httpclient.Config{
		Timeout:         cfg.HTTP.Timeout,
		MaxRetries:      cfg.HTTP.MaxRetries,
		RetryWaitMin:    cfg.HTTP.RetryWaitMin,
		RetryWaitMax:    cfg.HTTP.RetryWaitMax,
		MaxConnsPerHost: cfg.HTTP.MaxConnsPerHost,
	})
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.CircuitBreakerConfig{
		Name:         "storefront-api",
		Interval:     cfg.HTTP.BreakerInterval,
		Timeout:      cfg.HTTP.BreakerTimeout,
		FailureRatio: cfg.HTTP.BreakerFailureRatio,
		MinRequests:  cfg.HTTP.BreakerMinRequests,
	}, log)
	apiClient := api.New(cfg.APIBaseURL, cb, log)

	a.Cart = cart.NewStore(ctx, store, log)
	a.Customer = session.New(ctx, session.CustomerEndpoints(), apiClient, store, log)
	a.Admin = session.New(ctx, session.AdminEndpoints(), apiClient, store, log)

	a.Catalog = catalog.NewClient(apiClient, catalog.Config{
		PageSize:       cfg.Catalog.PageSize,
		DebounceWindow: cfg.Catalog.SearchDebounce,
		RequestTimeout: cfg.Catalog.RequestTimeout,
	}, log)

	a.Checkout = checkout.NewFlow(a.Customer.API(), a.Cart, a.Customer, log)
	a.Orders = orders.NewClient(a.Customer, log)
	a.AdminClient = admin.NewClient(a.Admin, log)

	// Tokens persisted by a previous run are revalidated once at startup.
	a.Customer.Validate(ctx)
	a.Admin.Validate(ctx)

	return a, nil
}

func (a *App) newStorage(ctx context.Context) (storage.Store, error) {
	cfg := a.Config
	if cfg.UseRedis() {
		a.redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		a.Logger.InfoContext(ctx, "state persistence on redis",
			slog.String("addr", cfg.RedisAddr),
		)
		return redisstore.New(a.redis, cfg.RedisTTL), nil
	}

	store, err := filestore.New(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open state dir %s: %w", cfg.StateDir, err)
	}
	a.Logger.InfoContext(ctx, "state persistence on disk",
		slog.String("dir", cfg.StateDir),
	)
	return store, nil
}

// Shutdown releases the app's resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.Catalog.Close()

	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
