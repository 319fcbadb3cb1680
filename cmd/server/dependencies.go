package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/videovault/db/migrations"
	"github.com/dmitrymomot/videovault/pkg/billing"
	"github.com/dmitrymomot/videovault/pkg/config"
	"github.com/dmitrymomot/videovault/pkg/httpserver"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/metrics"
	"github.com/dmitrymomot/videovault/pkg/pg"
	"github.com/dmitrymomot/videovault/pkg/rbac"
	"github.com/dmitrymomot/videovault/pkg/redis"
	"github.com/dmitrymomot/videovault/svc/account"
	"github.com/dmitrymomot/videovault/svc/subscription"
	"github.com/dmitrymomot/videovault/svc/videos"
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	App    config.App
	Logger *slog.Logger

	Tokens     *jwt.Service
	Authorizer *rbac.Authorizer

	Users      account.Store
	Accounts   *account.Service
	Videos     *videos.Service
	Reconciler *subscription.Reconciler

	Registry     *prometheus.Registry
	HealthChecks map[string]httpserver.Check
}

// Backends are the swappable infrastructure pieces behind the services.
type Backends struct {
	Provider billing.Provider
	Users    account.Store
	Videos   videos.Store
	Ledger   subscription.EventLedger
	Checks   map[string]httpserver.Check
}

var ErrUnknownStorage = errors.New("unknown storage backend")

func buildDependencies(ctx context.Context, app config.App, log *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var stripeCfg billing.StripeConfig
	if err := config.Load(&stripeCfg); err != nil {
		return nil, cleanup, err
	}
	provider, err := billing.NewStripeProvider(stripeCfg)
	if err != nil {
		return nil, cleanup, err
	}

	var jwtCfg jwt.Config
	if err := config.Load(&jwtCfg); err != nil {
		return nil, cleanup, err
	}
	tokens, err := jwt.New(jwtCfg)
	if err != nil {
		return nil, cleanup, err
	}

	b := Backends{Provider: provider, Checks: map[string]httpserver.Check{}}

	switch app.Storage {
	case config.StorageMemory:
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		b.Users = account.NewMemoryStore()
		b.Videos = videos.NewMemoryStore()

	case config.StoragePostgres, "":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, cleanup, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pool.Close)

		if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
			return nil, cleanup, err
		}
		b.Users = account.NewPostgresStore(pool)
		b.Videos = videos.NewPostgresStore(pool)
		b.Checks["postgres"] = pg.Healthcheck(pool)

	default:
		return nil, cleanup, fmt.Errorf("%w: %q", ErrUnknownStorage, app.Storage)
	}

	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return nil, cleanup, err
	}
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				log.WarnContext(ctx, "failed to close redis client", logger.Error(err))
			}
		})
		b.Ledger = subscription.NewRedisLedger(client, app.EventLedgerTTL)
		b.Checks["redis"] = redis.Healthcheck(client)
	} else {
		b.Ledger = subscription.NewMemoryLedger(app.EventLedgerSize, app.EventLedgerTTL)
	}

	deps, err := newDependencies(ctx, app, log, tokens, b)
	if err != nil {
		return nil, cleanup, err
	}
	return deps, cleanup, nil
}

func newDependencies(ctx context.Context, app config.App, log *slog.Logger, tokens *jwt.Service, b Backends) (*Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return nil, err
	}

	authz, err := rbac.NewAuthorizer(ctx, rbac.DefaultSource())
	if err != nil {
		return nil, err
	}

	reconciler := subscription.NewReconciler(b.Provider, b.Users,
		subscription.WithLogger(log),
		subscription.WithLedger(b.Ledger),
		subscription.WithMetrics(recorder),
		subscription.WithAppURL(app.URL),
	)

	return &Dependencies{
		App:          app,
		Logger:       log,
		Tokens:       tokens,
		Authorizer:   authz,
		Users:        b.Users,
		Accounts:     account.NewService(b.Users, account.WithLogger(log)),
		Videos:       videos.NewService(b.Videos, b.Users, videos.WithLogger(log)),
		Reconciler:   reconciler,
		Registry:     registry,
		HealthChecks: b.Checks,
	}, nil
}
