// Command server runs the videovault HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/videovault/pkg/config"
	"github.com/dmitrymomot/videovault/pkg/environment"
	"github.com/dmitrymomot/videovault/pkg/httpserver"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/requestid"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app config.App
	if err := config.Load(&app); err != nil {
		return err
	}
	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithConfig(logCfg),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	deps, cleanup, err := buildDependencies(ctx, app, log)
	if err != nil {
		return err
	}
	defer cleanup()

	router, err := NewRouter(deps)
	if err != nil {
		return err
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	log.InfoContext(ctx, "starting api",
		slog.String("storage", app.Storage),
		slog.Bool("manual_activation", app.ManualActivationAllowed()),
		slog.Bool("production", app.Environment() == environment.Production),
	)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}
