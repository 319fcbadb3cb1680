// Command seed-admin creates the administrator account if it does not exist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/videovault/db/migrations"
	"github.com/dmitrymomot/videovault/pkg/config"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/pg"
	"github.com/dmitrymomot/videovault/svc/account"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed-admin: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app config.App
	if err := config.Load(&app); err != nil {
		return err
	}
	var admin config.Admin
	if err := config.Load(&admin); err != nil {
		return err
	}
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return err
	}

	log := logger.New(logger.WithEnvironment(app.Env, "seed-admin"))

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
		return err
	}

	return seed(ctx, account.NewService(account.NewPostgresStore(pool), account.WithLogger(log)), admin, log)
}

func seed(ctx context.Context, accounts *account.Service, admin config.Admin, log *slog.Logger) error {
	user, created, err := accounts.EnsureAdmin(ctx, admin.Email, admin.Password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if !created {
		log.InfoContext(ctx, "admin user already exists", slog.String("email", user.Email))
		return nil
	}
	log.InfoContext(ctx, "admin user created",
		slog.String("email", user.Email),
		logger.UserID(user.ID),
		logger.Role(string(user.Role)),
	)
	return nil
}
