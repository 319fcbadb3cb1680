// Package pg bootstraps PostgreSQL access on top of pgx/v5: a connection pool
// with startup retry, goose migrations applied from an embedded filesystem,
// a readiness check and classifiers for common driver errors.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// Repositories depend on the DBTX interface rather than *pgxpool.Pool so a
// pgxmock pool can stand in during tests.
package pg
