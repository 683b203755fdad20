// seenby-migrate applies the base schema plus the DDL for the configured
// tracking strategy. Steps are recorded in schema_migrations so re-runs only
// apply what is missing
package main

import (
	"context"
	"fmt"

	"seenby/internal/modkit/repokit"
	"seenby/internal/platform/config"
	"seenby/internal/platform/logger"
	"seenby/internal/platform/store"
	"seenby/internal/services/seenby/repo"
)

const migrationsTable = `
create table if not exists schema_migrations (
  name text primary key,
  applied_at timestamptz not null default now()
)`

func main() {
	config.LoadDotEnv()

	root := config.New()
	svcCfg := root.Prefix("SEENBY_")
	pgCfg := svcCfg.Prefix("PG_")

	l := logger.Named("migrate")

	desc, err := repo.Resolve(svcCfg.MayString("STRATEGY", ""))
	if err != nil {
		l.Fatal().Err(err).Msg("cannot migrate without a valid strategy")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled: true,
			URL:     pgCfg.MustString("DBURL"),
			LogSQL:  pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(ctx) }()

	if _, err := st.PG.Exec(ctx, migrationsTable); err != nil {
		l.Fatal().Err(err).Msg("create schema_migrations failed")
	}

	applied := 0
	apply := func(scope string, steps []string) {
		for i, ddl := range steps {
			name := fmt.Sprintf("%s_%03d", scope, i+1)
			err := repokit.WithTx(ctx, st.PG, func(q repokit.Queryer) error {
				var count int64
				if err := q.QueryRow(ctx,
					`select count(1) from schema_migrations where name = $1`, name).Scan(&count); err != nil {
					return err
				}
				if count > 0 {
					return nil
				}
				if _, err := q.Exec(ctx, ddl); err != nil {
					return err
				}
				if _, err := q.Exec(ctx,
					`insert into schema_migrations (name) values ($1)`, name); err != nil {
					return err
				}
				applied++
				l.Info().Str("step", name).Msg("applied")
				return nil
			})
			if err != nil {
				l.Fatal().Err(err).Str("step", name).Msg("migration step failed")
			}
		}
	}

	apply("base", repo.BaseSchema())
	apply(string(desc.Strategy), desc.Schema)

	l.Info().
		Int("applied", applied).
		Str("strategy", string(desc.Strategy)).
		Msg("migrations up to date")
}
