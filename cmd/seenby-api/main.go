// @title         seenby API
// @version       1.0.0
// @description   Records and reports who has seen a post

package main

import (
	"context"

	"seenby/internal/platform/config"
	"seenby/internal/platform/logger"
	phttp "seenby/internal/platform/net/http"
	"seenby/internal/platform/store"

	"seenby/internal/services/api"
)

func main() {
	config.LoadDotEnv()

	root := config.New()
	svcCfg := root.Prefix("SEENBY_") // strategy + module scope
	apiCfg := svcCfg.Prefix("API_")  // SEENBY_API_*
	pgCfg := svcCfg.Prefix("PG_")    // SEENBY_PG_*

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := st.Guard(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("store guard failed")
	}

	// http server (reads SEENBY_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API; a bad SEENBY_STRATEGY fails here, before listening
	if err := api.Mount(
		srv.Router(),
		api.Options{
			Config:        svcCfg,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	); err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	if err := srv.Run(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
