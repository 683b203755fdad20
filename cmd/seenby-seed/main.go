// seenby-seed fills the database with synthetic users and posts so the
// strategies have something to chew on. Authorship is skewed: a small core of
// users writes most of the posts
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"seenby/internal/modkit/repokit"
	"seenby/internal/platform/config"
	"seenby/internal/platform/logger"
	"seenby/internal/platform/store"
)

const batchSize = 500

var words = []string{
	"lantern", "orbit", "quarry", "velvet", "thicket", "ember", "drift",
	"harbor", "pylon", "cinder", "meadow", "static", "quartz", "fathom",
}

func main() {
	config.LoadDotEnv()

	var (
		nUsers = flag.Int("users", 1000, "number of users to create")
		nPosts = flag.Int("posts", 5000, "number of posts to create")
		seed   = flag.Int64("seed", 42, "rng seed")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SEENBY_").Prefix("PG_")

	l := logger.Named("seed")

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled: true,
			URL:     pgCfg.MustString("DBURL"),
		},
	}, store.WithLogger(*logger.Get()))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() { _ = st.Close(ctx) }()

	rng := rand.New(rand.NewSource(*seed))

	userIDs := make([]string, *nUsers)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
	}

	err = repokit.WithTx(ctx, st.PG, func(q repokit.Queryer) error {
		if err := insertBatched(ctx, q, "users", []string{"id", "name"}, *nUsers, func(i int) []any {
			return []any{userIDs[i], fmt.Sprintf("user-%04d", i)}
		}); err != nil {
			return err
		}

		// 80% of posts go to the first 20% of users
		core := *nUsers / 5
		if core == 0 {
			core = 1
		}
		return insertBatched(ctx, q, "posts", []string{"id", "author_id", "body"}, *nPosts, func(int) []any {
			var author string
			if rng.Float64() < 0.8 {
				author = userIDs[rng.Intn(core)]
			} else {
				author = userIDs[core+rng.Intn(len(userIDs)-core)]
			}
			return []any{uuid.NewString(), author, randomBody(rng)}
		})
	})
	if err != nil {
		l.Fatal().Err(err).Msg("seeding failed")
	}

	l.Info().Int("users", *nUsers).Int("posts", *nPosts).Msg("seed complete")
}

// insertBatched issues multi-row inserts of up to batchSize rows at a time
func insertBatched(
	ctx context.Context,
	q repokit.Queryer,
	table string,
	cols []string,
	total int,
	row func(i int) []any,
) error {
	for off := 0; off < total; off += batchSize {
		n := total - off
		if n > batchSize {
			n = batchSize
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "insert into %s (%s) values ", table, strings.Join(cols, ", "))
		args := make([]any, 0, n*len(cols))
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('(')
			for c := 0; c < len(cols); c++ {
				if c > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "$%d", len(args)+c+1)
			}
			sb.WriteByte(')')
			args = append(args, row(off+i)...)
		}

		if _, err := q.Exec(ctx, sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func randomBody(rng *rand.Rand) string {
	n := 4 + rng.Intn(8)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.Intn(len(words))]
	}
	return strings.Join(parts, " ")
}
