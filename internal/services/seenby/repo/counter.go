package repo

import (
	"context"

	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/store"

	"seenby/internal/modkit/repokit"
)

type (
	// CounterPG binds the simple-counter strategy to a Queryer
	CounterPG struct{}

	counterQueries struct{ q repokit.Queryer }
)

// NewCounterPG returns a binder for the simple-counter strategy
func NewCounterPG() repokit.Binder[Storage] { return CounterPG{} }

// Bind wires a Queryer to the strategy
func (CounterPG) Bind(q repokit.Queryer) Storage { return &counterQueries{q: q} }

func (r *counterQueries) Record(ctx context.Context, postID, userID string) (int64, error) {
	// single atomic read-modify-write; zero rows means the post does not exist
	const sql = `
update posts
set seen_count = coalesce(seen_count, 0) + 1
where id = $1
returning seen_count
`
	count, err := store.One(ctx, r.q, scanCount, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "record seen by %q", postID)
	}
	return count, nil
}

func (r *counterQueries) Count(ctx context.Context, postID string) (int64, error) {
	const sql = `select coalesce(seen_count, 0) from posts where id = $1`
	count, err := store.One(ctx, r.q, scanCount, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "count seen by %q", postID)
	}
	return count, nil
}

// Users always reports empty; this strategy never learns who looked
func (r *counterQueries) Users(ctx context.Context, postID string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func scanCount(row store.Row) (int64, error) {
	var n int64
	err := row.Scan(&n)
	return n, err
}
