package repo

import (
	"context"

	"seenby/internal/core/sketch"
	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/store"

	"seenby/internal/modkit/repokit"
)

type (
	// HLLPG binds the hll strategy to a Queryer
	HLLPG struct{}

	hllQueries struct {
		q     repokit.Queryer
		assoc Storage
	}
)

// NewHLLPG returns a binder for the hll strategy
func NewHLLPG() repokit.Binder[Storage] { return HLLPG{} }

// Bind wires a Queryer to the strategy. The assoc table rides along as the
// exact per-user mirror; the sketch answers Count
func (HLLPG) Bind(q repokit.Queryer) Storage {
	return &hllQueries{q: q, assoc: AssocPG{}.Bind(q)}
}

func (r *hllQueries) Record(ctx context.Context, postID, userID string) (int64, error) {
	// keep exact attribution in the assoc table first; its FK also rejects
	// views of missing posts before the sketch is touched
	if _, err := r.q.Exec(ctx, upsertSeenSQL, postID, userID); err != nil {
		if perr.IsForeignKeyViolation(err) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "record seen by %q", postID)
	}

	// merge the user's register in place. set_byte with GREATEST only ever
	// raises a register, so recording the same user again is a no-op and the
	// whole update stays one atomic statement
	idx, rank := sketch.Position(userID)
	const sql = `
update posts
set seen_by_sketch = set_byte(
  coalesce(seen_by_sketch, $2::bytea),
  $3,
  greatest(get_byte(coalesce(seen_by_sketch, $2::bytea), $3), $4)
)
where id = $1
returning seen_by_sketch
`
	regs, err := store.One(ctx, r.q, scanBytes, sql, postID, sketch.Zero(), idx, int16(rank))
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "merge sketch %q", postID)
	}
	return sketch.Estimate(regs), nil
}

func (r *hllQueries) Count(ctx context.Context, postID string) (int64, error) {
	const sql = `select seen_by_sketch from posts where id = $1`
	regs, err := store.One(ctx, r.q, scanBytes, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "count seen by %q", postID)
	}
	// NULL sketch scans as nil: a post nobody saw estimates zero
	return sketch.Estimate(regs), nil
}

func (r *hllQueries) Users(ctx context.Context, postID string) (map[string]int64, error) {
	return r.assoc.Users(ctx, postID)
}

func scanBytes(row store.Row) ([]byte, error) {
	var b []byte
	err := row.Scan(&b)
	return b, err
}
