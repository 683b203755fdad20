package repo

import (
	"context"

	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/store"

	"seenby/internal/modkit/repokit"
)

type (
	// AssocPG binds the assoc-table strategy to a Queryer
	AssocPG struct{}

	assocQueries struct{ q repokit.Queryer }
)

// NewAssocPG returns a binder for the assoc-table strategy
func NewAssocPG() repokit.Binder[Storage] { return AssocPG{} }

// Bind wires a Queryer to the strategy
func (AssocPG) Bind(q repokit.Queryer) Storage { return &assocQueries{q: q} }

// upsertSeenSQL bumps one (post, user) pair in a single statement. The FK to
// posts turns a view of a missing post into a constraint error, which the
// error mapping reports as NotFound
const upsertSeenSQL = `
insert into post_seen_by (post_id, user_id, seen_count)
values ($1, $2, 1)
on conflict (post_id, user_id)
do update set seen_count = post_seen_by.seen_count + 1
`

func (r *assocQueries) Record(ctx context.Context, postID, userID string) (int64, error) {
	if _, err := r.q.Exec(ctx, upsertSeenSQL, postID, userID); err != nil {
		if perr.IsForeignKeyViolation(err) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "record seen by %q", postID)
	}

	// the total is read back separately because a data-modifying CTE would
	// not see its own writes in the same statement; the service runs both
	// statements inside one transaction
	count, err := store.Scalar[int64](ctx, r.q,
		`select coalesce(sum(seen_count), 0)::bigint from post_seen_by where post_id = $1`, postID)
	if err != nil {
		return 0, perr.FromPostgresf(err, "sum seen by %q", postID)
	}
	return count, nil
}

func (r *assocQueries) Count(ctx context.Context, postID string) (int64, error) {
	// left join keeps the post row visible so a viewless post reads zero
	// while a missing post reads no rows at all
	const sql = `
select coalesce(sum(s.seen_count), 0)::bigint
from posts p
left join post_seen_by s on s.post_id = p.id
where p.id = $1
group by p.id
`
	count, err := store.One(ctx, r.q, scanCount, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "count seen by %q", postID)
	}
	return count, nil
}

func (r *assocQueries) Users(ctx context.Context, postID string) (map[string]int64, error) {
	const sql = `select user_id, seen_count from post_seen_by where post_id = $1`
	type pair struct {
		user  string
		count int64
	}
	rows, err := store.Many(ctx, r.q, func(row store.Row) (pair, error) {
		var p pair
		err := row.Scan(&p.user, &p.count)
		return p, err
	}, sql, postID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "seen by users %q", postID)
	}
	out := make(map[string]int64, len(rows))
	for _, p := range rows {
		out[p.user] = p.count
	}
	return out, nil
}
