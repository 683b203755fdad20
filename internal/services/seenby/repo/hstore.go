package repo

import (
	"context"
	"encoding/json"
	"strconv"

	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/store"

	"seenby/internal/modkit/repokit"
)

type (
	// HstorePG binds the simple-hstore strategy to a Queryer
	HstorePG struct{}

	hstoreQueries struct{ q repokit.Queryer }
)

// NewHstorePG returns a binder for the simple-hstore strategy
func NewHstorePG() repokit.Binder[Storage] { return HstorePG{} }

// Bind wires a Queryer to the strategy
func (HstorePG) Bind(q repokit.Queryer) Storage { return &hstoreQueries{q: q} }

func (r *hstoreQueries) Record(ctx context.Context, postID, userID string) (int64, error) {
	// hstore subscript upsert (PG 14+); values are text so the increment
	// round-trips through a bigint cast. One statement, no read first
	const sql = `
update posts
set seen_by_users[$2] = (coalesce(seen_by_users[$2]::bigint, 0) + 1)::text
where id = $1
returning avals(seen_by_users)
`
	vals, err := store.One(ctx, r.q, scanTextArray, sql, postID, userID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "record seen by %q", postID)
	}
	return sumNumericStrings(vals)
}

func (r *hstoreQueries) Count(ctx context.Context, postID string) (int64, error) {
	const sql = `select coalesce(avals(seen_by_users), '{}') from posts where id = $1`
	vals, err := store.One(ctx, r.q, scanTextArray, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, perr.NotFoundf("post %q not found", postID)
		}
		return 0, perr.FromPostgresf(err, "count seen by %q", postID)
	}
	return sumNumericStrings(vals)
}

func (r *hstoreQueries) Users(ctx context.Context, postID string) (map[string]int64, error) {
	// read through hstore_to_json so no hstore codec registration is needed
	const sql = `select coalesce(hstore_to_json(seen_by_users)::text, '{}') from posts where id = $1`
	raw, err := store.One(ctx, r.q, scanText, sql, postID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, perr.NotFoundf("post %q not found", postID)
		}
		return nil, perr.FromPostgresf(err, "seen by users %q", postID)
	}

	var asText map[string]string
	if err := json.Unmarshal([]byte(raw), &asText); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "decode seen by users %q", postID)
	}
	out := make(map[string]int64, len(asText))
	for user, v := range asText {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "non numeric stored count %q", v)
		}
		out[user] = n
	}
	return out, nil
}

func scanTextArray(row store.Row) ([]string, error) {
	var vals []string
	err := row.Scan(&vals)
	return vals, err
}

func scanText(row store.Row) (string, error) {
	var s string
	err := row.Scan(&s)
	return s, err
}
