// Package repo provides postgres access for seenby, one implementation per
// tracking strategy. All strategies share the Storage contract and bind to a
// Queryer via repokit so the service can run them inside a transaction
package repo

import (
	"context"
	"strconv"

	perr "seenby/internal/platform/errors"
)

// Storage is the persistence surface every strategy implements.
//
// Record must be a single atomic statement per written row, never a
// read-then-write round trip. A missing post is NotFound; an existing post
// with no views reads as zero and an empty user map
type Storage interface {
	Record(ctx context.Context, postID, userID string) (int64, error)
	Count(ctx context.Context, postID string) (int64, error)
	Users(ctx context.Context, postID string) (map[string]int64, error)
}

// sumNumericStrings totals values stored as text, e.g. hstore avals output
func sumNumericStrings(vals []string) (int64, error) {
	var total int64
	for _, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, perr.Wrapf(err, perr.ErrorCodeDB, "non numeric stored count %q", v)
		}
		total += n
	}
	return total, nil
}
