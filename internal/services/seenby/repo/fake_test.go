package repo

import (
	"context"
	"fmt"
	"testing"

	"seenby/internal/modkit/repokit"
)

// fakeResult is one scripted answer for the next statement a repo issues.
// rows is the result set for Query/QueryRow; err short-circuits the call
type fakeResult struct {
	rows [][]any
	err  error
}

// fakeQueryer replays scripted results in order and records every statement
// so tests can assert both the answers and the SQL shape
type fakeQueryer struct {
	t     *testing.T
	queue []fakeResult
	sqls  []string
	args  [][]any
}

func newFakeQueryer(t *testing.T, results ...fakeResult) *fakeQueryer {
	t.Helper()
	return &fakeQueryer{t: t, queue: results}
}

func (f *fakeQueryer) pop(sql string, args []any) fakeResult {
	f.t.Helper()
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	if len(f.queue) == 0 {
		f.t.Fatalf("unscripted statement %d: %s", len(f.sqls), sql)
	}
	r := f.queue[0]
	f.queue = f.queue[1:]
	return r
}

func (f *fakeQueryer) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	r := f.pop(sql, args)
	if r.err != nil {
		return nil, r.err
	}
	return fakeTag("UPDATE 1"), nil
}

func (f *fakeQueryer) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	r := f.pop(sql, args)
	if r.err != nil {
		return nil, r.err
	}
	return &fakeRows{data: r.rows}, nil
}

func (f *fakeQueryer) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	r := f.pop(sql, args)
	return &fakeRow{res: r}
}

type fakeTag string

func (f fakeTag) String() string    { return string(f) }
func (fakeTag) RowsAffected() int64 { return 1 }

type fakeRows struct {
	data [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assignRow(dest, r.data[r.pos-1]) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}
func (r *fakeRows) Columns() []string      { return nil }

type fakeRow struct{ res fakeResult }

func (r *fakeRow) Scan(dest ...any) error {
	if r.res.err != nil {
		return r.res.err
	}
	if len(r.res.rows) == 0 {
		return fmt.Errorf("no rows in result set")
	}
	return assignRow(dest, r.res.rows[0])
}

func assignRow(dest []any, src []any) error {
	if len(dest) != len(src) {
		return fmt.Errorf("scan expects %d columns, scripted row has %d", len(dest), len(src))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *int64:
			*d = src[i].(int64)
		case *string:
			*d = src[i].(string)
		case *[]string:
			if src[i] == nil {
				*d = nil
			} else {
				*d = src[i].([]string)
			}
		case *[]byte:
			if src[i] == nil {
				*d = nil
			} else {
				*d = src[i].([]byte)
			}
		default:
			return fmt.Errorf("unsupported scan destination %T", d)
		}
	}
	return nil
}
