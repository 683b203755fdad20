package repo

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"seenby/internal/core/sketch"
	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/testkit"
)

func fkViolation() error { return &pgconn.PgError{Code: "23503", Message: "fk violation"} }

func TestCounterRecord(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{int64(3)}}})
	st := NewCounterPG().Bind(q)

	got, err := st.Record(context.Background(), "42", "7")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if len(q.sqls) != 1 {
		t.Fatalf("expected a single statement, got %d", len(q.sqls))
	}
	testkit.MustContain(t, q.sqls[0], "returning seen_count")
	if len(q.args[0]) != 1 || q.args[0][0] != "42" {
		t.Fatalf("unexpected args: %v", q.args[0])
	}
}

func TestCounterRecordMissingPost(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{})
	st := NewCounterPG().Bind(q)

	_, err := st.Record(context.Background(), "404", "7")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestCounterCountMissingPost(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{})
	st := NewCounterPG().Bind(q)

	_, err := st.Count(context.Background(), "404")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestCounterUsersIsAlwaysEmpty(t *testing.T) {
	q := newFakeQueryer(t)
	st := NewCounterPG().Bind(q)

	users, err := st.Users(context.Background(), "42")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("counter strategy reported users: %v", users)
	}
	if len(q.sqls) != 0 {
		t.Fatalf("counter Users should not hit storage, issued %v", q.sqls)
	}
}

func TestHstoreRecordSumsPerUserValues(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{[]string{"2", "1"}}}})
	st := NewHstorePG().Bind(q)

	got, err := st.Record(context.Background(), "42", "7")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if len(q.sqls) != 1 {
		t.Fatalf("expected a single statement, got %d", len(q.sqls))
	}
	testkit.MustContain(t, q.sqls[0], "seen_by_users[$2]")
	testkit.MustContain(t, q.sqls[0], "returning avals(seen_by_users)")
}

func TestHstoreRecordMissingPost(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{})
	st := NewHstorePG().Bind(q)

	_, err := st.Record(context.Background(), "404", "7")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestHstoreCountViewless(t *testing.T) {
	// coalesce gives an empty array when the hstore column is still NULL
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{[]string{}}}})
	st := NewHstorePG().Bind(q)

	got, err := st.Count(context.Background(), "42")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestHstoreUsers(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{`{"7":"3","9":"1"}`}}})
	st := NewHstorePG().Bind(q)

	users, err := st.Users(context.Background(), "42")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 2 || users["7"] != 3 || users["9"] != 1 {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestHstoreUsersRejectsNonNumericValues(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{`{"7":"many"}`}}})
	st := NewHstorePG().Bind(q)

	_, err := st.Users(context.Background(), "42")
	testkit.MustCode(t, err, perr.ErrorCodeDB)
}

func TestAssocRecord(t *testing.T) {
	q := newFakeQueryer(t,
		fakeResult{},                          // upsert
		fakeResult{rows: [][]any{{int64(5)}}}, // sum read back
	)
	st := NewAssocPG().Bind(q)

	got, err := st.Record(context.Background(), "42", "7")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got != 5 {
		t.Fatalf("count = %d, want 5", got)
	}
	if len(q.sqls) != 2 {
		t.Fatalf("expected upsert + sum, got %d statements", len(q.sqls))
	}
	testkit.MustContain(t, q.sqls[0], "on conflict (post_id, user_id)")
	testkit.MustContain(t, q.sqls[1], "sum(seen_count)")
}

func TestAssocRecordMissingPostViaFK(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{err: fkViolation()})
	st := NewAssocPG().Bind(q)

	_, err := st.Record(context.Background(), "404", "7")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
	if len(q.sqls) != 1 {
		t.Fatalf("sum should not run after a failed upsert, issued %v", q.sqls)
	}
}

func TestAssocCount(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{int64(0)}}})
	st := NewAssocPG().Bind(q)

	got, err := st.Count(context.Background(), "42")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestAssocCountMissingPost(t *testing.T) {
	// the left join anchors on posts, so a missing post yields no rows
	q := newFakeQueryer(t, fakeResult{})
	st := NewAssocPG().Bind(q)

	_, err := st.Count(context.Background(), "404")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestAssocUsers(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{
		{"7", int64(3)},
		{"9", int64(1)},
	}})
	st := NewAssocPG().Bind(q)

	users, err := st.Users(context.Background(), "42")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 2 || users["7"] != 3 || users["9"] != 1 {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestHLLRecord(t *testing.T) {
	regs := sketch.Zero()
	sketch.Observe(regs, "7")

	q := newFakeQueryer(t,
		fakeResult{},                      // assoc upsert
		fakeResult{rows: [][]any{{regs}}}, // sketch merge returning registers
	)
	st := NewHLLPG().Bind(q)

	got, err := st.Record(context.Background(), "42", "7")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if got != 1 {
		t.Fatalf("distinct estimate = %d, want 1", got)
	}

	if len(q.sqls) != 2 {
		t.Fatalf("expected upsert + merge, got %d statements", len(q.sqls))
	}
	testkit.MustContain(t, q.sqls[1], "set_byte")
	testkit.MustContain(t, q.sqls[1], "greatest(get_byte")

	idx, rank := sketch.Position("7")
	args := q.args[1]
	if len(args) != 4 || args[0] != "42" || args[2] != idx || args[3] != int16(rank) {
		t.Fatalf("unexpected merge args: %v", args)
	}
}

func TestHLLRecordMissingPostViaFK(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{err: fkViolation()})
	st := NewHLLPG().Bind(q)

	_, err := st.Record(context.Background(), "404", "7")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestHLLCountNullSketchIsZero(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{rows: [][]any{{nil}}})
	st := NewHLLPG().Bind(q)

	got, err := st.Count(context.Background(), "42")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
}

func TestHLLCountMissingPost(t *testing.T) {
	q := newFakeQueryer(t, fakeResult{})
	st := NewHLLPG().Bind(q)

	_, err := st.Count(context.Background(), "404")
	testkit.MustCode(t, err, perr.ErrorCodeNotFound)
}

func TestSumNumericStrings(t *testing.T) {
	got, err := sumNumericStrings([]string{"2", "1", "4"})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if got != 7 {
		t.Fatalf("sum = %d, want 7", got)
	}

	_, err = sumNumericStrings([]string{"2", "banana"})
	testkit.MustCode(t, err, perr.ErrorCodeDB)
}
