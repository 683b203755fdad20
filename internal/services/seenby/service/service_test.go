package service

import (
	"context"
	"errors"
	"testing"

	"seenby/internal/modkit/repokit"
	perr "seenby/internal/platform/errors"
	"seenby/internal/platform/testkit"
	"seenby/internal/services/seenby/repo"
)

// fakeDB counts how often storage is touched; every statement fails so any
// test reaching it on purpose must expect an error
type fakeDB struct {
	statements int
	txs        int
}

var errNoDB = errors.New("test double has no database")

func (f *fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	f.statements++
	return nil, errNoDB
}

func (f *fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	f.statements++
	return nil, errNoDB
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) repokit.Row {
	f.statements++
	return errRow{}
}

func (f *fakeDB) Tx(ctx context.Context, fn func(q repokit.Queryer) error) error {
	f.txs++
	return fn(f)
}

type errRow struct{}

func (errRow) Scan(...any) error { return errNoDB }

func TestNewResolvesStrategyUpFront(t *testing.T) {
	svc, err := New(&fakeDB{}, "hll")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Strategy() != repo.StrategyHLL {
		t.Fatalf("strategy = %q", svc.Strategy())
	}
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New(&fakeDB{}, "carrier-pigeon")
	testkit.MustCode(t, err, perr.ErrorCodeConfig)
}

func TestNewRejectsMissingStrategy(t *testing.T) {
	_, err := New(&fakeDB{}, "")
	testkit.MustCode(t, err, perr.ErrorCodeConfig)
}

func TestNewNilDBPanics(t *testing.T) {
	testkit.MustPanic(t, func() { _, _ = New(nil, "simple-counter") })
}

func TestMustNewPanicsOnBadStrategy(t *testing.T) {
	testkit.MustPanic(t, func() { MustNew(&fakeDB{}, "carrier-pigeon") })
}

func TestRecordValidatesBeforeStorage(t *testing.T) {
	db := &fakeDB{}
	svc, err := New(db, "simple-counter")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = svc.Record(context.Background(), "", "7")
	testkit.MustCode(t, err, perr.ErrorCodeValidation)

	_, err = svc.Record(context.Background(), "42", "")
	testkit.MustCode(t, err, perr.ErrorCodeValidation)

	if db.statements != 0 || db.txs != 0 {
		t.Fatalf("invalid input still reached storage: %d statements, %d txs", db.statements, db.txs)
	}
}

func TestRecordRunsInsideTransaction(t *testing.T) {
	db := &fakeDB{}
	svc, err := New(db, "simple-counter")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, _ = svc.Record(context.Background(), "42", "7")
	if db.txs != 1 {
		t.Fatalf("record ran %d transactions, want 1", db.txs)
	}
}

func TestCountValidatesBeforeStorage(t *testing.T) {
	db := &fakeDB{}
	svc, err := New(db, "simple-counter")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = svc.Count(context.Background(), "")
	testkit.MustCode(t, err, perr.ErrorCodeValidation)
	if db.statements != 0 {
		t.Fatalf("invalid input still reached storage")
	}
}

func TestStatusValidatesBeforeStorage(t *testing.T) {
	db := &fakeDB{}
	svc, err := New(db, "assoc-table")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = svc.Status(context.Background(), "")
	testkit.MustCode(t, err, perr.ErrorCodeValidation)
	if db.statements != 0 {
		t.Fatalf("invalid input still reached storage")
	}
}

func TestUsersEmptyWhenStrategyDoesNotTrack(t *testing.T) {
	db := &fakeDB{}
	svc, err := New(db, "simple-counter")
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	users, err := svc.Users(context.Background(), "42")
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("want empty map, got %v", users)
	}
	if db.statements != 0 {
		t.Fatalf("counter Users should not hit storage")
	}
}
