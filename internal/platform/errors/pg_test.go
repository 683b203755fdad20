package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "boom"} }

func TestSQLStateHelpers(t *testing.T) {
	if !IsDuplicateKey(pgErr("23505")) {
		t.Fatalf("23505 should be a duplicate key")
	}
	if !IsForeignKeyViolation(pgErr("23503")) {
		t.Fatalf("23503 should be a foreign key violation")
	}
	if IsForeignKeyViolation(stderrs.New("plain")) {
		t.Fatalf("plain error is not a foreign key violation")
	}
	// helpers see through wrapping
	if !IsForeignKeyViolation(fmt.Errorf("ctx: %w", pgErr("23503"))) {
		t.Fatalf("wrapped fk violation not detected")
	}
}

func TestDBErrorCodeMapping(t *testing.T) {
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		// a foreign key failure means the referenced row does not exist
		{"23503", ErrorCodeNotFound},
		{"23502", ErrorCodeValidation},
		{"40001", ErrorCodeDB},
		{"40P01", ErrorCodeDB},
		{"57P03", ErrorCodeUnavailable},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.sqlstate))
		if !ok {
			t.Fatalf("sqlstate %s not recognized", c.sqlstate)
		}
		if got != c.want {
			t.Fatalf("sqlstate %s mapped to %d, want %d", c.sqlstate, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("plain error should not map to a db code")
	}
}

func TestFromPostgres(t *testing.T) {
	err := FromPostgres(pgErr("23503"), "record view")
	if !IsCode(err, ErrorCodeNotFound) {
		t.Fatalf("fk violation should surface as not found, got code %d", CodeOf(err))
	}

	err = FromPostgres(stderrs.New("connection reset"), "record view")
	if !IsCode(err, ErrorCodeDB) {
		t.Fatalf("unclassified db failure should be a db error, got code %d", CodeOf(err))
	}

	if FromPostgres(nil, "noop") != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestConfigErrorsAreServerSide(t *testing.T) {
	err := Configf("unknown tracking strategy %q", "nope")
	if !IsCode(err, ErrorCodeConfig) {
		t.Fatalf("code = %d, want config", CodeOf(err))
	}
	if got := HTTPStatus(err); got != 500 {
		t.Fatalf("config errors map to %d, want 500", got)
	}
}
