package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gotodos/backend/domain"
)

func TestUUIDOrNil(t *testing.T) {
	if got := uuidOrNil(""); got != nil {
		t.Fatalf("empty id must become NULL, got %v", got)
	}

	const id = "6f1a2c4e-9b3d-4f5a-8c7e-0d1b2a3c4d5e"
	got, ok := uuidOrNil(id).(string)
	if !ok || got != id {
		t.Fatalf("non-empty id must pass through, got %v", got)
	}
}

func TestMapUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email", "users_email_key", domain.ErrEmailTaken},
		{"title", "todos_title_key", domain.ErrTitleTaken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mapUniqueViolation(&pgconn.PgError{Code: uniqueViolation, ConstraintName: tc.constraint})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMapUniqueViolation_UnknownConstraint(t *testing.T) {
	err := mapUniqueViolation(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "other"})
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("unknown unique constraint must map to a conflict, got %v", err)
	}
}

func TestMapUniqueViolation_PassthroughOtherErrors(t *testing.T) {
	other := errors.New("connection reset")
	if got := mapUniqueViolation(other); got != other {
		t.Fatalf("non-unique-violation errors must pass through, got %v", got)
	}
}
