package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gotodos/backend/domain"
)

const uniqueViolation = "23505"

// uuidOrNil turns an optional id into a query parameter. The empty string
// becomes SQL NULL, since the uuid codec cannot encode "".
func uuidOrNil(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

// mapUniqueViolation translates a Postgres unique-constraint violation into
// the matching domain error. The database constraint is the authoritative
// enforcement point for email and title uniqueness; handler-level pre-checks
// are advisory only.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return domain.ErrEmailTaken
	case "todos_title_key":
		return domain.ErrTitleTaken
	default:
		return domain.WrapError(domain.ErrCodeConflict, "duplicate record", err)
	}
}
