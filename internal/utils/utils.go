package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPGNotNullViolation reports whether error is a PostgreSQL NOT NULL
// constraint violation (code 23502). Raised when a required field such as
// title or description is missing from a request.
func IsPGNotNullViolation(err error) bool {
	return pgErrorCode(err) == "23502"
}

// IsPGCheckViolation reports whether error is a PostgreSQL CHECK constraint
// violation (code 23514), e.g. a priority or category outside the allowed set.
func IsPGCheckViolation(err error) bool {
	return pgErrorCode(err) == "23514"
}

func pgErrorCode(err error) string {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code
	}
	return ""
}
