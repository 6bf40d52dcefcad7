package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE for exclusion constraint violations. The appointments
// table carries an EXCLUDE USING gist constraint on overlapping scheduled
// intervals per counsellor, so a racing insert that slips past the
// application-level check still fails here.
const pgExclusionViolation = "23P01"

func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}
