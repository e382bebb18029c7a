package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const pqCodeUniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isUniqueViolation reports whether err is a unique constraint failure,
// which the repositories translate into their domain duplicate errors.
func isUniqueViolation(err error) bool {
	return pqCode(err) == pqCodeUniqueViolation
}
