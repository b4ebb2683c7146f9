package repository

import (
	"errors"
	"strconv"
	"time"

	"retailpos-backend/internal/db"
)

var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}

// timestampID generates the record identifier scheme used across
// collections: the creation instant in unix milliseconds as a string.
// Collisions between concurrent creates surface as key conflicts.
func timestampID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}
