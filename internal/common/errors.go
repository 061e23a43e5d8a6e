package common

import (
	"errors"

	"github.com/lib/pq"
)

var ErrRecordNotFound = errors.New("record not found")

// ForeignKeyViolation reports whether err is a Postgres foreign key violation
// against the named constraint.
func ForeignKeyViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == name
	}

	return false
}

// UniqueViolation reports whether err is a Postgres unique constraint
// violation against the named constraint.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}

	return false
}
