package store

import "errors"

var (
	// ErrNotFound is returned when a referenced machine or booking does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned when the database itself rejects an overlapping
	// booking through the exclusion constraint.
	ErrOverlap = errors.New("booking overlaps an existing booking")
)

// overlapSQLState is PostgreSQL's exclusion_violation.
const overlapSQLState = "23P01"
