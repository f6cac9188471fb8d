package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateRows reports a uniqueness-invariant violation: a lookup that the
// model guarantees returns at most one row found more than one. Callers must
// treat it as a fatal integrity error, never pick a row.
var ErrDuplicateRows = errors.New("more than one row found where at most one may exist")

// forUpdate adds a pessimistic row lock to the query. The sqlite dialect used
// by the tests has no row locks (writers serialize on the database lock), so
// the clause is skipped there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// findAtMostOne scans into dest (a pointer to a slice) and enforces the
// single-row contract: 0 rows → (false, nil), 1 row → (true, nil), more →
// ErrDuplicateRows.
func findAtMostOne(n int64) (bool, error) {
	switch {
	case n == 0:
		return false, nil
	case n == 1:
		return true, nil
	default:
		return false, ErrDuplicateRows
	}
}
