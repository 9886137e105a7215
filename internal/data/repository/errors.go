package repository

import (
	"errors"

	"cinema-pegasus/pkg/database"
)

// ErrDuplicateEmail is returned when a user with the same email exists
var ErrDuplicateEmail = errors.New("email already registered")

// ErrSeatConflict is returned when a ticket write hits the
// (screening, seat) unique constraint
var ErrSeatConflict = errors.New("seat already taken")

const seatConstraint = "uq_biglietto_proiezione_posto"

// IsSeatConflict reports a (screening, seat) clash. The constraint is
// deferred, so the raw violation usually surfaces from COMMIT rather than
// from the statement that caused it.
func IsSeatConflict(err error) bool {
	return errors.Is(err, ErrSeatConflict) || database.IsUniqueViolation(err, seatConstraint)
}
