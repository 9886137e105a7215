package usecase

import "errors"

// Domain errors. Services wrap them with context and the HTTP layer maps
// them to status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSeatTaken          = errors.New("seat already taken")
	ErrPastScreening      = errors.New("cannot modify past screening")
	ErrLastTicket         = errors.New("cannot remove the last ticket of an order")
	ErrSeatCountMismatch  = errors.New("seat count does not match ticket count")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
