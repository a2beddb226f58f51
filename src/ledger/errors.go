package ledger

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("escrow not found")
	ErrForbidden         = errors.New("caller is not a party to this escrow")
	ErrInvalidTransition = errors.New("event is not legal for the current status")
	ErrAlreadyConfirmed  = errors.New("party has already confirmed")
	ErrAlreadyDisputed   = errors.New("arbiter has already been requested")
)
