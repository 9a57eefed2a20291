package ledger

import "errors"

// Domain rejections. Every operation either completes fully or returns
// one of these with no balance or sum mutated.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidData   = errors.New("invalid from-to data")
	ErrStateConflict = errors.New("state conflict")
	ErrNameConflict  = errors.New("name already in use")
)
