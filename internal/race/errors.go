package race

import "errors"

var (
	// ErrInvalidDraw is returned when a draw names a die that is not in
	// the remaining pool or a face outside the configured range.
	ErrInvalidDraw = errors.New("invalid draw")

	// ErrInvariantViolation is returned when a constructed state fails a
	// structural invariant. It is raised at construction boundaries so
	// corrupt states never reach the engines.
	ErrInvariantViolation = errors.New("state invariant violation")

	// ErrStateSpaceTooLarge is returned when exact enumeration is asked
	// for a pool bigger than the safe bound. Callers should fall back to
	// simulation.
	ErrStateSpaceTooLarge = errors.New("state space too large for exact enumeration")
)
