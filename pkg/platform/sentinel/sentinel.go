package sentinel

import "errors"

// Storage facts shared by the card and profile stores. Services map them to
// domain error codes; handlers never see them directly.
var (
	// ErrNotFound means no row exists for the key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed means a one-shot transition was already taken, such as
	// binding a card that already has an owner.
	ErrAlreadyUsed = errors.New("already used")
)
