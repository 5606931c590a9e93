package domain

import (
	"github.com/google/uuid"

	dErrors "flexcard/pkg/domain-errors"
)

// UserID identifies an account. Accounts are owned by the external auth system;
// this service only ever receives them from validated tokens.
type UserID uuid.UUID

// ParseUserID parses a non-nil UUID from external input.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid user id")
	}
	if parsed == uuid.Nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id cannot be nil")
	}
	return UserID(parsed), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}
