package domain

import (
	"strings"

	dErrors "flexcard/pkg/domain-errors"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 30
)

// Username addresses a public profile (/u/{username}). Usernames are matched
// case-insensitively and stored lower-case.
type Username string

// ParseUsername lower-cases and validates a username from external input.
func ParseUsername(s string) (Username, error) {
	u := CanonicalUsername(s)
	if u == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "username cannot be empty")
	}
	if len(u) < minUsernameLength || len(u) > maxUsernameLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "username must be between 3 and 30 characters")
	}
	for _, r := range u {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '_' && r != '-' && r != '.' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "username contains invalid characters")
		}
	}
	return u, nil
}

// CanonicalUsername lower-cases and trims without validating.
func CanonicalUsername(s string) Username {
	return Username(strings.ToLower(strings.TrimSpace(s)))
}

func (u Username) String() string {
	return string(u)
}

func (u Username) IsEmpty() bool {
	return u == ""
}
