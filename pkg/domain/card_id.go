package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "flexcard/pkg/domain-errors"
)

const (
	maxCardIDLength = 64

	// generatedCardIDPrefix marks ids minted by the provisioning endpoint.
	generatedCardIDPrefix = "FC"
)

// CardID is the printed/NFC identifier of a physical card.
// Invariant: always canonical (trimmed, upper-case, [A-Z0-9_-], 1..64 chars).
//
// Construct via ParseCardID at trust boundaries; CanonicalCardID is the lenient
// form used for lookups where a malformed id simply means "unknown card".
type CardID string

// ParseCardID canonicalises and validates an identifier from external input.
func ParseCardID(s string) (CardID, error) {
	c := CanonicalCardID(s)
	if c == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "card id cannot be empty")
	}
	if len(c) > maxCardIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "card id is too long")
	}
	for _, r := range c {
		if !isCardIDRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "card id contains invalid characters")
		}
	}
	return c, nil
}

// CanonicalCardID upper-cases and trims without validating.
func CanonicalCardID(s string) CardID {
	return CardID(strings.ToUpper(strings.TrimSpace(s)))
}

// GenerateCardID mints a new identifier of the form FC1A2B3C4D.
func GenerateCardID() CardID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return CardID(generatedCardIDPrefix + strings.ToUpper(raw[:8]))
}

// Valid reports whether the id satisfies the canonical form.
func (c CardID) Valid() bool {
	parsed, err := ParseCardID(string(c))
	return err == nil && parsed == c
}

func (c CardID) String() string {
	return string(c)
}

func isCardIDRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
