package models

import (
	"time"

	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
)

// CardState is the lifecycle state of a physical card.
type CardState string

const (
	CardStateUnactivated CardState = "unactivated"
	CardStateActivated   CardState = "activated"
)

func (s CardState) IsValid() bool {
	return s == CardStateUnactivated || s == CardStateActivated
}

// Card is a physical card identifier and its (at most one) profile binding.
//
// Invariants:
//   - ID is canonical upper-case
//   - BoundUsername and ActivatedAt are set iff State is activated
//   - activated -> unactivated never happens; the binding is immutable
type Card struct {
	ID            id.CardID   `json:"card_id"`
	State         CardState   `json:"state"`
	BoundUsername id.Username `json:"bound_username,omitempty"`
	BoundUserID   id.UserID   `json:"bound_user_id,omitzero"`
	ActivatedAt   *time.Time  `json:"activated_at,omitempty"`
	BatchName     string      `json:"batch_name,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewCard builds an unactivated card.
func NewCard(cardID id.CardID, batchName string, now time.Time) (*Card, error) {
	if !cardID.Valid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "card id must be canonical")
	}
	return &Card{
		ID:        cardID,
		State:     CardStateUnactivated,
		BatchName: batchName,
		CreatedAt: now,
	}, nil
}

func (c *Card) IsActivated() bool {
	return c.State == CardStateActivated
}

// CanActivate reports whether the card may move to activated.
func (c *Card) CanActivate() error {
	if c.IsActivated() {
		return dErrors.New(dErrors.CodeAlreadyActivated, "card is already activated")
	}
	return nil
}

// ApplyActivation binds the card. Stores call this under their own
// serialisation; callers check CanActivate first.
func (c *Card) ApplyActivation(username id.Username, userID id.UserID, at time.Time) {
	c.State = CardStateActivated
	c.BoundUsername = username
	c.BoundUserID = userID
	c.ActivatedAt = &at
}

// ActivationResult is returned to the activating user.
type ActivationResult struct {
	CardID      id.CardID   `json:"card_id"`
	Username    id.Username `json:"username"`
	ActivatedAt time.Time   `json:"activated_at"`
	PublicURL   string      `json:"public_url,omitempty"`
}

// CardStatus is the minimal status view returned on scan.
type CardStatus struct {
	Status     CardState   `json:"status"`
	CardID     id.CardID   `json:"card_id"`
	Username   id.Username `json:"username,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
}

// ProvisionRequest asks for either explicit ids or Count generated ones.
type ProvisionRequest struct {
	CardIDs   []string
	Count     int
	BatchName string
}

// ProvisionResult lists what was created and what already existed.
type ProvisionResult struct {
	Created  []id.CardID `json:"created"`
	Existing []id.CardID `json:"existing"`
}

const MaxProvisionBatch = 100
