package models

import (
	"time"

	"github.com/google/uuid"

	id "flexcard/pkg/domain"
)

// Profile is owned by the account system; this service only reads it.
type Profile struct {
	Username    id.Username `json:"username"`
	UserID      id.UserID   `json:"-"`
	DisplayName string      `json:"display_name"`
	Title       string      `json:"title,omitempty"`
	Company     string      `json:"company,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	CoverURL    string      `json:"cover_url,omitempty"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Website     string      `json:"website,omitempty"`
	Location    string      `json:"location,omitempty"`
	CreatedAt   time.Time   `json:"-"`
}

// LinkID identifies a profile link.
type LinkID uuid.UUID

func ParseLinkID(s string) (LinkID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return LinkID{}, err
	}
	return LinkID(u), nil
}

func (l LinkID) String() string {
	return uuid.UUID(l).String()
}

func (l LinkID) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Link is a profile's outbound link. Clicks only ever grows.
type Link struct {
	ID       LinkID      `json:"link_id"`
	Username id.Username `json:"-"`
	Platform id.Platform `json:"platform"`
	URL      string      `json:"url"`
	Title    string      `json:"title"`
	Position int         `json:"position"`
	IsActive bool        `json:"is_active"`
	Clicks   int64       `json:"clicks"`
}
