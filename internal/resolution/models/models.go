package models

import (
	cardmodels "flexcard/internal/card/models"
	profilemodels "flexcard/internal/profile/models"
	id "flexcard/pkg/domain"
)

// PublicProfile is the profile as shown to visitors. It never carries the
// owner's account id.
type PublicProfile struct {
	Username    id.Username `json:"username"`
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
}

// PublicLink is an active link with its display metadata.
type PublicLink struct {
	LinkID       string      `json:"link_id"`
	Platform     id.Platform `json:"platform"`
	PlatformName string      `json:"platform_name"`
	Color        string      `json:"color"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	Position     int         `json:"position"`
}

// Resolution is the result of resolving a card or username. Profile and
// Links are set only when Status is activated.
type Resolution struct {
	Status  cardmodels.CardState `json:"status"`
	CardID  id.CardID            `json:"card_id,omitempty"`
	Profile *PublicProfile       `json:"profile,omitempty"`
	Links   []PublicLink         `json:"links,omitempty"`
}

// NewPublicProfile copies the visitor-facing fields.
func NewPublicProfile(p *profilemodels.Profile) *PublicProfile {
	return &PublicProfile{
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Title:       p.Title,
		Company:     p.Company,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		CoverURL:    p.CoverURL,
		Email:       p.Email,
		Phone:       p.Phone,
		Website:     p.Website,
		Location:    p.Location,
	}
}

// NewPublicLink attaches platform metadata to a link.
func NewPublicLink(l *profilemodels.Link) PublicLink {
	meta := l.Platform.Metadata()
	return PublicLink{
		LinkID:       l.ID.String(),
		Platform:     l.Platform,
		PlatformName: meta.Name,
		Color:        meta.Color,
		URL:          l.URL,
		Title:        l.Title,
		Position:     l.Position,
	}
}
