package models

import (
	"time"

	id "flexcard/pkg/domain"
	"flexcard/pkg/platform/device"
)

// DayLayout is the per-day bucket key format. Days are UTC.
const DayLayout = "2006-01-02"

// DayKey returns the UTC day bucket for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Visit describes the request a profile view came from.
type Visit struct {
	CardID    id.CardID
	UserAgent string
	Referer   string
	ClientIP  string
}

type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
)

// Event is one recorded interaction, also published to the event stream.
type Event struct {
	Type       EventType    `json:"type"`
	Username   id.Username  `json:"username"`
	CardID     id.CardID    `json:"card_id,omitempty"`
	LinkID     string       `json:"link_id,omitempty"`
	Device     device.Class `json:"device,omitempty"`
	DeviceName string       `json:"device_name,omitempty"`
	Referer    string       `json:"referer,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Day returns the event's UTC bucket.
func (e Event) Day() string {
	return DayKey(e.OccurredAt)
}

// DailyCount is one day of a time series.
type DailyCount struct {
	Date   string `json:"date"`
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
}

// LinkClicks reports a single link's total.
type LinkClicks struct {
	LinkID   string      `json:"link_id"`
	Platform id.Platform `json:"platform"`
	Title    string      `json:"title"`
	Clicks   int64       `json:"clicks"`
}

// Summary is the owner-facing analytics overview.
type Summary struct {
	Username    id.Username      `json:"username"`
	TotalViews  int64            `json:"total_views"`
	TotalClicks int64            `json:"total_clicks"`
	Daily       []DailyCount     `json:"daily"`
	Devices     map[string]int64 `json:"devices"`
	Links       []LinkClicks     `json:"links"`
}

// Counters is the raw counter snapshot a store returns for one username.
type Counters struct {
	TotalViews   int64
	TotalClicks  int64
	DailyViews   map[string]int64
	DailyClicks  map[string]int64
	DeviceCounts map[string]int64
}
