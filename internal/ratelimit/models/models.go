package models

import (
	"strings"
	"time"
)

// EndpointClass groups routes that share a per-IP budget.
type EndpointClass string

const (
	// ClassPublic covers card scans and profile views.
	ClassPublic EndpointClass = "public"
	// ClassBeacon covers the link click beacon.
	ClassBeacon EndpointClass = "beacon"
	// ClassAccount covers bearer-authenticated routes, activation included.
	ClassAccount EndpointClass = "account"
)

// Limit is a request budget over a sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// RateLimitResult is the outcome of a single check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// NewIPKey builds the bucket key for a client IP within a class.
func NewIPKey(class EndpointClass, ip string) string {
	return "flexcard:ratelimit:" + string(class) + ":" + SanitizeKeySegment(ip)
}

// SanitizeKeySegment replaces the key delimiter so an IPv6 address or a
// forged header cannot address a neighbouring bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// RetryAfterSeconds rounds the wait until resetAt up to whole seconds, at least 1.
func RetryAfterSeconds(now, resetAt time.Time) int {
	d := resetAt.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
