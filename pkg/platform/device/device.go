// Package device classifies visitors from their User-Agent for analytics buckets.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Class is the coarse device bucket a profile view is counted under.
type Class string

const (
	ClassMobile  Class = "mobile"
	ClassDesktop Class = "desktop"
	ClassBot     Class = "bot"
	ClassUnknown Class = "unknown"
)

// Classify maps a raw User-Agent header to a device class.
func Classify(userAgent string) Class {
	if strings.TrimSpace(userAgent) == "" {
		return ClassUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ClassBot
	case ua.Mobile():
		return ClassMobile
	case ua.OS() == "" && ua.Platform() == "":
		return ClassUnknown
	default:
		return ClassDesktop
	}
}

// DisplayName renders "Browser on OS" for log lines and event payloads.
func DisplayName(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
