package domain

// Platform identifies the service a profile link points to.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformGitHub    Platform = "github"
	PlatformSnapchat  Platform = "snapchat"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformTelegram  Platform = "telegram"
	PlatformPinterest Platform = "pinterest"
	PlatformTwitch    Platform = "twitch"
	PlatformDiscord   Platform = "discord"
	PlatformSpotify   Platform = "spotify"
	PlatformBehance   Platform = "behance"
	PlatformDribbble  Platform = "dribbble"
	PlatformWebsite   Platform = "website"
)

// PlatformMetadata is the display information a client needs to render a link.
type PlatformMetadata struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

var platformMetadata = map[Platform]PlatformMetadata{
	PlatformLinkedIn:  {Name: "LinkedIn", Color: "#0A66C2"},
	PlatformInstagram: {Name: "Instagram", Color: "#E4405F"},
	PlatformFacebook:  {Name: "Facebook", Color: "#1877F2"},
	PlatformTwitter:   {Name: "Twitter/X", Color: "#000000"},
	PlatformTikTok:    {Name: "TikTok", Color: "#000000"},
	PlatformYouTube:   {Name: "YouTube", Color: "#FF0000"},
	PlatformGitHub:    {Name: "GitHub", Color: "#181717"},
	PlatformSnapchat:  {Name: "Snapchat", Color: "#FFFC00"},
	PlatformWhatsApp:  {Name: "WhatsApp", Color: "#25D366"},
	PlatformTelegram:  {Name: "Telegram", Color: "#26A5E4"},
	PlatformPinterest: {Name: "Pinterest", Color: "#BD081C"},
	PlatformTwitch:    {Name: "Twitch", Color: "#9146FF"},
	PlatformDiscord:   {Name: "Discord", Color: "#5865F2"},
	PlatformSpotify:   {Name: "Spotify", Color: "#1DB954"},
	PlatformBehance:   {Name: "Behance", Color: "#1769FF"},
	PlatformDribbble:  {Name: "Dribbble", Color: "#EA4C89"},
	PlatformWebsite:   {Name: "Website", Color: "#8645D6"},
}

// fallbackPlatform is rendered for empty or unrecognised platforms.
var fallbackPlatform = PlatformMetadata{Name: "Link", Color: "#8645D6"}

// Metadata returns display information; unknown platforms get the generic link style.
func (p Platform) Metadata() PlatformMetadata {
	if m, ok := platformMetadata[p]; ok {
		return m
	}
	return fallbackPlatform
}

// IsKnown reports whether the platform is in the lookup table.
func (p Platform) IsKnown() bool {
	_, ok := platformMetadata[p]
	return ok
}
