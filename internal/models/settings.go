package models

// SettingsID is the fixed document id of the settings singleton.
const SettingsID = "stats"

// Settings is the site-wide singleton document. It is always edited as a
// whole form, so saves replace the document instead of merging into it.
type Settings struct {
	PeopleHelped        int    `json:"peopleHelped"`
	NextApplicationDate string `json:"nextApplicationDate"`
	DiscordLink         string `json:"discordLink"`
	GoogleFormsLink     string `json:"googleFormsLink"`
	// LastUpdated is an RFC 3339 timestamp refreshed on every save.
	LastUpdated string `json:"lastUpdated"`
}
