// Package routepath centralizes web route constants and URL builders.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root = "/"
)

const (
	StaticPrefix = "/static/"
)

const (
	Login       = "/login"
	Logout      = "/logout"
	Magic       = "/magic"
	AboutPrefix = "/about/"
)

const (
	PasskeyRegisterBegin  = "/passkeys/register/begin"
	PasskeyRegisterFinish = "/passkeys/register/finish"
	PasskeyLoginBegin     = "/passkeys/login/begin"
	PasskeyLoginFinish    = "/passkeys/login/finish"
)

const (
	Events         = "/events/"
	Teams          = "/teams/"
	CreateTeam     = "/create-team/"
	TeamPrefix     = "/team/"
	Places         = "/places/"
	CreatePlace    = "/create-place/"
	Searchables    = "/searchables/"
	Profile        = "/profile/"
	ConfirmProfile = "/profile/confirm/"
	Notifications  = "/profile/notifications/"
	Speakers       = "/speaker/"
	SearchTeams    = "/search/"
	Orgs           = "/orgs/"
	CreateOrg      = "/create-org/"
	OrgPrefix      = "/org/"
)

const (
	APIPlaces    = "/api/places/"
	APICountries = "/api/countries/"
	APISPR       = "/api/spr/"
	APICities    = "/api/cities/"
)

// Team returns the detail page path for a team.
func Team(teamID string) string {
	return TeamPrefix + escapeSegment(teamID) + "/"
}

// TeamAbout returns the about page path for a team.
func TeamAbout(teamID string) string {
	return AboutPrefix + escapeSegment(teamID) + "/"
}

// CreateEvent returns the event creation path under a team.
func CreateEvent(teamID string) string {
	return TeamPrefix + escapeSegment(teamID) + "/create-event/"
}

// TeamDefine returns the definition step path for a freshly created team.
func TeamDefine(teamID string) string {
	return TeamPrefix + escapeSegment(teamID) + "/define/"
}

// CreateSeries returns the series creation path under a team.
func CreateSeries(teamID string) string {
	return TeamPrefix + escapeSegment(teamID) + "/create-series/"
}

// TeamEventsFeed returns the iCalendar feed path for a team.
func TeamEventsFeed(teamID string) string {
	return TeamPrefix + escapeSegment(teamID) + "/events.ics"
}

// Event returns the detail page path for an event.
func Event(eventID, slug string) string {
	return Events + escapeSegment(eventID) + "/" + escapeSegment(slug) + "/"
}

// EventAddDetails returns the details step path for a freshly created
// event.
func EventAddDetails(eventID string) string {
	return Events + escapeSegment(eventID) + "/add-details/"
}

// EventFeed returns the iCalendar path for a single event.
func EventFeed(eventID, slug string) string {
	return Events + escapeSegment(eventID) + "/" + escapeSegment(slug) + "/ics"
}

// Org returns the detail page path for an organization.
func Org(orgID string) string {
	return OrgPrefix + escapeSegment(orgID) + "/"
}

// Speaker returns the detail page path for a speaker.
func Speaker(speakerID string) string {
	return Speakers + escapeSegment(speakerID) + "/"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
