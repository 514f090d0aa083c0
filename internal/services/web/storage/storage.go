package storage

import (
	"context"
	"time"
)

// TeamAccess enumerates team visibility levels.
type TeamAccess int

const (
	// TeamAccessPublic lists the team publicly and lets anyone join.
	TeamAccessPublic TeamAccess = 0
	// TeamAccessPrivate hides the team from listings; joining needs an invite.
	TeamAccessPrivate TeamAccess = 2
)

// EventStatus enumerates event lifecycle states.
type EventStatus int

const (
	EventStatusConfirmed EventStatus = 0
	EventStatusCanceled  EventStatus = 1
)

// MemberRole enumerates membership roles within a team.
type MemberRole int

const (
	MemberRoleNormal MemberRole = 0
	MemberRoleAdmin  MemberRole = 1
)

// AttendeeStatus enumerates attendance answers.
type AttendeeStatus int

const (
	AttendeeStatusYes   AttendeeStatus = 0
	AttendeeStatusMaybe AttendeeStatus = 1
	AttendeeStatusNo    AttendeeStatus = 2
)

// Profile is a registered user with community-facing details.
type Profile struct {
	ID                string
	Email             string
	RealName          string
	WebURL            string
	CityID            string
	TZ                string
	AvatarURL         string
	SendNotifications bool
	DoNotTrack        bool
	Confirmed         bool
	CreatedAt         time.Time
}

// Team is a community group that organizes events.
type Team struct {
	ID          string
	Slug        string
	Name        string
	Access      TeamAccess
	Description string
	AboutPage   string
	Category    string
	CityID      string
	WebURL      string
	TZ          string
	CoverImgURL string
	OwnerID     string
	OrgID       string
	CreatedAt   time.Time
}

// Member links a profile to a team.
type Member struct {
	TeamID    string
	ProfileID string
	Role      MemberRole
	JoinedAt  time.Time
}

// Event is a gathering organized under a team.
//
// StartTime and EndTime are stored in UTC; TZ records the IANA zone the
// organizer scheduled the event in.
type Event struct {
	ID                  string
	TeamID              string
	SeriesID            string
	PlaceID             string
	Slug                string
	Name                string
	StartTime           time.Time
	EndTime             time.Time
	TZ                  string
	Recurrences         string
	Summary             string
	WebURL              string
	AnnounceURL         string
	AttendeeLimit       int
	EnableComments      bool
	EnablePhotos        bool
	EnablePresentations bool
	Status              EventStatus
	CancelReason        string
	CreatedBy           string
	CreatedAt           time.Time
}

// EventSeries describes a repeating event template.
//
// StartTime and EndTime hold local wall-clock times of day ("15:04") in the
// team's timezone; Recurrence holds an RRULE string.
type EventSeries struct {
	ID               string
	TeamID           string
	Name             string
	StartTime        string
	EndTime          string
	Recurrence       string
	Summary          string
	AttendeeLimit    int
	LastMaterialized time.Time
	CreatedAt        time.Time
}

// Attendee links a profile to an event.
type Attendee struct {
	EventID   string
	ProfileID string
	Status    AttendeeStatus
	Host      bool
	CreatedAt time.Time
}

// EventComment is a discussion entry on an event page.
type EventComment struct {
	ID        string
	EventID   string
	ProfileID string
	Body      string
	CreatedAt time.Time
}

// EventPhoto is an uploaded photo attached to an event.
type EventPhoto struct {
	ID        string
	EventID   string
	ProfileID string
	SrcURL    string
	Title     string
	Caption   string
	CreatedAt time.Time
}

// Place is a venue events can be held at.
type Place struct {
	ID        string
	Name      string
	Address   string
	CityID    string
	Longitude float64
	Latitude  float64
	PlaceURL  string
	TZ        string
	CreatedAt time.Time
}

// Country, SPR and City form the locale hierarchy used by lookups.
type Country struct {
	ID   string
	Name string
	Code string
}

// SPR is a state, province or region within a country.
type SPR struct {
	ID        string
	Name      string
	CountryID string
}

// City is a locality within an SPR.
type City struct {
	ID        string
	Name      string
	SPRID     string
	Latitude  float64
	Longitude float64
}

// Sponsor is an organization backing a team.
type Sponsor struct {
	ID      string
	TeamID  string
	Name    string
	WebURL  string
	LogoURL string
}

// Speaker is a profile's public speaking persona.
type Speaker struct {
	ID         string
	ProfileID  string
	AvatarURL  string
	Title      string
	Bio        string
	Categories string
}

// Talk is a presentation a speaker offers to events.
type Talk struct {
	ID        string
	SpeakerID string
	Title     string
	Abstract  string
	TalkType  string
	WebURL    string
	Category  string
}

// Presentation schedules a talk at an event.
type Presentation struct {
	ID        string
	EventID   string
	TalkID    string
	StartTime time.Time
	CreatedAt time.Time
}

// TeamInvite is a pending email invitation to join a team.
type TeamInvite struct {
	ID         string
	TeamID     string
	Email      string
	AcceptedAt time.Time
	CreatedAt  time.Time
}

// EventInvite is a pending email invitation to attend an event.
type EventInvite struct {
	ID        string
	EventID   string
	Email     string
	CreatedAt time.Time
}

// Organization groups related teams.
type Organization struct {
	ID          string
	Name        string
	Description string
	CoverImgURL string
	OwnerID     string
	CreatedAt   time.Time
}

// OrgTeamRequest links a team and an organization pending mutual approval.
//
// FromOrg marks requests initiated by the organization (an invite); otherwise
// the team asked to join.
type OrgTeamRequest struct {
	ID         string
	OrgID      string
	TeamID     string
	FromOrg    bool
	AcceptedAt time.Time
	CreatedAt  time.Time
}

// Session is an authenticated browser session.
type Session struct {
	ID        string
	ProfileID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasskeyCredential stores one webauthn credential for a profile.
type PasskeyCredential struct {
	ID             string
	ProfileID      string
	CredentialJSON []byte
	CreatedAt      time.Time
	LastUsedAt     time.Time
}

// PasskeySession stores transient webauthn ceremony state.
type PasskeySession struct {
	ID        string
	Kind      string
	ProfileID string
	DataJSON  []byte
	CreatedAt time.Time
}

// TeamSearch filters team listings.
type TeamSearch struct {
	Name       string
	CityID     string
	DistanceKM int
}

// Store is the persistence contract for the web service.
type Store interface {
	Close() error

	// Profiles
	CreateProfile(ctx context.Context, profile Profile) error
	UpdateProfile(ctx context.Context, profile Profile) error
	GetProfile(ctx context.Context, profileID string) (Profile, bool, error)
	GetProfileByEmail(ctx context.Context, email string) (Profile, bool, error)

	// Sessions
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Passkeys
	PutPasskeyCredential(ctx context.Context, credential PasskeyCredential) error
	ListPasskeyCredentials(ctx context.Context, profileID string) ([]PasskeyCredential, error)
	GetPasskeyCredential(ctx context.Context, credentialID string) (PasskeyCredential, bool, error)
	PutPasskeySession(ctx context.Context, session PasskeySession) error
	TakePasskeySession(ctx context.Context, sessionID string) (PasskeySession, bool, error)

	// Teams
	CreateTeam(ctx context.Context, team Team) error
	UpdateTeam(ctx context.Context, team Team) error
	DeleteTeam(ctx context.Context, teamID string) error
	GetTeam(ctx context.Context, teamID string) (Team, bool, error)
	GetTeamBySlug(ctx context.Context, slug string) (Team, bool, error)
	ListTeams(ctx context.Context) ([]Team, error)
	SearchTeams(ctx context.Context, search TeamSearch) ([]Team, error)
	PutMember(ctx context.Context, member Member) error
	DeleteMember(ctx context.Context, teamID, profileID string) error
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	GetMember(ctx context.Context, teamID, profileID string) (Member, bool, error)
	ListTeamsForProfile(ctx context.Context, profileID string) ([]Team, error)

	// Events
	CreateEvent(ctx context.Context, event Event) error
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, eventID string) error
	GetEvent(ctx context.Context, eventID string) (Event, bool, error)
	ListEventsForTeam(ctx context.Context, teamID string) ([]Event, error)
	ListUpcomingEvents(ctx context.Context, after time.Time, limit int) ([]Event, error)
	ListEventsStartingBetween(ctx context.Context, from, until time.Time) ([]Event, error)
	PutAttendee(ctx context.Context, attendee Attendee) error
	DeleteAttendee(ctx context.Context, eventID, profileID string) error
	ListAttendees(ctx context.Context, eventID string) ([]Attendee, error)
	CountAttendees(ctx context.Context, eventID string) (int, error)
	CreateEventComment(ctx context.Context, comment EventComment) error
	DeleteEventComment(ctx context.Context, commentID string) error
	GetEventComment(ctx context.Context, commentID string) (EventComment, bool, error)
	ListEventComments(ctx context.Context, eventID string) ([]EventComment, error)
	CreateEventPhoto(ctx context.Context, photo EventPhoto) error
	DeleteEventPhoto(ctx context.Context, photoID string) error
	GetEventPhoto(ctx context.Context, photoID string) (EventPhoto, bool, error)
	ListEventPhotos(ctx context.Context, eventID string) ([]EventPhoto, error)

	// Event series
	CreateEventSeries(ctx context.Context, series EventSeries) error
	UpdateEventSeries(ctx context.Context, series EventSeries) error
	DeleteEventSeries(ctx context.Context, seriesID string) error
	GetEventSeries(ctx context.Context, seriesID string) (EventSeries, bool, error)
	ListEventSeries(ctx context.Context) ([]EventSeries, error)

	// Places and locale
	CreatePlace(ctx context.Context, place Place) error
	GetPlace(ctx context.Context, placeID string) (Place, bool, error)
	ListPlaces(ctx context.Context) ([]Place, error)
	SearchPlaces(ctx context.Context, prefix string, limit int) ([]Place, error)
	PutCountry(ctx context.Context, country Country) error
	PutSPR(ctx context.Context, spr SPR) error
	PutCity(ctx context.Context, city City) error
	GetCity(ctx context.Context, cityID string) (City, bool, error)
	SearchCountries(ctx context.Context, prefix string, limit int) ([]Country, error)
	SearchSPRs(ctx context.Context, prefix string, limit int) ([]SPR, error)
	SearchCities(ctx context.Context, prefix string, limit int) ([]City, error)

	// Sponsors
	CreateSponsor(ctx context.Context, sponsor Sponsor) error
	ListSponsors(ctx context.Context, teamID string) ([]Sponsor, error)

	// Speakers
	PutSpeaker(ctx context.Context, speaker Speaker) error
	DeleteSpeaker(ctx context.Context, speakerID string) error
	GetSpeaker(ctx context.Context, speakerID string) (Speaker, bool, error)
	ListSpeakersForProfile(ctx context.Context, profileID string) ([]Speaker, error)
	PutTalk(ctx context.Context, talk Talk) error
	DeleteTalk(ctx context.Context, talkID string) error
	GetTalk(ctx context.Context, talkID string) (Talk, bool, error)
	ListTalksForSpeaker(ctx context.Context, speakerID string) ([]Talk, error)
	PutPresentation(ctx context.Context, presentation Presentation) error
	ListPresentations(ctx context.Context, eventID string) ([]Presentation, error)

	// Invites
	CreateTeamInvite(ctx context.Context, invite TeamInvite) error
	GetTeamInvite(ctx context.Context, inviteID string) (TeamInvite, bool, error)
	MarkTeamInviteAccepted(ctx context.Context, inviteID string, acceptedAt time.Time) error
	CreateEventInvite(ctx context.Context, invite EventInvite) error
	ListEventInvites(ctx context.Context, eventID string) ([]EventInvite, error)

	// Organizations
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, orgID string) (Organization, bool, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	CreateOrgTeamRequest(ctx context.Context, request OrgTeamRequest) error
	GetOrgTeamRequest(ctx context.Context, requestID string) (OrgTeamRequest, bool, error)
	ListOrgTeamRequests(ctx context.Context, orgID string) ([]OrgTeamRequest, error)
	AcceptOrgTeamRequest(ctx context.Context, requestID string, acceptedAt time.Time) error
}
