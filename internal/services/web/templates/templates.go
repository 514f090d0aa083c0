// Package templates renders web pages from embedded HTML templates.
//
// Pages are exposed as templ components so handlers can compose fragments
// and layouts uniformly.
package templates

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

//go:embed pages/*.html
var pagesFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"localdate": func(value time.Time, tz string) string {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.UTC
		}
		return value.In(loc).Format("Mon, Jan 2 2006 3:04 PM")
	},
}).ParseFS(pagesFS, "pages/*.html"))

// component adapts a named template execution to the templ contract.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

type layoutData struct {
	Title   string
	Lang    string
	Viewer  module.Viewer
	Content template.HTML
}

// Layout wraps a page fragment in the shared chrome.
func Layout(title, lang string, viewer module.Viewer, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buffer bytes.Buffer
		if content != nil {
			if err := content.Render(ctx, &buffer); err != nil {
				return err
			}
		}
		return pages.ExecuteTemplate(w, "layout.html", layoutData{
			Title:   title,
			Lang:    lang,
			Viewer:  viewer,
			Content: template.HTML(buffer.String()),
		})
	})
}

// HomeData lists upcoming events and nearby teams on the landing page.
type HomeData struct {
	UpcomingEvents []webstorage.Event
	Teams          []webstorage.Team
}

// Home renders the landing page.
func Home(data HomeData) templ.Component {
	return component("home.html", data)
}

// LoginData carries login page state.
type LoginData struct {
	Sent   bool
	Errors forms.Errors
}

// Login renders the login page.
func Login(data LoginData) templ.Component {
	return component("login.html", data)
}

// TeamsData lists public teams.
type TeamsData struct {
	Teams []webstorage.Team
}

// Teams renders the public team directory.
func Teams(data TeamsData) templ.Component {
	return component("teams.html", data)
}

// TeamDetailData carries a team page with its events and members.
type TeamDetailData struct {
	Team     webstorage.Team
	Events   []webstorage.Event
	Members  []webstorage.Member
	Sponsors []webstorage.Sponsor
	IsMember bool
	IsAdmin  bool
}

// TeamDetail renders a team's page.
func TeamDetail(data TeamDetailData) templ.Component {
	return component("team_detail.html", data)
}

// TeamAboutData carries a team's long-form about page.
type TeamAboutData struct {
	Team webstorage.Team
}

// TeamAbout renders a team's about page.
func TeamAbout(data TeamAboutData) templ.Component {
	return component("team_about.html", data)
}

// TeamDefineData carries the second step of team creation.
type TeamDefineData struct {
	Team   webstorage.Team
	Errors forms.Errors
}

// TeamDefine renders the team definition form.
func TeamDefine(data TeamDefineData) templ.Component {
	return component("team_define.html", data)
}

// SeriesFormData carries the create-series form state.
type SeriesFormData struct {
	Team   webstorage.Team
	Errors forms.Errors
}

// SeriesForm renders the create event series form.
func SeriesForm(data SeriesFormData) templ.Component {
	return component("series_form.html", data)
}

// TeamInviteAcceptData carries the invite confirmation page.
type TeamInviteAcceptData struct {
	Team     webstorage.Team
	InviteID string
}

// TeamInviteAccept renders the invite confirmation page.
func TeamInviteAccept(data TeamInviteAcceptData) templ.Component {
	return component("invite_accept.html", data)
}

// TeamFormData carries create/edit team form state.
type TeamFormData struct {
	Team   webstorage.Team
	Errors forms.Errors
}

// TeamForm renders the team create/edit form.
func TeamForm(data TeamFormData) templ.Component {
	return component("team_form.html", data)
}

// EventsData lists upcoming events.
type EventsData struct {
	Events []webstorage.Event
}

// Events renders the public events listing.
func Events(data EventsData) templ.Component {
	return component("events.html", data)
}

// EventDetailData carries an event page with attendance state.
type EventDetailData struct {
	Event         webstorage.Event
	Team          webstorage.Team
	Place         webstorage.Place
	Attendees     []webstorage.Attendee
	Comments      []webstorage.EventComment
	Photos        []webstorage.EventPhoto
	Presentations []webstorage.Presentation
	Attending     bool
	IsHost        bool
	AtCapacity    bool
}

// EventDetail renders an event's page.
func EventDetail(data EventDetailData) templ.Component {
	return component("event_detail.html", data)
}

// EventFormData carries create/edit event form state.
type EventFormData struct {
	Event  webstorage.Event
	Team   webstorage.Team
	Errors forms.Errors
}

// EventForm renders the event create/edit form.
func EventForm(data EventFormData) templ.Component {
	return component("event_form.html", data)
}

// EventDetailsFormData carries the second step of event creation.
type EventDetailsFormData struct {
	Event  webstorage.Event
	Errors forms.Errors
}

// EventDetailsForm renders the event details form.
func EventDetailsForm(data EventDetailsFormData) templ.Component {
	return component("event_details_form.html", data)
}

// EventSettingsData carries the event settings form state.
type EventSettingsData struct {
	Event  webstorage.Event
	Errors forms.Errors
}

// EventSettings renders the event settings form.
func EventSettings(data EventSettingsData) templ.Component {
	return component("event_settings.html", data)
}

// PlacesData lists venues.
type PlacesData struct {
	Places []webstorage.Place
}

// Places renders the venue listing.
func Places(data PlacesData) templ.Component {
	return component("places.html", data)
}

// PlaceFormData carries the create-place form state.
type PlaceFormData struct {
	Errors forms.Errors
}

// PlaceForm renders the create-place form.
func PlaceForm(data PlaceFormData) templ.Component {
	return component("place_form.html", data)
}

// ProfileData carries the signed-in profile page.
type ProfileData struct {
	Profile  webstorage.Profile
	Teams    []webstorage.Team
	Speakers []webstorage.Speaker
	Errors   forms.Errors
}

// Profile renders the profile edit page.
func Profile(data ProfileData) templ.Component {
	return component("profile.html", data)
}

// ConfirmProfile renders the first-login confirmation page.
func ConfirmProfile(data ProfileData) templ.Component {
	return component("profile_confirm.html", data)
}

// SpeakerData carries a speaker page with talks.
type SpeakerData struct {
	Speaker webstorage.Speaker
	Talks   []webstorage.Talk
	Errors  forms.Errors
}

// Speaker renders a speaker's page.
func Speaker(data SpeakerData) templ.Component {
	return component("speaker.html", data)
}

// SearchData carries team search results.
type SearchData struct {
	Query  forms.SearchTeamsForm
	Teams  []webstorage.Team
	Errors forms.Errors
}

// Search renders the team search page.
func Search(data SearchData) templ.Component {
	return component("search.html", data)
}

// OrgsData lists organizations.
type OrgsData struct {
	Orgs []webstorage.Organization
}

// Orgs renders the organization directory.
func Orgs(data OrgsData) templ.Component {
	return component("orgs.html", data)
}

// OrgFormData carries create/edit organization form state.
type OrgFormData struct {
	Org    webstorage.Organization
	Errors forms.Errors
}

// OrgForm renders the organization create/edit form.
func OrgForm(data OrgFormData) templ.Component {
	return component("org_form.html", data)
}

// OrgDetailData carries an organization page with member teams and
// pending affiliation requests.
type OrgDetailData struct {
	Org     webstorage.Organization
	Teams   []webstorage.Team
	Pending []webstorage.OrgTeamRequest
	IsOwner bool
}

// OrgDetail renders an organization's page.
func OrgDetail(data OrgDetailData) templ.Component {
	return component("org_detail.html", data)
}

// ErrorData carries a localized error page.
type ErrorData struct {
	StatusCode int
	Message    string
}

// ErrorPage renders the shared error page.
func ErrorPage(data ErrorData) templ.Component {
	return component("error.html", data)
}
