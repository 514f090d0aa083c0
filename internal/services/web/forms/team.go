package forms

import (
	"net/url"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

var teamAccessChoices = []int{
	int(webstorage.TeamAccessPublic),
	int(webstorage.TeamAccessPrivate),
}

// TeamForm edits every team attribute.
type TeamForm struct {
	Name        string
	Access      webstorage.TeamAccess
	Description string
	AboutPage   string
	Category    string
	CityID      string
	WebURL      string
	TZ          string
	CoverImgURL string
}

// ParseTeamForm binds a full team edit submission.
func ParseTeamForm(values url.Values) (TeamForm, Errors) {
	b := newBinder(values)
	form := TeamForm{
		Name:        b.required("name"),
		Access:      webstorage.TeamAccess(b.intChoice("access", teamAccessChoices)),
		Description: b.trimmed("description"),
		AboutPage:   b.trimmed("about_page"),
		Category:    b.trimmed("category"),
		CityID:      b.required("city"),
		WebURL:      b.trimmed("web_url"),
		TZ:          b.required("tz"),
		CoverImgURL: b.trimmed("cover_img"),
	}
	return form, b.errs
}

// NewTeamForm captures the fields needed to create a team.
type NewTeamForm struct {
	Name        string
	CityID      string
	TZ          string
	CoverImgURL string
	Access      webstorage.TeamAccess
}

// ParseNewTeamForm binds a team creation submission.
func ParseNewTeamForm(values url.Values) (NewTeamForm, Errors) {
	b := newBinder(values)
	form := NewTeamForm{
		Name:        b.required("name"),
		CityID:      b.required("city"),
		TZ:          b.required("tz"),
		CoverImgURL: b.trimmed("cover_img"),
		Access:      webstorage.TeamAccess(b.intChoice("access", teamAccessChoices)),
	}
	return form, b.errs
}

// TeamDefinitionForm edits a team's public description.
type TeamDefinitionForm struct {
	Category    string
	WebURL      string
	Description string
	AboutPage   string
}

// ParseTeamDefinitionForm binds the definition submission; every field is
// optional.
func ParseTeamDefinitionForm(values url.Values) (TeamDefinitionForm, Errors) {
	b := newBinder(values)
	form := TeamDefinitionForm{
		Category:    b.trimmed("category"),
		WebURL:      b.trimmed("web_url"),
		Description: b.trimmed("description"),
		AboutPage:   b.trimmed("about_page"),
	}
	return form, b.errs
}

// DeleteTeamForm confirms a team deletion.
type DeleteTeamForm struct {
	Confirm bool
}

// ParseDeleteTeamForm requires the confirmation checkbox.
func ParseDeleteTeamForm(values url.Values) (DeleteTeamForm, Errors) {
	b := newBinder(values)
	form := DeleteTeamForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// Contact recipient choices shared by team, event and org contact forms.
const (
	ContactAdmins    = "admins"
	ContactMembers   = "members"
	ContactAttendees = "attendees"
)

// TeamContactForm messages a team audience.
type TeamContactForm struct {
	To   string
	Body string
}

// ParseTeamContactForm binds a contact submission against the allowed
// audiences.
func ParseTeamContactForm(values url.Values) (TeamContactForm, Errors) {
	b := newBinder(values)
	form := TeamContactForm{
		To:   b.choice("to", []string{ContactAdmins, ContactMembers}),
		Body: b.required("body"),
	}
	return form, b.errs
}

// TeamInviteForm invites people to join a team by email.
type TeamInviteForm struct {
	To []string
}

// ParseTeamInviteForm binds a comma-separated list of invite addresses.
func ParseTeamInviteForm(values url.Values) (TeamInviteForm, Errors) {
	b := newBinder(values)
	form := TeamInviteForm{To: b.emailList("to")}
	return form, b.errs
}

// AcceptTeamInviteForm confirms joining a team from an invitation.
type AcceptTeamInviteForm struct {
	Confirm bool
}

// ParseAcceptTeamInviteForm requires the confirmation checkbox.
func ParseAcceptTeamInviteForm(values url.Values) (AcceptTeamInviteForm, Errors) {
	b := newBinder(values)
	form := AcceptTeamInviteForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// SponsorForm adds a sponsor to a team.
type SponsorForm struct {
	Name    string
	WebURL  string
	LogoURL string
}

// ParseSponsorForm binds a sponsor submission.
func ParseSponsorForm(values url.Values) (SponsorForm, Errors) {
	b := newBinder(values)
	form := SponsorForm{
		Name:    b.required("name"),
		WebURL:  b.trimmed("web_url"),
		LogoURL: b.trimmed("logo"),
	}
	return form, b.errs
}
