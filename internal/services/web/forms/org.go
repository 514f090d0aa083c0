package forms

import "net/url"

// OrganizationForm edits an organization.
type OrganizationForm struct {
	Name        string
	Description string
	CoverImgURL string
}

// ParseOrganizationForm binds an organization submission.
func ParseOrganizationForm(values url.Values) (OrganizationForm, Errors) {
	b := newBinder(values)
	form := OrganizationForm{
		Name:        b.required("name"),
		Description: b.trimmed("description"),
		CoverImgURL: b.trimmed("cover_img"),
	}
	return form, b.errs
}

// OrgContactForm messages an organization audience.
type OrgContactForm struct {
	To   string
	Body string
}

// ParseOrgContactForm binds a contact submission against the allowed
// audiences.
func ParseOrgContactForm(values url.Values) (OrgContactForm, Errors) {
	b := newBinder(values)
	form := OrgContactForm{
		To:   b.choice("to", []string{ContactAdmins, ContactMembers}),
		Body: b.required("body"),
	}
	return form, b.errs
}

// RequestToJoinOrgForm asks an organization to adopt one of the
// requester's teams.
type RequestToJoinOrgForm struct {
	TeamID string
}

// ParseRequestToJoinOrgForm validates the team select against the teams
// the requester administers.
func ParseRequestToJoinOrgForm(values url.Values, teamIDs []string) (RequestToJoinOrgForm, Errors) {
	b := newBinder(values)
	form := RequestToJoinOrgForm{TeamID: b.choice("team", teamIDs)}
	return form, b.errs
}

// InviteToJoinOrgForm invites a team into one of the inviter's
// organizations.
type InviteToJoinOrgForm struct {
	OrgID string
}

// ParseInviteToJoinOrgForm validates the organization select against the
// organizations the inviter owns.
func ParseInviteToJoinOrgForm(values url.Values, orgIDs []string) (InviteToJoinOrgForm, Errors) {
	b := newBinder(values)
	form := InviteToJoinOrgForm{OrgID: b.choice("organization", orgIDs)}
	return form, b.errs
}

// AcceptOrgRequestForm confirms adding a team to an organization.
type AcceptOrgRequestForm struct {
	Confirm bool
}

// ParseAcceptOrgRequestForm requires the confirmation checkbox.
func ParseAcceptOrgRequestForm(values url.Values) (AcceptOrgRequestForm, Errors) {
	b := newBinder(values)
	form := AcceptOrgRequestForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// AcceptOrgInviteForm confirms adding the accepter's team to an
// organization.
type AcceptOrgInviteForm struct {
	Confirm bool
}

// ParseAcceptOrgInviteForm requires the confirmation checkbox.
func ParseAcceptOrgInviteForm(values url.Values) (AcceptOrgInviteForm, Errors) {
	b := newBinder(values)
	form := AcceptOrgInviteForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}
