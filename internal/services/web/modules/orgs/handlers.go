package orgs

import (
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/pagerender"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	"github.com/gettogethercomm/gettogether/internal/services/web/templates"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

type handlers struct {
	deps    module.Dependencies
	service service
}

func (h handlers) requireProfile(w http.ResponseWriter, r *http.Request) (webstorage.Profile, bool) {
	profile, ok := h.deps.ResolveProfile(r)
	if !ok {
		http.Redirect(w, r, routepath.Login, http.StatusFound)
		return webstorage.Profile{}, false
	}
	return profile, true
}

func (h handlers) orgFromPath(w http.ResponseWriter, r *http.Request) (webstorage.Organization, bool) {
	org, err := h.service.orgByID(httpx.RequestContext(r), r.PathValue("org"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Organization{}, false
	}
	return org, true
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.deps.Store.ListOrganizations(httpx.RequestContext(r))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Organizations",
		Fragment: templates.Orgs(templates.OrgsData{Orgs: orgs}),
	})
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	org, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}
	teams, err := h.service.memberTeams(httpx.RequestContext(r), org)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	isOwner := false
	var pending []webstorage.OrgTeamRequest
	if profile, ok := h.deps.ResolveProfile(r); ok {
		isOwner = org.OwnerID == profile.ID
		pending, err = h.deps.Store.ListOrgTeamRequests(httpx.RequestContext(r), org.ID)
		if err != nil {
			pagerender.WriteError(w, r, h.deps, err)
			return
		}
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    org.Name,
		Fragment: templates.OrgDetail(templates.OrgDetailData{Org: org, Teams: teams, Pending: pending, IsOwner: isOwner}),
	})
}

func (h handlers) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireProfile(w, r); !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Start an organization",
		Fragment: templates.OrgForm(templates.OrgFormData{}),
	})
}

func (h handlers) handleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseOrganizationForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Start an organization",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.OrgForm(templates.OrgFormData{Errors: errs}),
		})
		return
	}
	org, err := h.service.createOrg(httpx.RequestContext(r), form, profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(org.ID), http.StatusFound)
}

func (h handlers) handleRequestToJoin(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	org, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	ctx := httpx.RequestContext(r)
	teamIDs, err := h.service.adminTeamIDs(ctx, profile.ID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	form, errs := forms.ParseRequestToJoinOrgForm(r.PostForm, teamIDs)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "pick one of your teams"))
		return
	}
	if err := h.service.requestToJoin(ctx, org, form.TeamID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(org.ID), http.StatusFound)
}

func (h handlers) handleInviteTeam(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	org, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}
	if org.OwnerID != profile.ID {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindForbidden, "only the organization owner can invite teams"))
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	ctx := httpx.RequestContext(r)
	teams, err := h.deps.Store.ListTeams(ctx)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	var teamIDs []string
	for _, team := range teams {
		if team.OrgID == "" {
			teamIDs = append(teamIDs, team.ID)
		}
	}
	form, errs := forms.ParseRequestToJoinOrgForm(r.PostForm, teamIDs)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "pick an unaffiliated team"))
		return
	}
	if err := h.service.inviteTeam(ctx, org, form.TeamID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(org.ID), http.StatusFound)
}

func (h handlers) handleAccept(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	org, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	ctx := httpx.RequestContext(r)
	request, err := h.service.requestByID(ctx, org, r.PathValue("request"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	// Invites and join requests carry distinct confirmation forms.
	if request.FromOrg {
		if _, errs := forms.ParseAcceptOrgInviteForm(r.PostForm); errs.Any() {
			pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "acceptance must be confirmed"))
			return
		}
	} else if _, errs := forms.ParseAcceptOrgRequestForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "acceptance must be confirmed"))
		return
	}
	if err := h.service.accept(ctx, org, request, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(org.ID), http.StatusFound)
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	org, ok := h.orgFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseOrgContactForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a message body and audience are required"))
		return
	}
	if err := h.service.contact(httpx.RequestContext(r), org, form, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(org.ID), http.StatusFound)
}
