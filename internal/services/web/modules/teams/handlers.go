package teams

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

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.Store.ListTeams(httpx.RequestContext(r))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	public := teams[:0]
	for _, team := range teams {
		if team.Access == webstorage.TeamAccessPublic {
			public = append(public, team)
		}
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Teams",
		Fragment: templates.Teams(templates.TeamsData{Teams: public}),
	})
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	profileID := ""
	if profile, ok := h.deps.ResolveProfile(r); ok {
		profileID = profile.ID
	}
	detail, err := h.service.teamDetail(ctx, team, profileID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title: team.Name,
		Fragment: templates.TeamDetail(templates.TeamDetailData{
			Team:     detail.team,
			Events:   detail.events,
			Members:  detail.members,
			Sponsors: detail.sponsors,
			IsMember: detail.isMember,
			IsAdmin:  detail.isAdmin,
		}),
	})
}

// handleAbout renders the team's long-form page, falling back to the
// team page when no about content has been written.
func (h handlers) handleAbout(w http.ResponseWriter, r *http.Request) {
	team, err := h.service.teamByID(httpx.RequestContext(r), r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if team.AboutPage == "" {
		http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "About " + team.Name,
		Fragment: templates.TeamAbout(templates.TeamAboutData{Team: team}),
	})
}

func (h handlers) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireProfile(w, r); !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Start a team",
		Fragment: templates.TeamForm(templates.TeamFormData{}),
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
	form, errs := forms.ParseNewTeamForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Start a team",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment: templates.TeamForm(templates.TeamFormData{
				Team:   webstorage.Team{Name: form.Name, CityID: form.CityID, TZ: form.TZ, Access: form.Access},
				Errors: errs,
			}),
		})
		return
	}
	team, err := h.service.createTeam(httpx.RequestContext(r), form, profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	// Creation is two-step; the definition page fills in the rest.
	http.Redirect(w, r, routepath.TeamDefine(team.ID), http.StatusFound)
}

func (h handlers) handleDefinePage(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Tell people about " + team.Name,
		Fragment: templates.TeamDefine(templates.TeamDefineData{Team: team}),
	})
}

func (h handlers) handleDefineSubmit(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTeamDefinitionForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Tell people about " + team.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.TeamDefine(templates.TeamDefineData{Team: team, Errors: errs}),
		})
		return
	}
	team, err := h.service.defineTeam(httpx.RequestContext(r), team, form)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) requireAdmin(w http.ResponseWriter, r *http.Request) (webstorage.Team, webstorage.Profile, bool) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return webstorage.Team{}, webstorage.Profile{}, false
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Team{}, webstorage.Profile{}, false
	}
	detail, err := h.service.teamDetail(ctx, team, profile.ID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Team{}, webstorage.Profile{}, false
	}
	if !detail.isAdmin {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindForbidden, "only team admins can do this"))
		return webstorage.Team{}, webstorage.Profile{}, false
	}
	return team, profile, true
}

func (h handlers) handleEditPage(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Edit " + team.Name,
		Fragment: templates.TeamForm(templates.TeamFormData{Team: team}),
	})
}

func (h handlers) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTeamForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Edit " + team.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.TeamForm(templates.TeamFormData{Team: team, Errors: errs}),
		})
		return
	}
	team, err := h.service.updateTeam(httpx.RequestContext(r), team, form)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if len(query) == 0 {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:    "Find a team",
			Fragment: templates.Search(templates.SearchData{}),
		})
		return
	}
	form, errs := forms.ParseSearchTeamsForm(query)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Find a team",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.Search(templates.SearchData{Query: form, Errors: errs}),
		})
		return
	}
	teams, err := h.deps.Store.SearchTeams(httpx.RequestContext(r), webstorage.TeamSearch{
		Name:       form.Name,
		CityID:     form.CityID,
		DistanceKM: form.DistanceKM,
	})
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Find a team",
		Fragment: templates.Search(templates.SearchData{Query: form, Teams: teams}),
	})
}

func (h handlers) handleEventsFeed(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	feed, err := h.service.eventsFeed(ctx, team)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	_, _ = w.Write([]byte(feed))
}

func (h handlers) handleCreateEventPage(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "New event for " + team.Name,
		Fragment: templates.EventForm(templates.EventFormData{Team: team}),
	})
}

func (h handlers) handleCreateEventSubmit(w http.ResponseWriter, r *http.Request) {
	team, profile, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseNewEventForm(r.PostForm, team.TZ)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "New event for " + team.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.EventForm(templates.EventFormData{Team: team, Errors: errs}),
		})
		return
	}
	event, err := h.service.createEvent(httpx.RequestContext(r), team, form, profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	// Creation is two-step; the details page fills in the rest.
	http.Redirect(w, r, routepath.EventAddDetails(event.ID), http.StatusFound)
}

func (h handlers) handleCreateSeriesPage(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "New event series for " + team.Name,
		Fragment: templates.SeriesForm(templates.SeriesFormData{Team: team}),
	})
}

func (h handlers) handleCreateSeriesSubmit(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseEventSeriesForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "New event series for " + team.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.SeriesForm(templates.SeriesFormData{Team: team, Errors: errs}),
		})
		return
	}
	if _, err := h.service.createSeries(httpx.RequestContext(r), team, form); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseDeleteEventSeriesForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "deletion must be confirmed"))
		return
	}
	if err := h.service.deleteSeries(httpx.RequestContext(r), team, r.PathValue("series")); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleAddSponsor(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseSponsorForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a sponsor name is required"))
		return
	}
	if err := h.service.addSponsor(httpx.RequestContext(r), team, form); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleInviteToOrg(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if team.OrgID != "" {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "this team already belongs to an organization"))
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	orgIDs, err := h.service.ownedOrgIDs(ctx, profile.ID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	form, errs := forms.ParseInviteToJoinOrgForm(r.PostForm, orgIDs)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "pick one of your organizations"))
		return
	}
	if err := h.service.inviteToOrg(ctx, team, form.OrgID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Org(form.OrgID), http.StatusFound)
}

func (h handlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if err := h.service.join(ctx, team, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleLeave(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if err := h.service.leave(ctx, team, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleInvite(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTeamInviteForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid invite addresses"))
		return
	}
	if err := h.service.invite(httpx.RequestContext(r), team, form.To); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

// handleAcceptInvitePage shows the confirmation page for an emailed
// invite link. Membership is only created by the POST submission.
func (h handlers) handleAcceptInvitePage(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	invite, err := h.service.inviteForProfile(ctx, team, r.URL.Query().Get("invite"), profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Join " + team.Name,
		Fragment: templates.TeamInviteAccept(templates.TeamInviteAcceptData{Team: team, InviteID: invite.ID}),
	})
}

func (h handlers) handleAcceptInviteSubmit(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	team, err := h.service.teamByID(ctx, r.PathValue("team"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseAcceptTeamInviteForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "acceptance must be confirmed"))
		return
	}
	if err := h.service.acceptInvite(ctx, team, r.PostForm.Get("invite"), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	team, profile, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTeamContactForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid contact submission"))
		return
	}
	if err := h.service.contact(httpx.RequestContext(r), team, form, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(team.ID), http.StatusFound)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	team, _, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseDeleteTeamForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "deletion must be confirmed"))
		return
	}
	if err := h.deps.Store.DeleteTeam(httpx.RequestContext(r), team.ID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Teams, http.StatusFound)
}
