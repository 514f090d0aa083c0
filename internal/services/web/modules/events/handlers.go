package events

import (
	"net/http"
	"time"

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

func (h handlers) eventFromPath(w http.ResponseWriter, r *http.Request) (webstorage.Event, bool) {
	event, err := h.service.eventByID(httpx.RequestContext(r), r.PathValue("event"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Event{}, false
	}
	return event, true
}

func (h handlers) requireHost(w http.ResponseWriter, r *http.Request) (webstorage.Event, webstorage.Profile, bool) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return webstorage.Event{}, webstorage.Profile{}, false
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return webstorage.Event{}, webstorage.Profile{}, false
	}
	host, err := h.service.isHost(httpx.RequestContext(r), event, profile.ID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Event{}, webstorage.Profile{}, false
	}
	if !host {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindForbidden, "only event hosts can do this"))
		return webstorage.Event{}, webstorage.Profile{}, false
	}
	return event, profile, true
}

func (h handlers) redirectToEvent(w http.ResponseWriter, r *http.Request, event webstorage.Event) {
	http.Redirect(w, r, routepath.Event(event.ID, event.Slug), http.StatusFound)
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Store.ListUpcomingEvents(httpx.RequestContext(r), time.Now().UTC(), upcomingListLimit)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Upcoming events",
		Fragment: templates.Events(templates.EventsData{Events: events}),
	})
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	// Stale slugs still resolve; canonicalize the URL.
	if slug := r.PathValue("slug"); slug != event.Slug {
		h.redirectToEvent(w, r, event)
		return
	}
	profileID := ""
	if profile, ok := h.deps.ResolveProfile(r); ok {
		profileID = profile.ID
	}
	detail, err := h.service.eventDetail(httpx.RequestContext(r), event, profileID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title: event.Name,
		Fragment: templates.EventDetail(templates.EventDetailData{
			Event:         detail.event,
			Team:          detail.team,
			Place:         detail.place,
			Attendees:     detail.attendees,
			Comments:      detail.comments,
			Photos:        detail.photos,
			Presentations: detail.presentations,
			Attending:     detail.attending,
			IsHost:        detail.isHost,
			AtCapacity:    detail.atCapacity,
		}),
	})
}

func (h handlers) handleFeed(w http.ResponseWriter, r *http.Request) {
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
	_, _ = w.Write([]byte(h.service.feed(httpx.RequestContext(r), event)))
}

func (h handlers) handleDetailsPage(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Add details for " + event.Name,
		Fragment: templates.EventDetailsForm(templates.EventDetailsFormData{Event: event}),
	})
}

func (h handlers) handleDetailsSubmit(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseNewEventDetailsForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Add details for " + event.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.EventDetailsForm(templates.EventDetailsFormData{Event: event, Errors: errs}),
		})
		return
	}
	event, err := h.service.applyDetails(httpx.RequestContext(r), event, form)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Settings for " + event.Name,
		Fragment: templates.EventSettings(templates.EventSettingsData{Event: event}),
	})
}

func (h handlers) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseEventSettingsForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid settings submission"))
		return
	}
	event, err := h.service.updateSettings(httpx.RequestContext(r), event, form)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleChangeHost(w http.ResponseWriter, r *http.Request) {
	event, profile, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseChangeEventHostForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a destination team is required"))
		return
	}
	event, err := h.service.changeHost(httpx.RequestContext(r), event, form.TeamID, profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleEditPage(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	team, _, err := h.deps.Store.GetTeam(httpx.RequestContext(r), event.TeamID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Edit " + event.Name,
		Fragment: templates.EventForm(templates.EventFormData{Event: event, Team: team}),
	})
}

func (h handlers) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTeamEventForm(r.PostForm, event.TZ)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Edit " + event.Name,
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.EventForm(templates.EventFormData{Event: event, Errors: errs}),
		})
		return
	}
	event, err := h.service.update(httpx.RequestContext(r), event, form)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleAttend(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.attend(httpx.RequestContext(r), event, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleLeave(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := h.service.leave(httpx.RequestContext(r), event, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseCancelEventForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "cancellation needs confirmation and a reason"))
		return
	}
	event, err := h.service.cancel(httpx.RequestContext(r), event, form.Reason)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseDeleteEventForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "deletion must be confirmed"))
		return
	}
	if err := h.deps.Store.DeleteEvent(httpx.RequestContext(r), event.ID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Team(event.TeamID), http.StatusFound)
}

func (h handlers) handleComment(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseEventCommentForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a comment body is required"))
		return
	}
	if err := h.service.comment(httpx.RequestContext(r), event, profile, form.Body); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseDeleteCommentForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "deletion must be confirmed"))
		return
	}
	if err := h.service.deleteComment(httpx.RequestContext(r), event, r.PathValue("comment"), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleAddPhoto(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseUploadEventPhotoForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a photo source is required"))
		return
	}
	if err := h.service.addPhoto(httpx.RequestContext(r), event, profile, form); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	event, ok := h.eventFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	if _, errs := forms.ParseRemoveEventPhotoForm(r.PostForm); errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "removal must be confirmed"))
		return
	}
	if err := h.service.removePhoto(httpx.RequestContext(r), event, r.PathValue("photo"), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleSchedulePresentation(w http.ResponseWriter, r *http.Request) {
	event, profile, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	ctx := httpx.RequestContext(r)
	talkIDs, err := h.talkChoices(r, profile)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	form, errs := forms.ParsePresentationForm(r.PostForm, talkIDs)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "pick one of the offered talks"))
		return
	}
	if err := h.service.schedulePresentation(ctx, event, form); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) talkChoices(r *http.Request, profile webstorage.Profile) ([]string, error) {
	ctx := httpx.RequestContext(r)
	speakers, err := h.deps.Store.ListSpeakersForProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	var talkIDs []string
	for _, speaker := range speakers {
		talks, err := h.deps.Store.ListTalksForSpeaker(ctx, speaker.ID)
		if err != nil {
			return nil, err
		}
		for _, talk := range talks {
			talkIDs = append(talkIDs, talk.ID)
		}
	}
	return talkIDs, nil
}

func (h handlers) handleInvite(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseEventInviteEmailForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid invite addresses"))
		return
	}
	if err := h.service.invite(httpx.RequestContext(r), event, form.Emails); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	event, _, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	ctx := httpx.RequestContext(r)
	members, err := h.deps.Store.ListMembers(ctx, event.TeamID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	memberIDs := make([]string, 0, len(members))
	for _, member := range members {
		memberIDs = append(memberIDs, member.ProfileID)
	}
	form, errs := forms.ParseEventInviteMemberForm(r.PostForm, memberIDs)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "pick one of the team's members"))
		return
	}
	if err := h.service.inviteMember(ctx, event, form.Member); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}

func (h handlers) handleContact(w http.ResponseWriter, r *http.Request) {
	event, profile, ok := h.requireHost(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseEventContactForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid contact submission"))
		return
	}
	if err := h.service.contact(httpx.RequestContext(r), event, form, profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	h.redirectToEvent(w, r, event)
}
