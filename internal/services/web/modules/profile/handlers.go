package profile

import (
	"net/http"
	"strings"

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
	deps module.Dependencies
}

func (h handlers) requireProfile(w http.ResponseWriter, r *http.Request) (webstorage.Profile, bool) {
	profile, ok := h.deps.ResolveProfile(r)
	if !ok {
		http.Redirect(w, r, routepath.Login, http.StatusFound)
		return webstorage.Profile{}, false
	}
	return profile, true
}

func (h handlers) profileData(r *http.Request, profile webstorage.Profile, errs forms.Errors) (templates.ProfileData, error) {
	ctx := httpx.RequestContext(r)
	teams, err := h.deps.Store.ListTeamsForProfile(ctx, profile.ID)
	if err != nil {
		return templates.ProfileData{}, err
	}
	speakers, err := h.deps.Store.ListSpeakersForProfile(ctx, profile.ID)
	if err != nil {
		return templates.ProfileData{}, err
	}
	return templates.ProfileData{Profile: profile, Teams: teams, Speakers: speakers, Errors: errs}, nil
}

func (h handlers) handleEditPage(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	data, err := h.profileData(r, profile, nil)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Your profile",
		Fragment: templates.Profile(data),
	})
}

func (h handlers) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseProfileForm(r.PostForm)
	if errs.Any() {
		data, err := h.profileData(r, profile, errs)
		if err != nil {
			pagerender.WriteError(w, r, h.deps, err)
			return
		}
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Your profile",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.Profile(data),
		})
		return
	}
	profile.Email = strings.ToLower(form.Email)
	profile.RealName = form.RealName
	profile.WebURL = form.WebURL
	profile.CityID = form.CityID
	if form.TZ != "" {
		profile.TZ = form.TZ
	}
	profile.AvatarURL = form.AvatarURL
	profile.SendNotifications = form.SendNotifications
	profile.DoNotTrack = form.DoNotTrack
	if err := h.deps.Store.UpdateProfile(httpx.RequestContext(r), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Profile, http.StatusFound)
}

// handleNotifications toggles notification mail without touching the
// rest of the profile.
func (h handlers) handleNotifications(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseNotificationsForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid notifications submission"))
		return
	}
	profile.SendNotifications = form.SendNotifications
	if err := h.deps.Store.UpdateProfile(httpx.RequestContext(r), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Profile, http.StatusFound)
}

func (h handlers) handleConfirmPage(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if profile.Confirmed {
		http.Redirect(w, r, routepath.Profile, http.StatusFound)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Welcome",
		Fragment: templates.ConfirmProfile(templates.ProfileData{Profile: profile}),
	})
}

func (h handlers) handleConfirmSubmit(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseConfirmProfileForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Welcome",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.ConfirmProfile(templates.ProfileData{Profile: profile, Errors: errs}),
		})
		return
	}
	profile.RealName = form.RealName
	profile.CityID = form.CityID
	profile.AvatarURL = form.AvatarURL
	profile.Confirmed = true
	if err := h.deps.Store.UpdateProfile(httpx.RequestContext(r), profile); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Root, http.StatusFound)
}
