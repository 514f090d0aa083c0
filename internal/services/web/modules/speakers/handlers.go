package speakers

import (
	"net/http"

	"github.com/google/uuid"

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

func (h handlers) speakerFromPath(w http.ResponseWriter, r *http.Request) (webstorage.Speaker, bool) {
	speaker, ok, err := h.deps.Store.GetSpeaker(httpx.RequestContext(r), r.PathValue("speaker"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return webstorage.Speaker{}, false
	}
	if !ok {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindNotFound, "speaker not found"))
		return webstorage.Speaker{}, false
	}
	return speaker, true
}

func (h handlers) requireOwnSpeaker(w http.ResponseWriter, r *http.Request) (webstorage.Speaker, bool) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return webstorage.Speaker{}, false
	}
	speaker, ok := h.speakerFromPath(w, r)
	if !ok {
		return webstorage.Speaker{}, false
	}
	if speaker.ProfileID != profile.ID {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindForbidden, "this speaker profile belongs to someone else"))
		return webstorage.Speaker{}, false
	}
	return speaker, true
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	speaker, ok := h.speakerFromPath(w, r)
	if !ok {
		return
	}
	talks, err := h.deps.Store.ListTalksForSpeaker(httpx.RequestContext(r), speaker.ID)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    speaker.Title,
		Fragment: templates.Speaker(templates.SpeakerData{Speaker: speaker, Talks: talks}),
	})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseSpeakerForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a speaker title is required"))
		return
	}
	speaker := webstorage.Speaker{
		ID:         uuid.NewString(),
		ProfileID:  profile.ID,
		AvatarURL:  form.AvatarURL,
		Title:      form.Title,
		Bio:        form.Bio,
		Categories: form.Categories,
	}
	if err := h.deps.Store.PutSpeaker(httpx.RequestContext(r), speaker); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Speaker(speaker.ID), http.StatusFound)
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	speaker, ok := h.requireOwnSpeaker(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseSpeakerForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a speaker title is required"))
		return
	}
	speaker.AvatarURL = form.AvatarURL
	speaker.Title = form.Title
	speaker.Bio = form.Bio
	speaker.Categories = form.Categories
	if err := h.deps.Store.PutSpeaker(httpx.RequestContext(r), speaker); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Speaker(speaker.ID), http.StatusFound)
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	speaker, ok := h.requireOwnSpeaker(w, r)
	if !ok {
		return
	}
	if err := h.deps.Store.DeleteSpeaker(httpx.RequestContext(r), speaker.ID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Profile, http.StatusFound)
}

func (h handlers) handleAddTalk(w http.ResponseWriter, r *http.Request) {
	speaker, ok := h.requireOwnSpeaker(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParseTalkForm(r.PostForm)
	if errs.Any() {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "a talk title is required"))
		return
	}
	talk := webstorage.Talk{
		ID:        uuid.NewString(),
		SpeakerID: speaker.ID,
		Title:     form.Title,
		Abstract:  form.Abstract,
		TalkType:  form.TalkType,
		WebURL:    form.WebURL,
		Category:  form.Category,
	}
	if err := h.deps.Store.PutTalk(httpx.RequestContext(r), talk); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Speaker(speaker.ID), http.StatusFound)
}

func (h handlers) handleDeleteTalk(w http.ResponseWriter, r *http.Request) {
	speaker, ok := h.requireOwnSpeaker(w, r)
	if !ok {
		return
	}
	ctx := httpx.RequestContext(r)
	talk, ok2, err := h.deps.Store.GetTalk(ctx, r.PathValue("talk"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	if !ok2 || talk.SpeakerID != speaker.ID {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindNotFound, "talk not found"))
		return
	}
	if err := h.deps.Store.DeleteTalk(ctx, talk.ID); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Speaker(speaker.ID), http.StatusFound)
}
