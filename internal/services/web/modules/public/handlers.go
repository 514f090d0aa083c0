package public

import (
	"net/http"
	"strings"
	"time"

	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/pagerender"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/requestmeta"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/sessioncookie"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	"github.com/gettogethercomm/gettogether/internal/services/web/templates"
)

const homeEventLimit = 10

type handlers struct {
	deps module.Dependencies
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := httpx.RequestContext(r)
	events, err := h.deps.Store.ListUpcomingEvents(ctx, time.Now().UTC(), homeEventLimit)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	teams, err := h.deps.Store.ListTeams(ctx)
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Get Together",
		Fragment: templates.Home(templates.HomeData{UpcomingEvents: events, Teams: teams}),
	})
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Sign in",
		Fragment: templates.Login(templates.LoginData{}),
	})
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	if email == "" {
		errs := forms.Errors{}
		errs.Add("email", "this field is required")
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Sign in",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.Login(templates.LoginData{Errors: errs}),
		})
		return
	}
	if err := h.deps.Auth.SendLoginLink(httpx.RequestContext(r), email); err != nil {
		h.deps.Logger.Printf("send login link: %v", err)
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Sign in",
		Fragment: templates.Login(templates.LoginData{Sent: true}),
	})
}

func (h handlers) handleMagic(w http.ResponseWriter, r *http.Request) {
	profile, sessionID, err := h.deps.Auth.CompleteLogin(httpx.RequestContext(r), r.URL.Query().Get("token"))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	sessioncookie.Write(w, r, sessionID)
	if !profile.Confirmed {
		http.Redirect(w, r, routepath.ConfirmProfile, http.StatusFound)
		return
	}
	http.Redirect(w, r, routepath.Root, http.StatusFound)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requestmeta.HasSameOriginProof(r) {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindForbidden, "cross-origin logout rejected"))
		return
	}
	if err := h.deps.Auth.Logout(httpx.RequestContext(r), r); err != nil {
		h.deps.Logger.Printf("logout: %v", err)
	}
	sessioncookie.Clear(w, r)
	http.Redirect(w, r, routepath.Root, http.StatusFound)
}

type passkeyBeginResponse struct {
	Ceremony string `json:"ceremony"`
	Options  any    `json:"options"`
}

func (h handlers) handlePasskeyLoginBegin(w http.ResponseWriter, r *http.Request) {
	assertion, ceremonyID, err := h.deps.Auth.BeginPasskeyLogin(httpx.RequestContext(r))
	if err != nil {
		_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), "failed to start passkey login")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, passkeyBeginResponse{Ceremony: ceremonyID, Options: assertion})
}

func (h handlers) handlePasskeyLoginFinish(w http.ResponseWriter, r *http.Request) {
	ceremonyID := strings.TrimSpace(r.URL.Query().Get("ceremony"))
	if ceremonyID == "" {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "ceremony is required")
		return
	}
	profile, sessionID, err := h.deps.Auth.FinishPasskeyLogin(httpx.RequestContext(r), ceremonyID, r)
	if err != nil {
		_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), "failed to finish passkey login")
		return
	}
	sessioncookie.Write(w, r, sessionID)
	next := routepath.Root
	if !profile.Confirmed {
		next = routepath.ConfirmProfile
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"next": next})
}

func (h handlers) handlePasskeyRegisterBegin(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.deps.ResolveProfile(r)
	if !ok {
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "sign in to register a passkey")
		return
	}
	creation, ceremonyID, err := h.deps.Auth.BeginPasskeyRegistration(httpx.RequestContext(r), profile)
	if err != nil {
		_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), "failed to start passkey registration")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, passkeyBeginResponse{Ceremony: ceremonyID, Options: creation})
}

func (h handlers) handlePasskeyRegisterFinish(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.deps.ResolveProfile(r)
	if !ok {
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "sign in to register a passkey")
		return
	}
	ceremonyID := strings.TrimSpace(r.URL.Query().Get("ceremony"))
	if ceremonyID == "" {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "ceremony is required")
		return
	}
	if err := h.deps.Auth.FinishPasskeyRegistration(httpx.RequestContext(r), profile, ceremonyID, r); err != nil {
		_ = httpx.WriteJSONError(w, apperrors.HTTPStatus(err), "failed to finish passkey registration")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	pagerender.WriteNotFound(w, r, h.deps)
}
