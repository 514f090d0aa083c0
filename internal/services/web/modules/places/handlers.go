package places

import (
	"net/http"
	"time"

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

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	places, err := h.deps.Store.ListPlaces(httpx.RequestContext(r))
	if err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Places",
		Fragment: templates.Places(templates.PlacesData{Places: places}),
	})
}

func (h handlers) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.deps.ResolveProfile(r); !ok {
		http.Redirect(w, r, routepath.Login, http.StatusFound)
		return
	}
	_ = pagerender.Write(w, r, h.deps, pagerender.Page{
		Title:    "Add a place",
		Fragment: templates.PlaceForm(templates.PlaceFormData{}),
	})
}

func (h handlers) handleCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.deps.ResolveProfile(r); !ok {
		http.Redirect(w, r, routepath.Login, http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		pagerender.WriteError(w, r, h.deps, apperrors.E(apperrors.KindInvalidInput, "invalid form submission"))
		return
	}
	form, errs := forms.ParsePlaceForm(r.PostForm)
	if errs.Any() {
		_ = pagerender.Write(w, r, h.deps, pagerender.Page{
			Title:      "Add a place",
			StatusCode: http.StatusUnprocessableEntity,
			Fragment:   templates.PlaceForm(templates.PlaceFormData{Errors: errs}),
		})
		return
	}
	place := webstorage.Place{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Address:   form.Address,
		CityID:    form.CityID,
		Longitude: form.Longitude,
		Latitude:  form.Latitude,
		PlaceURL:  form.PlaceURL,
		TZ:        form.TZ,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.deps.Store.CreatePlace(httpx.RequestContext(r), place); err != nil {
		pagerender.WriteError(w, r, h.deps, err)
		return
	}
	http.Redirect(w, r, routepath.Places, http.StatusFound)
}
