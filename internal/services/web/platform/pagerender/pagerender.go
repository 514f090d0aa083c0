// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	webi18n "github.com/gettogethercomm/gettogether/internal/services/web/platform/i18n"
	"github.com/gettogethercomm/gettogether/internal/services/web/templates"
)

// Page describes a module page response.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

// Write renders a page fragment inside the shared layout.
func Write(w http.ResponseWriter, r *http.Request, deps module.Dependencies, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}

	_, lang := webi18n.ResolveLocalizer(w, r)
	viewer := module.Viewer{}
	if deps.ResolveViewer != nil {
		viewer = deps.ResolveViewer(r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	return templates.Layout(page.Title, lang, viewer, page.Fragment).Render(requestContext(r), w)
}

// WriteError renders the shared error page for an application error.
func WriteError(w http.ResponseWriter, r *http.Request, deps module.Dependencies, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	message := http.StatusText(statusCode)
	_ = Write(w, r, deps, Page{
		Title:      message,
		StatusCode: statusCode,
		Fragment:   templates.ErrorPage(templates.ErrorData{StatusCode: statusCode, Message: message}),
	})
}

// WriteNotFound renders the shared 404 page.
func WriteNotFound(w http.ResponseWriter, r *http.Request, deps module.Dependencies) {
	WriteError(w, r, deps, apperrors.E(apperrors.KindNotFound, "page not found"))
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
