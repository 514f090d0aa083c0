// Package places serves venue listing and creation routes.
package places

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides venue routes.
type Module struct{}

// New returns a places module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "places" }

// Mount wires the venue route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps}
	registerRoutes(mux, h)
	return module.Mount{
		Prefixes: []string{routepath.Places, routepath.CreatePlace},
		Handler:  mux,
	}, nil
}
