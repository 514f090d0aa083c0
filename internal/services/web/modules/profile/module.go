// Package profile serves account editing and first-login confirmation
// routes.
package profile

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides profile routes.
type Module struct{}

// New returns a profile module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Mount wires the profile route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps}
	registerRoutes(mux, h)
	return module.Mount{Prefixes: []string{routepath.Profile}, Handler: mux}, nil
}
