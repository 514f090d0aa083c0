// Package events serves event pages, attendance and event lifecycle
// routes.
package events

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides event routes.
type Module struct{}

// New returns an events module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "events" }

// Mount wires the event route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps, service: newService(deps)}
	registerRoutes(mux, h)
	return module.Mount{Prefixes: []string{routepath.Events}, Handler: mux}, nil
}
