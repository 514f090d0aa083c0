// Package orgs serves organization directory and team affiliation
// routes.
package orgs

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides organization routes.
type Module struct{}

// New returns an orgs module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "orgs" }

// Mount wires the organization route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps, service: newService(deps)}
	registerRoutes(mux, h)
	return module.Mount{
		Prefixes: []string{routepath.Orgs, routepath.OrgPrefix, routepath.CreateOrg},
		Handler:  mux,
	}, nil
}
