// Package teams serves team directory, detail, membership and team
// event creation routes.
package teams

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides team routes.
type Module struct{}

// New returns a teams module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "teams" }

// Mount wires the team route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps, service: newService(deps)}
	registerRoutes(mux, h)
	return module.Mount{
		Prefixes: []string{
			routepath.Teams,
			routepath.TeamPrefix,
			routepath.CreateTeam,
			routepath.AboutPrefix,
			routepath.SearchTeams,
		},
		Handler: mux,
	}, nil
}
