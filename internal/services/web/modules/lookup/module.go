// Package lookup serves the JSON lookup APIs used by location pickers
// and the searchable events feed.
package lookup

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides JSON lookup routes.
type Module struct{}

// New returns a lookup module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "lookup" }

// Mount wires the lookup route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps}
	registerRoutes(mux, h)
	return module.Mount{
		Prefixes: []string{"/api/", routepath.Searchables},
		Handler:  mux,
	}, nil
}
