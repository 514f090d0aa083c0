// Package speakers serves speaker profile and talk routes.
package speakers

import (
	"net/http"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

// Module provides speaker routes.
type Module struct{}

// New returns a speakers module.
func New() Module { return Module{} }

// ID returns a stable module identifier.
func (Module) ID() string { return "speakers" }

// Mount wires the speaker route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{deps: deps}
	registerRoutes(mux, h)
	return module.Mount{Prefixes: []string{routepath.Speakers}, Handler: mux}, nil
}
