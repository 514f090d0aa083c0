package modules

import (
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/events"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/lookup"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/orgs"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/places"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/profile"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/public"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/speakers"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules/teams"
)

// DefaultPublicModules returns the modules whose pages are reachable
// without a session. Handlers that mutate state still gate on a signed-in
// profile individually.
func DefaultPublicModules() []Module {
	return []Module{
		public.New(),
		teams.New(),
		events.New(),
		places.New(),
		lookup.New(),
		speakers.New(),
		orgs.New(),
	}
}

// DefaultProtectedModules returns the modules that require a session for
// every route they serve.
func DefaultProtectedModules() []Module {
	return []Module{
		profile.New(),
	}
}
