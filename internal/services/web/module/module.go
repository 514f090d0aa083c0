// Package module defines the feature contract used by web composition.
package module

import (
	"log"
	"net/http"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/auth"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// Viewer contains user-facing chrome data for signed-in pages.
type Viewer struct {
	DisplayName string
	AvatarURL   string
	ProfileURL  string
	SignedIn    bool
}

// ResolveViewer resolves page chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveProfile resolves the authenticated profile for a request. The bool
// is false for anonymous requests.
type ResolveProfile func(*http.Request) (webstorage.Profile, bool)

// Dependencies carries the shared collaborators modules mount with.
type Dependencies struct {
	Store          webstorage.Store
	Auth           *auth.Service
	Sender         mail.Sender
	Logger         *log.Logger
	BaseURL        string
	ResolveViewer  ResolveViewer
	ResolveProfile ResolveProfile
}

// Mount describes a module route mount. A module may claim several
// top-level prefixes when its pages are spread across the site map.
type Mount struct {
	Prefixes []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
