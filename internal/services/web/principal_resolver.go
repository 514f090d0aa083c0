package web

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gettogethercomm/gettogether/internal/services/web/auth"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// requestPrincipalState caches per-request principal lookups so page
// chrome and handlers share a single store round trip.
type requestPrincipalState struct {
	profileOnce sync.Once
	profile     webstorage.Profile
	signedIn    bool
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	auth *auth.Service
}

func newPrincipalResolver(service *auth.Service) principalResolver {
	return principalResolver{auth: service}
}

func (r principalResolver) resolveProfileUncached(request *http.Request) (webstorage.Profile, bool) {
	if request == nil || r.auth == nil {
		return webstorage.Profile{}, false
	}
	return r.auth.ResolveProfile(request)
}

func (r principalResolver) resolveProfile(request *http.Request) (webstorage.Profile, bool) {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.profileOnce.Do(func() {
			state.profile, state.signedIn = r.resolveProfileUncached(request)
		})
		return state.profile, state.signedIn
	}
	return r.resolveProfileUncached(request)
}

func (r principalResolver) resolveViewer(request *http.Request) module.Viewer {
	profile, ok := r.resolveProfile(request)
	if !ok {
		return module.Viewer{}
	}
	name := strings.TrimSpace(profile.RealName)
	if name == "" {
		name = profile.Email
	}
	return module.Viewer{
		DisplayName: name,
		AvatarURL:   profile.AvatarURL,
		ProfileURL:  routepath.Profile,
		SignedIn:    true,
	}
}

func (r principalResolver) authRequired() func(*http.Request) bool {
	return func(request *http.Request) bool {
		_, ok := r.resolveProfile(request)
		return ok
	}
}

func withRequestPrincipalState() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				next.ServeHTTP(w, r)
				return
			}
			state := &requestPrincipalState{}
			ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}
