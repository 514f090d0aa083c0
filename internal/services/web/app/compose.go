package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/requestmeta"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/sessioncookie"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
)

const defaultLoginPath = routepath.Login

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	Dependencies     module.Dependencies
	AuthRequired     func(*http.Request) bool
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Composer wires root mux mounts and route-group auth behavior.
type Composer struct{}

// Compose builds a root HTTP handler from module groups.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	seen := make(map[string]string)
	csrf := requireCookieSessionSameOrigin()

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountModule(root, feature, input.Dependencies, seen, csrf); err != nil {
			return nil, err
		}
	}

	protectedWrap := wrapProtectedModule(input.AuthRequired)
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountModule(root, feature, input.Dependencies, seen, protectedWrap); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// mountModule registers every prefix a module claims. A module may own
// several top-level prefixes, but no prefix may be claimed twice.
func mountModule(
	root *http.ServeMux,
	feature module.Module,
	deps module.Dependencies,
	seen map[string]string,
	wrap func(http.Handler) http.Handler,
) error {
	mount, err := feature.Mount(deps)
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Prefixes) == 0 {
		return fmt.Errorf("mount module %q: at least one prefix is required", feature.ID())
	}
	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	for _, raw := range mount.Prefixes {
		prefix := normalizePrefix(raw)
		if prefix == "" {
			return fmt.Errorf("mount module %q: prefix is required", feature.ID())
		}
		if previous, ok := seen[prefix]; ok {
			return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
		}
		seen[prefix] = feature.ID()
		root.Handle(prefix, handler)
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func requireAuth(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				http.Redirect(w, r, defaultLoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wrapProtectedModule(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	authWrap := requireAuth(authenticated)
	csrfWrap := requireCookieSessionSameOrigin()
	return func(next http.Handler) http.Handler {
		return authWrap(csrfWrap(next))
	}
}

// requireCookieSessionSameOrigin rejects cookie-authenticated mutations
// that lack same-origin proof. Requests without a session cookie pass
// through untouched so anonymous form posts keep working.
func requireCookieSessionSameOrigin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
