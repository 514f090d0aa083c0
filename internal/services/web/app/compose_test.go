package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
)

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefixes: []string{"/one/"}, Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})}},
			stubModule{id: "two", mount: module.Mount{Prefixes: []string{"/one/"}, Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate prefix error")
	}
}

func TestComposeMountsEveryClaimedPrefix(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "teams", mount: module.Mount{Prefixes: []string{"/teams/", "/team/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	for _, path := range []string{"/teams/", "/team/abc/"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusNoContent)
		}
	}
}

func TestComposeRejectsNilPublicModule(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		PublicModules: []module.Module{nil},
	})
	if err == nil {
		t.Fatalf("expected nil public module error")
	}
}

func TestComposeWrapsProtectedModulesWithAuth(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return false },
		ProtectedModules: []module.Module{
			stubModule{id: "profile", mount: module.Mount{Prefixes: []string{"/profile/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/login" {
		t.Fatalf("Location = %q, want %q", got, "/login")
	}
}

func TestComposeMountsPublicModulesWithoutAuth(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return false },
		PublicModules: []module.Module{
			stubModule{id: "places", mount: module.Mount{Prefixes: []string{"/places/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/places/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeRejectsCookieMutationWithoutSameOriginProof(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		PublicModules: []module.Module{
			stubModule{id: "teams", mount: module.Mount{Prefixes: []string{"/team/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/team/team-1/join/", nil)
	req.AddCookie(&http.Cookie{Name: "gt_session", Value: "s-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestComposeAllowsCookieMutationWithSameOriginHeader(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		PublicModules: []module.Module{
			stubModule{id: "teams", mount: module.Mount{Prefixes: []string{"/team/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "https://gettogether.example.test/team/team-1/join/", nil)
	req.Host = "gettogether.example.test"
	req.Header.Set("Origin", "https://gettogether.example.test")
	req.AddCookie(&http.Cookie{Name: "gt_session", Value: "s-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeAllowsAnonymousMutationWithoutProof(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "public", mount: module.Mount{Prefixes: []string{"/"}, Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeRejectsModuleWithoutPrefixes(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		PublicModules: []module.Module{
			stubModule{id: "bad", mount: module.Mount{Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})}},
		},
	})
	if err == nil {
		t.Fatalf("expected missing prefix error")
	}
}

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (s stubModule) ID() string {
	return s.id
}

func (s stubModule) Mount(module.Dependencies) (module.Mount, error) {
	return s.mount, s.err
}
