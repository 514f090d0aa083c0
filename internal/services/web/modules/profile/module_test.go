package profile

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
	"github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

func newTestHandler(t *testing.T, profile *webstorage.Profile) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	deps := module.Dependencies{
		Store:  store,
		Logger: log.New(io.Discard, "", 0),
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{}
		},
		ResolveProfile: func(*http.Request) (webstorage.Profile, bool) {
			if profile == nil {
				return webstorage.Profile{}, false
			}
			return *profile, true
		},
	}
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("mount module: %v", err)
	}
	return mount.Handler, store
}

func seedProfile(t *testing.T, store *sqlite.Store, confirmed bool) webstorage.Profile {
	t.Helper()
	profile := webstorage.Profile{
		ID:        "profile-1",
		Email:     "member@example.com",
		TZ:        "UTC",
		Confirmed: confirmed,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func TestProfilePageRequiresLogin(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Fatalf("expected redirect to login, got %q", got)
	}
}

func TestProfileEditUpdatesFields(t *testing.T) {
	var signedIn webstorage.Profile
	handler, store := newTestHandler(t, &signedIn)
	signedIn = seedProfile(t, store, true)

	form := url.Values{}
	form.Set("email", "Member@Example.com")
	form.Set("realname", "Pat Doe")
	form.Set("city", "city-1")
	form.Set("tz", "Europe/Lisbon")
	form.Set("send_notifications", "on")

	req := httptest.NewRequest(http.MethodPost, "/profile/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	got, ok, err := store.GetProfile(context.Background(), signedIn.ID)
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%v err=%v", ok, err)
	}
	if got.Email != "member@example.com" {
		t.Fatalf("expected lowercased email, got %q", got.Email)
	}
	if got.RealName != "Pat Doe" || got.TZ != "Europe/Lisbon" || !got.SendNotifications {
		t.Fatalf("unexpected profile after edit: %+v", got)
	}
}

func TestNotificationsToggleUpdatesOnlyThatField(t *testing.T) {
	var signedIn webstorage.Profile
	handler, store := newTestHandler(t, &signedIn)
	signedIn = seedProfile(t, store, true)

	form := url.Values{}
	form.Set("send_notifications", "on")
	req := httptest.NewRequest(http.MethodPost, "/profile/notifications/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	got, ok, err := store.GetProfile(context.Background(), signedIn.ID)
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%v err=%v", ok, err)
	}
	if !got.SendNotifications {
		t.Fatal("expected notifications enabled")
	}
	if got.Email != signedIn.Email || got.TZ != signedIn.TZ {
		t.Fatalf("expected other fields untouched: %+v", got)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/profile/notifications/", strings.NewReader(url.Values{}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	signedIn = got
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	got, _, err = store.GetProfile(context.Background(), signedIn.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.SendNotifications {
		t.Fatal("expected notifications disabled")
	}
}

func TestConfirmMarksProfileConfirmed(t *testing.T) {
	var signedIn webstorage.Profile
	handler, store := newTestHandler(t, &signedIn)
	signedIn = seedProfile(t, store, false)

	form := url.Values{}
	form.Set("realname", "Pat Doe")
	form.Set("city", "city-1")

	req := httptest.NewRequest(http.MethodPost, "/profile/confirm/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	got, ok, err := store.GetProfile(context.Background(), signedIn.ID)
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%v err=%v", ok, err)
	}
	if !got.Confirmed {
		t.Fatal("expected profile to be confirmed")
	}
}

func TestConfirmRequiresRealNameAndCity(t *testing.T) {
	var signedIn webstorage.Profile
	handler, store := newTestHandler(t, &signedIn)
	signedIn = seedProfile(t, store, false)

	req := httptest.NewRequest(http.MethodPost, "/profile/confirm/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestConfirmPageRedirectsWhenAlreadyConfirmed(t *testing.T) {
	var signedIn webstorage.Profile
	handler, store := newTestHandler(t, &signedIn)
	signedIn = seedProfile(t, store, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/confirm/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/profile/" {
		t.Fatalf("expected redirect to profile, got %q", got)
	}
}
