package places

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

func newTestHandler(t *testing.T, signedIn bool) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "places.db"))
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
			if !signedIn {
				return webstorage.Profile{}, false
			}
			return webstorage.Profile{ID: "profile-1", Email: "p@example.com"}, true
		},
	}
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("mount module: %v", err)
	}
	return mount.Handler, store
}

func TestPlaceListRenders(t *testing.T) {
	handler, store := newTestHandler(t, false)
	place := webstorage.Place{
		ID:        "place-1",
		Name:      "Community Hall",
		CityID:    "city-1",
		TZ:        "UTC",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreatePlace(context.Background(), place); err != nil {
		t.Fatalf("seed place: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/places/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Community Hall") {
		t.Fatal("expected place name on the page")
	}
}

func TestCreatePlaceRequiresLogin(t *testing.T) {
	handler, _ := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/create-place/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
}

func TestCreatePlaceSubmitDefaultsTimezone(t *testing.T) {
	handler, store := newTestHandler(t, true)

	form := url.Values{}
	form.Set("name", "Library")
	form.Set("city", "city-1")

	req := httptest.NewRequest(http.MethodPost, "/create-place/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	places, err := store.ListPlaces(context.Background())
	if err != nil {
		t.Fatalf("list places: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	if places[0].TZ != "UTC" {
		t.Fatalf("expected UTC default timezone, got %q", places[0].TZ)
	}
}

func TestCreatePlaceSubmitValidates(t *testing.T) {
	handler, _ := newTestHandler(t, true)

	form := url.Values{}
	form.Set("name", "Library")

	req := httptest.NewRequest(http.MethodPost, "/create-place/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}
