package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
	"github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

func newTestHandler(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "lookup.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	deps := module.Dependencies{
		Store:   store,
		Logger:  log.New(io.Discard, "", 0),
		BaseURL: "http://gt.example.test",
	}
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("mount module: %v", err)
	}
	return mount.Handler, store
}

func TestCityLookupMatchesPrefix(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	for i, name := range []string{"Lisbon", "Liverpool", "Porto"} {
		city := webstorage.City{ID: fmt.Sprintf("city-%d", i), Name: name, SPRID: "spr-1"}
		if err := store.PutCity(ctx, city); err != nil {
			t.Fatalf("seed city: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities/?q=li", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var results []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
}

func TestCityLookupClampsResults(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	for i := 0; i < 30; i++ {
		city := webstorage.City{ID: fmt.Sprintf("city-%d", i), Name: fmt.Sprintf("Springfield %02d", i), SPRID: "spr-1"}
		if err := store.PutCity(ctx, city); err != nil {
			t.Fatalf("seed city: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities/?q=spring&limit=100", nil))

	var results []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("expected clamp at 20 results, got %d", len(results))
	}
}

func TestSearchablesListsUpcomingEvents(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	team := webstorage.Team{ID: "team-1", Slug: "go", Name: "Go", TZ: "UTC", CreatedAt: time.Now().UTC()}
	if err := store.CreateTeam(ctx, team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	event := webstorage.Event{
		ID:        "event-1",
		TeamID:    team.ID,
		Slug:      "meetup",
		Name:      "Meetup",
		StartTime: time.Now().Add(48 * time.Hour).UTC(),
		EndTime:   time.Now().Add(50 * time.Hour).UTC(),
		TZ:        "UTC",
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/searchables/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var results []map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 searchable event, got %d", len(results))
	}
	if results[0]["event_url"] != "http://gt.example.test/events/event-1/meetup/" {
		t.Fatalf("unexpected event url %q", results[0]["event_url"])
	}
}

func TestLookupRejectsWildcardInjection(t *testing.T) {
	handler, store := newTestHandler(t)
	ctx := context.Background()
	if err := store.PutCity(ctx, webstorage.City{ID: "city-1", Name: "Lisbon", SPRID: "spr-1"}); err != nil {
		t.Fatalf("seed city: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities/?q=%25", nil))

	var results []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no matches for a literal %%, got %d", len(results))
	}
}
