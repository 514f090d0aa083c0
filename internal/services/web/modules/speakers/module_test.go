package speakers

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
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "speakers.db"))
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

func seedSpeaker(t *testing.T, store *sqlite.Store, profileID string) webstorage.Speaker {
	t.Helper()
	ctx := context.Background()
	profile := webstorage.Profile{ID: profileID, Email: profileID + "@example.com", TZ: "UTC", CreatedAt: time.Now().UTC()}
	if err := store.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	speaker := webstorage.Speaker{ID: "speaker-1", ProfileID: profileID, Title: "Gopher at Large"}
	if err := store.PutSpeaker(ctx, speaker); err != nil {
		t.Fatalf("seed speaker: %v", err)
	}
	return speaker
}

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSpeakerPageRendersTalks(t *testing.T) {
	handler, store := newTestHandler(t, nil)
	speaker := seedSpeaker(t, store, "profile-1")
	talk := webstorage.Talk{ID: "talk-1", SpeakerID: speaker.ID, Title: "Generics in Anger"}
	if err := store.PutTalk(context.Background(), talk); err != nil {
		t.Fatalf("seed talk: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/speaker/"+speaker.ID+"/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Gopher at Large") || !strings.Contains(body, "Generics in Anger") {
		t.Fatal("expected speaker and talk on the page")
	}
}

func TestAddTalkRequiresOwnership(t *testing.T) {
	stranger := webstorage.Profile{ID: "profile-2", Email: "other@example.com"}
	handler, store := newTestHandler(t, &stranger)
	speaker := seedSpeaker(t, store, "profile-1")

	rec := postForm(handler, "/speaker/"+speaker.ID+"/talks/", url.Values{"title": {"Sneaky Talk"}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestAddTalkStoresTalk(t *testing.T) {
	owner := webstorage.Profile{ID: "profile-1", Email: "owner@example.com"}
	handler, store := newTestHandler(t, &owner)
	speaker := seedSpeaker(t, store, owner.ID)

	rec := postForm(handler, "/speaker/"+speaker.ID+"/talks/", url.Values{
		"title":    {"Profiling Go Services"},
		"abstract": {"pprof in production"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	talks, err := store.ListTalksForSpeaker(context.Background(), speaker.ID)
	if err != nil {
		t.Fatalf("list talks: %v", err)
	}
	if len(talks) != 1 || talks[0].Title != "Profiling Go Services" {
		t.Fatalf("unexpected talks %+v", talks)
	}
}

func TestCreateSpeakerRequiresTitle(t *testing.T) {
	owner := webstorage.Profile{ID: "profile-1", Email: "owner@example.com"}
	handler, _ := newTestHandler(t, &owner)

	rec := postForm(handler, "/speaker/new/", url.Values{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
