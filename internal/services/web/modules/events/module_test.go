package events

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

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
	"github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

type recordingSender struct {
	messages []mail.Message
}

func (s *recordingSender) Send(_ context.Context, message mail.Message) error {
	s.messages = append(s.messages, message)
	return nil
}

type fixture struct {
	handler http.Handler
	store   *sqlite.Store
	sender  *recordingSender
	profile *webstorage.Profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	f := &fixture{store: store, sender: &recordingSender{}}
	deps := module.Dependencies{
		Store:   store,
		Sender:  f.sender,
		Logger:  log.New(io.Discard, "", 0),
		BaseURL: "http://gt.example.test",
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{}
		},
		ResolveProfile: func(*http.Request) (webstorage.Profile, bool) {
			if f.profile == nil {
				return webstorage.Profile{}, false
			}
			return *f.profile, true
		},
	}
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("mount module: %v", err)
	}
	f.handler = mount.Handler
	return f
}

func (f *fixture) signIn(t *testing.T, email string) webstorage.Profile {
	t.Helper()
	profile := webstorage.Profile{
		ID:                "profile-" + email,
		Email:             email,
		TZ:                "UTC",
		SendNotifications: true,
		Confirmed:         true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := f.store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	f.profile = &profile
	return profile
}

func (f *fixture) seedEvent(t *testing.T, event webstorage.Event) webstorage.Event {
	t.Helper()
	team := webstorage.Team{
		ID:        "team-1",
		Slug:      "go-users",
		Name:      "Go Users Group",
		TZ:        "UTC",
		CreatedAt: time.Now().UTC(),
	}
	if _, ok, _ := f.store.GetTeam(context.Background(), team.ID); !ok {
		if err := f.store.CreateTeam(context.Background(), team); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}
	if event.ID == "" {
		event.ID = "event-1"
	}
	event.TeamID = team.ID
	if event.TZ == "" {
		event.TZ = "UTC"
	}
	if event.StartTime.IsZero() {
		event.StartTime = time.Now().Add(24 * time.Hour).UTC()
		event.EndTime = event.StartTime.Add(2 * time.Hour)
	}
	event.CreatedAt = time.Now().UTC()
	if err := f.store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEventDetailPageRenders(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, webstorage.Event{Slug: "monthly-meetup", Name: "Monthly Meetup"})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/"+event.ID+"/monthly-meetup/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Monthly Meetup") {
		t.Fatal("expected event name on the page")
	}
}

func TestEventDetailStaleSlugRedirects(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, webstorage.Event{Slug: "monthly-meetup", Name: "Monthly Meetup"})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/"+event.ID+"/old-name/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/events/"+event.ID+"/monthly-meetup/" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestAttendAddsAttendee(t *testing.T) {
	f := newFixture(t)
	profile := f.signIn(t, "guest@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup"})

	rec := postForm(f.handler, "/events/"+event.ID+"/attend/", url.Values{})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	attendees, err := f.store.ListAttendees(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("list attendees: %v", err)
	}
	if len(attendees) != 1 || attendees[0].ProfileID != profile.ID {
		t.Fatalf("expected one attendee for %q, got %+v", profile.ID, attendees)
	}
}

func TestEventDetailsSetPlaceTimezone(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})
	place := webstorage.Place{
		ID:        "place-1",
		Name:      "Rooftop Bar",
		TZ:        "Europe/Lisbon",
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreatePlace(context.Background(), place); err != nil {
		t.Fatalf("seed place: %v", err)
	}

	form := url.Values{}
	form.Set("place", place.ID)
	form.Set("summary", "Drinks and lightning talks.")
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/add-details/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, ok, err := f.store.GetEvent(context.Background(), event.ID)
	if err != nil || !ok {
		t.Fatalf("get event: ok=%v err=%v", ok, err)
	}
	if updated.PlaceID != place.ID {
		t.Fatalf("expected place %q, got %q", place.ID, updated.PlaceID)
	}
	if updated.TZ != "Europe/Lisbon" {
		t.Fatalf("expected timezone from place, got %q", updated.TZ)
	}
}

func TestEventEditClearingPlaceRestoresTeamTimezone(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{
		Slug:      "meetup",
		Name:      "Meetup",
		CreatedBy: host.ID,
		PlaceID:   "place-1",
		TZ:        "Europe/Lisbon",
	})

	form := url.Values{}
	form.Set("name", "Meetup")
	form.Set("start_time_0", "2026-10-01")
	form.Set("start_time_1", "07:00 PM")
	form.Set("end_time_0", "2026-10-01")
	form.Set("end_time_1", "09:00 PM")
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/edit/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, ok, err := f.store.GetEvent(context.Background(), event.ID)
	if err != nil || !ok {
		t.Fatalf("get event: ok=%v err=%v", ok, err)
	}
	if updated.PlaceID != "" {
		t.Fatalf("expected place cleared, got %q", updated.PlaceID)
	}
	if updated.TZ != "UTC" {
		t.Fatalf("expected team timezone, got %q", updated.TZ)
	}
}

func TestEventSettingsUpdateFlags(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})

	form := url.Values{}
	form.Set("attendee_limit", "25")
	form.Set("enable_comments", "on")
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/settings/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _, err := f.store.GetEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if updated.AttendeeLimit != 25 || !updated.EnableComments || updated.EnablePhotos {
		t.Fatalf("settings not applied: %+v", updated)
	}
}

func TestChangeHostMovesEventToOwnedTeam(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})
	destination := webstorage.Team{
		ID:        "team-2",
		Slug:      "berlin-gophers",
		Name:      "Berlin Gophers",
		TZ:        "Europe/Berlin",
		OwnerID:   host.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateTeam(context.Background(), destination); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	form := url.Values{}
	form.Set("team", destination.ID)
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/change-host/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	updated, _, err := f.store.GetEvent(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if updated.TeamID != destination.ID {
		t.Fatalf("expected team %q, got %q", destination.ID, updated.TeamID)
	}
	if updated.TZ != "Europe/Berlin" {
		t.Fatalf("expected destination timezone, got %q", updated.TZ)
	}
}

func TestChangeHostRejectsForeignTeam(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})
	destination := webstorage.Team{
		ID:        "team-2",
		Slug:      "berlin-gophers",
		Name:      "Berlin Gophers",
		TZ:        "Europe/Berlin",
		OwnerID:   "someone-else",
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateTeam(context.Background(), destination); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	form := url.Values{}
	form.Set("team", destination.ID)
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/change-host/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestInviteMemberSendsMail(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})
	member := webstorage.Profile{
		ID:                "profile-member",
		Email:             "member@example.com",
		TZ:                "UTC",
		SendNotifications: true,
		Confirmed:         true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := f.store.CreateProfile(context.Background(), member); err != nil {
		t.Fatalf("seed member profile: %v", err)
	}
	if err := f.store.PutMember(context.Background(), webstorage.Member{
		TeamID:    event.TeamID,
		ProfileID: member.ID,
		JoinedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	form := url.Values{}
	form.Set("member", member.ID)
	req := httptest.NewRequest(http.MethodPost, "/events/"+event.ID+"/invite-member/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.sender.messages) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.sender.messages))
	}
	if f.sender.messages[0].To != member.Email {
		t.Fatalf("unexpected recipient %q", f.sender.messages[0].To)
	}
}

func TestAttendRejectsFullEvent(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "late@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", AttendeeLimit: 1})

	other := webstorage.Attendee{
		EventID:   event.ID,
		ProfileID: "someone-else",
		Status:    webstorage.AttendeeStatusYes,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.PutAttendee(context.Background(), other); err != nil {
		t.Fatalf("seed attendee: %v", err)
	}

	rec := postForm(f.handler, "/events/"+event.ID+"/attend/", url.Values{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAttendCanceledEventRejected(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "guest@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", Status: webstorage.EventStatusCanceled})

	rec := postForm(f.handler, "/events/"+event.ID+"/attend/", url.Values{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCancelRequiresReasonAndConfirmation(t *testing.T) {
	f := newFixture(t)
	profile := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: profile.ID})

	rec := postForm(f.handler, "/events/"+event.ID+"/cancel/", url.Values{"confirm": {"on"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without reason, got %d", rec.Code)
	}

	form := url.Values{"confirm": {"on"}, "reason": {"venue flooded"}}
	rec = postForm(f.handler, "/events/"+event.ID+"/cancel/", form)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	got, ok, err := f.store.GetEvent(context.Background(), event.ID)
	if err != nil || !ok {
		t.Fatalf("get event: ok=%v err=%v", ok, err)
	}
	if got.Status != webstorage.EventStatusCanceled || got.CancelReason != "venue flooded" {
		t.Fatalf("expected canceled event with reason, got %+v", got)
	}
}

func TestCancelByNonHostForbidden(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "random@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: "someone-else"})

	form := url.Values{"confirm": {"on"}, "reason": {"no"}}
	rec := postForm(f.handler, "/events/"+event.ID+"/cancel/", form)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestCommentRequiresEnabledComments(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "talker@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup"})

	rec := postForm(f.handler, "/events/"+event.ID+"/comments/", url.Values{"body": {"hello"}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestCommentPostedAndListed(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "talker@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", EnableComments: true})

	rec := postForm(f.handler, "/events/"+event.ID+"/comments/", url.Values{"body": {"see you there"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	comments, err := f.store.ListEventComments(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Body != "see you there" {
		t.Fatalf("unexpected comments %+v", comments)
	}
}

func TestInviteSendsMailPerAddress(t *testing.T) {
	f := newFixture(t)
	host := f.signIn(t, "host@example.com")
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup", CreatedBy: host.ID})

	form := url.Values{"emails": {"one@example.com, two@example.com"}}
	rec := postForm(f.handler, "/events/"+event.ID+"/invite/", form)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.sender.messages) != 2 {
		t.Fatalf("expected 2 invite mails, got %d", len(f.sender.messages))
	}
	invites, err := f.store.ListEventInvites(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("list invites: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("expected 2 invites, got %d", len(invites))
	}
}

func TestEventFeedServesCalendar(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup"})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/"+event.ID+"/meetup/ics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "BEGIN:VEVENT") || !strings.Contains(body, "Meetup") {
		t.Fatalf("expected calendar body, got %q", body)
	}
}

func TestAttendRequiresLogin(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, webstorage.Event{Slug: "meetup", Name: "Meetup"})

	rec := postForm(f.handler, "/events/"+event.ID+"/attend/", url.Values{})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Fatalf("expected redirect to login, got %q", got)
	}
}
