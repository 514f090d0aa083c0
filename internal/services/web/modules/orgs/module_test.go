package orgs

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
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "orgs.db"))
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
		Store:  store,
		Sender: f.sender,
		Logger: log.New(io.Discard, "", 0),
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

func (f *fixture) signIn(t *testing.T, id string) webstorage.Profile {
	t.Helper()
	profile := webstorage.Profile{
		ID:                id,
		Email:             id + "@example.com",
		TZ:                "UTC",
		SendNotifications: true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := f.store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	f.profile = &profile
	return profile
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seedOrg(t *testing.T, ownerID string) webstorage.Organization {
	t.Helper()
	org := webstorage.Organization{
		ID:        "org-1",
		Name:      "Gophers United",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrganization(context.Background(), org); err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return org
}

func (f *fixture) seedTeam(t *testing.T, id, ownerID string) webstorage.Team {
	t.Helper()
	team := webstorage.Team{
		ID:        id,
		Slug:      id,
		Name:      "Team " + id,
		TZ:        "UTC",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateTeam(context.Background(), team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return team
}

func TestCreateOrgAndDetailPage(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "owner")

	rec := f.postForm("/create-org/", url.Values{"name": {"Gophers United"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}

	location := rec.Header().Get("Location")

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, location, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Gophers United") {
		t.Fatal("expected organization name on the page")
	}
}

func TestCreateOrgRequiresLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.postForm("/create-org/", url.Values{"name": {"Gophers United"}})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestRequestToJoinRejectsForeignTeam(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "owner")
	f.seedOrg(t, "owner")
	f.seedTeam(t, "team-1", "owner")
	f.signIn(t, "random")

	rec := f.postForm("/org/org-1/request/", url.Values{"team": {"team-1"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOwnerAcceptsJoinRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "admin")
	f.seedTeam(t, "team-1", "admin")
	owner := f.signIn(t, "owner")
	org := f.seedOrg(t, owner.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     org.ID,
		TeamID:    "team-1",
		FromOrg:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(ctx, request); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec := f.postForm("/org/org-1/accept/req-1/", url.Values{"confirm": {"on"}})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	team, ok, err := f.store.GetTeam(ctx, "team-1")
	if err != nil || !ok {
		t.Fatalf("get team: ok=%v err=%v", ok, err)
	}
	if team.OrgID != org.ID {
		t.Fatalf("team org = %q, want %q", team.OrgID, org.ID)
	}
}

func TestJoinRequestAcceptNeedsOrgOwner(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "owner")
	f.seedOrg(t, "owner")
	admin := f.signIn(t, "admin")
	f.seedTeam(t, "team-1", admin.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     "org-1",
		TeamID:    "team-1",
		FromOrg:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(context.Background(), request); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec := f.postForm("/org/org-1/accept/req-1/", url.Values{"confirm": {"on"}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTeamAdminAcceptsInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "owner")
	f.seedOrg(t, "owner")
	admin := f.signIn(t, "admin")
	f.seedTeam(t, "team-1", admin.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     "org-1",
		TeamID:    "team-1",
		FromOrg:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(ctx, request); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec := f.postForm("/org/org-1/accept/req-1/", url.Values{"confirm": {"on"}})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	team, ok, err := f.store.GetTeam(ctx, "team-1")
	if err != nil || !ok {
		t.Fatalf("get team: ok=%v err=%v", ok, err)
	}
	if team.OrgID != "org-1" {
		t.Fatalf("team org = %q, want %q", team.OrgID, "org-1")
	}
}

func TestInviteTeamRequiresOrgOwner(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "owner")
	f.seedOrg(t, "owner")
	f.seedTeam(t, "team-1", "owner")
	f.signIn(t, "stranger")

	rec := f.postForm("/org/org-1/invite/", url.Values{"team": {"team-1"}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAcceptInviteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "owner")
	f.seedOrg(t, "owner")
	admin := f.signIn(t, "admin")
	f.seedTeam(t, "team-1", admin.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     "org-1",
		TeamID:    "team-1",
		FromOrg:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(context.Background(), request); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec := f.postForm("/org/org-1/accept/req-1/", url.Values{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
	team, _, err := f.store.GetTeam(context.Background(), "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if team.OrgID != "" {
		t.Fatal("expected team unaffiliated without confirmation")
	}
}

func TestOrgDetailListsPendingRequests(t *testing.T) {
	f := newFixture(t)
	owner := f.signIn(t, "owner")
	f.seedOrg(t, owner.ID)
	f.seedTeam(t, "team-1", owner.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     "org-1",
		TeamID:    "team-1",
		FromOrg:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(context.Background(), request); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/org/org-1/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Pending requests") {
		t.Fatal("expected pending requests on the page")
	}
	if !strings.Contains(rec.Body.String(), "/org/org-1/accept/req-1/") {
		t.Fatal("expected accept form for the pending request")
	}
}

func TestOrgContactMailsOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.signIn(t, "owner")
	f.seedOrg(t, owner.ID)
	sender := f.signIn(t, "member")

	rec := f.postForm("/org/org-1/contact/", url.Values{
		"to":   {"admins"},
		"body": {"Can we co-host an event?"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(f.sender.messages) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.sender.messages))
	}
	message := f.sender.messages[0]
	if message.To != owner.Email {
		t.Fatalf("unexpected recipient %q", message.To)
	}
	if !strings.Contains(message.Body, sender.Email) {
		t.Fatal("expected sender address in the body")
	}
}

func TestAcceptRejectsAlreadyAcceptedRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t, "admin")
	f.seedTeam(t, "team-1", "admin")
	owner := f.signIn(t, "owner")
	f.seedOrg(t, owner.ID)

	request := webstorage.OrgTeamRequest{
		ID:        "req-1",
		OrgID:     "org-1",
		TeamID:    "team-1",
		FromOrg:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.store.CreateOrgTeamRequest(ctx, request); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if err := f.store.AcceptOrgTeamRequest(ctx, "req-1", time.Now().UTC()); err != nil {
		t.Fatalf("accept request: %v", err)
	}

	rec := f.postForm("/org/org-1/accept/req-1/", url.Values{"confirm": {"on"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
