package forms

import (
	"net/url"
	"testing"
	"time"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

func TestParseNewEventFormConvertsLocalTimeToUTC(t *testing.T) {
	values := url.Values{
		"name":         {"Launch Party"},
		"start_time_0": {"2026-09-12"},
		"start_time_1": {"07:00 PM"},
		"end_time_0":   {"2026-09-12"},
		"end_time_1":   {"09:30 PM"},
	}

	form, errs := ParseNewEventForm(values, "America/Sao_Paulo")
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// Sao Paulo is UTC-3 on that date.
	wantStart := time.Date(2026, 9, 12, 22, 0, 0, 0, time.UTC)
	if !form.StartTime.Equal(wantStart) {
		t.Fatalf("start time = %s, want %s", form.StartTime, wantStart)
	}
	if form.StartTime.Location() != time.UTC {
		t.Fatalf("start time location = %v, want UTC", form.StartTime.Location())
	}
	wantEnd := time.Date(2026, 9, 13, 0, 30, 0, 0, time.UTC)
	if !form.EndTime.Equal(wantEnd) {
		t.Fatalf("end time = %s, want %s", form.EndTime, wantEnd)
	}
}

func TestParseNewEventFormRejectsMissingTime(t *testing.T) {
	values := url.Values{
		"name":         {"Launch Party"},
		"start_time_0": {"2026-09-12"},
	}

	_, errs := ParseNewEventForm(values, "UTC")
	if errs.Field("start_time") == nil {
		t.Fatal("expected start_time error")
	}
	if errs.Field("end_time") == nil {
		t.Fatal("expected end_time error")
	}
}

func TestParseNewEventFormRejectsBadDate(t *testing.T) {
	values := url.Values{
		"name":         {"Launch Party"},
		"start_time_0": {"not-a-date"},
		"start_time_1": {"07:00 PM"},
		"end_time_0":   {"2026-09-12"},
		"end_time_1":   {"09:30 PM"},
	}

	_, errs := ParseNewEventForm(values, "UTC")
	if errs.Field("start_time") == nil {
		t.Fatal("expected start_time error")
	}
}

func TestParseTeamInviteFormSplitsAndValidates(t *testing.T) {
	values := url.Values{
		"to": {" alice@example.com, bob@example.com ,carol@example.com"},
	}

	form, errs := ParseTeamInviteForm(values)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	if len(form.To) != len(want) {
		t.Fatalf("emails = %d, want %d", len(form.To), len(want))
	}
	for i, email := range want {
		if form.To[i] != email {
			t.Fatalf("email[%d] = %q, want %q", i, form.To[i], email)
		}
	}
}

func TestParseTeamInviteFormRejectsInvalidEntry(t *testing.T) {
	values := url.Values{
		"to": {"alice@example.com, not-an-email"},
	}

	_, errs := ParseTeamInviteForm(values)
	if errs.Field("to") == nil {
		t.Fatal("expected to error")
	}
}

func TestParseTeamInviteFormRequiresInput(t *testing.T) {
	_, errs := ParseTeamInviteForm(url.Values{})
	if errs.Field("to") == nil {
		t.Fatal("expected to error")
	}
}

func TestParseDeleteTeamFormRequiresConfirmation(t *testing.T) {
	_, errs := ParseDeleteTeamForm(url.Values{})
	if errs.Field("confirm") == nil {
		t.Fatal("expected confirm error")
	}

	form, errs := ParseDeleteTeamForm(url.Values{"confirm": {"on"}})
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !form.Confirm {
		t.Fatal("expected confirm true")
	}
}

func TestParseCancelEventFormRequiresReason(t *testing.T) {
	_, errs := ParseCancelEventForm(url.Values{"confirm": {"on"}})
	if errs.Field("reason") == nil {
		t.Fatal("expected reason error")
	}
}

func TestParseNewTeamFormValidatesAccessChoice(t *testing.T) {
	values := url.Values{
		"name":   {"Go Users"},
		"city":   {"city-1"},
		"tz":     {"UTC"},
		"access": {"1"},
	}

	_, errs := ParseNewTeamForm(values)
	if errs.Field("access") == nil {
		t.Fatal("expected access error")
	}

	values.Set("access", "2")
	form, errs := ParseNewTeamForm(values)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.Access != webstorage.TeamAccessPrivate {
		t.Fatalf("access = %d, want %d", form.Access, webstorage.TeamAccessPrivate)
	}
}

func TestParseTeamContactFormValidatesAudience(t *testing.T) {
	values := url.Values{
		"to":   {"everyone"},
		"body": {"hello"},
	}
	_, errs := ParseTeamContactForm(values)
	if errs.Field("to") == nil {
		t.Fatal("expected to error")
	}

	values.Set("to", ContactAdmins)
	form, errs := ParseTeamContactForm(values)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.To != ContactAdmins {
		t.Fatalf("to = %q, want %q", form.To, ContactAdmins)
	}
}

func TestParseEventSeriesFormBindsWallClockTimes(t *testing.T) {
	values := url.Values{
		"name":         {"Weekly Meetup"},
		"start_time_0": {"7"},
		"start_time_1": {"0"},
		"start_time_2": {"PM"},
		"end_time_0":   {"9"},
		"end_time_1":   {"30"},
		"end_time_2":   {"PM"},
	}

	form, errs := ParseEventSeriesForm(values)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.StartTime != "19:00" {
		t.Fatalf("start time = %q, want %q", form.StartTime, "19:00")
	}
	if form.EndTime != "21:30" {
		t.Fatalf("end time = %q, want %q", form.EndTime, "21:30")
	}
}

func TestParseEventSeriesFormMidnightAndNoon(t *testing.T) {
	values := url.Values{
		"name":         {"Weekly Meetup"},
		"start_time_0": {"12"},
		"start_time_1": {"0"},
		"start_time_2": {"AM"},
		"end_time_0":   {"12"},
		"end_time_1":   {"0"},
		"end_time_2":   {"PM"},
	}

	form, errs := ParseEventSeriesForm(values)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.StartTime != "00:00" {
		t.Fatalf("start time = %q, want %q", form.StartTime, "00:00")
	}
	if form.EndTime != "12:00" {
		t.Fatalf("end time = %q, want %q", form.EndTime, "12:00")
	}
}

func TestParseSearchTeamsFormRequiresDistance(t *testing.T) {
	_, errs := ParseSearchTeamsForm(url.Values{"name": {"go"}})
	if errs.Field("distance") == nil {
		t.Fatal("expected distance error")
	}

	form, errs := ParseSearchTeamsForm(url.Values{"name": {"go"}, "distance": {"25"}})
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.DistanceKM != 25 {
		t.Fatalf("distance = %d, want 25", form.DistanceKM)
	}
}

func TestParsePresentationFormValidatesTalkChoice(t *testing.T) {
	talkIDs := []string{"talk-1", "talk-2"}

	_, errs := ParsePresentationForm(url.Values{"talk": {"talk-9"}}, talkIDs)
	if errs.Field("talk") == nil {
		t.Fatal("expected talk error")
	}

	form, errs := ParsePresentationForm(url.Values{"talk": {"talk-2"}}, talkIDs)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if form.TalkID != "talk-2" {
		t.Fatalf("talk = %q, want %q", form.TalkID, "talk-2")
	}
}

func TestEventLocationFallsBackToUTC(t *testing.T) {
	if loc := eventLocation("Not/AZone"); loc != time.UTC {
		t.Fatalf("location = %v, want UTC", loc)
	}
	loc := eventLocation("America/New_York")
	if loc.String() != "America/New_York" {
		t.Fatalf("location = %v, want America/New_York", loc)
	}
}
