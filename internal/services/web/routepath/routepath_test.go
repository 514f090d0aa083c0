package routepath

import "testing"

func TestTeamBuildsDetailPath(t *testing.T) {
	if got := Team("abc123"); got != "/team/abc123/" {
		t.Fatalf("Team = %q", got)
	}
}

func TestTeamEscapesSegment(t *testing.T) {
	if got := Team("a/b"); got != "/team/a%2Fb/" {
		t.Fatalf("Team = %q", got)
	}
}

func TestEventIncludesSlug(t *testing.T) {
	if got := Event("ev1", "launch-party"); got != "/events/ev1/launch-party/" {
		t.Fatalf("Event = %q", got)
	}
}

func TestEventFeedPath(t *testing.T) {
	if got := EventFeed("ev1", "launch-party"); got != "/events/ev1/launch-party/ics" {
		t.Fatalf("EventFeed = %q", got)
	}
}

func TestCreateEventNestsUnderTeam(t *testing.T) {
	if got := CreateEvent("team9"); got != "/team/team9/create-event/" {
		t.Fatalf("CreateEvent = %q", got)
	}
}

func TestTeamAboutPath(t *testing.T) {
	if got := TeamAbout("team9"); got != "/about/team9/" {
		t.Fatalf("TeamAbout = %q", got)
	}
}

func TestTeamEventsFeedPath(t *testing.T) {
	if got := TeamEventsFeed("team9"); got != "/team/team9/events.ics" {
		t.Fatalf("TeamEventsFeed = %q", got)
	}
}
