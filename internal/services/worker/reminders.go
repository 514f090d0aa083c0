package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// SendReminders mails attendees whose events start inside the upcoming
// reminder window. The window advances with the schedule cadence, so an
// event is reminded about once.
func (rt *Runtime) SendReminders(ctx context.Context) (int, error) {
	now := rt.now().UTC()
	from := now.Add(rt.lead)
	until := from.Add(rt.window)

	events, err := rt.store.ListEventsStartingBetween(ctx, from, until)
	if err != nil {
		return 0, fmt.Errorf("list upcoming events: %w", err)
	}
	sent := 0
	for _, event := range events {
		n, err := rt.remindAttendees(ctx, event)
		if err != nil {
			rt.logger.Printf("remind attendees of %s: %v", event.ID, err)
			continue
		}
		sent += n
	}
	return sent, nil
}

func (rt *Runtime) remindAttendees(ctx context.Context, event webstorage.Event) (int, error) {
	attendees, err := rt.store.ListAttendees(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("list attendees: %w", err)
	}
	link := strings.TrimRight(rt.baseURL, "/") + routepath.Event(event.ID, event.Slug)
	when := event.StartTime.UTC()
	if loc, err := time.LoadLocation(event.TZ); err == nil {
		when = event.StartTime.In(loc)
	}
	sent := 0
	for _, attendee := range attendees {
		if attendee.Status != webstorage.AttendeeStatusYes {
			continue
		}
		profile, ok, err := rt.store.GetProfile(ctx, attendee.ProfileID)
		if err != nil {
			return sent, fmt.Errorf("get profile: %w", err)
		}
		if !ok || !profile.SendNotifications {
			continue
		}
		message := mail.Message{
			To:      profile.Email,
			Subject: "Reminder: " + event.Name,
			Body: fmt.Sprintf("%s starts %s.\n\nDetails and updates: %s\n",
				event.Name, when.Format("Monday, January 2 at 15:04 MST"), link),
		}
		if err := rt.sender.Send(ctx, message); err != nil {
			return sent, fmt.Errorf("send reminder: %w", err)
		}
		sent++
	}
	return sent, nil
}
