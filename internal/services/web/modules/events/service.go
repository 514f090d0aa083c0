package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/forms"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const upcomingListLimit = 50

type service struct {
	store   webstorage.Store
	sender  mail.Sender
	baseURL string

	now   func() time.Time
	newID func() string
}

func newService(deps module.Dependencies) service {
	return service{
		store:   deps.Store,
		sender:  deps.Sender,
		baseURL: strings.TrimRight(deps.BaseURL, "/"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s service) eventByID(ctx context.Context, eventID string) (webstorage.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return webstorage.Event{}, apperrors.E(apperrors.KindInvalidInput, "event id is required")
	}
	event, ok, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return webstorage.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !ok {
		return webstorage.Event{}, apperrors.E(apperrors.KindNotFound, "event not found")
	}
	return event, nil
}

type eventDetail struct {
	event         webstorage.Event
	team          webstorage.Team
	place         webstorage.Place
	attendees     []webstorage.Attendee
	comments      []webstorage.EventComment
	photos        []webstorage.EventPhoto
	presentations []webstorage.Presentation
	attending     bool
	isHost        bool
	atCapacity    bool
}

func (s service) eventDetail(ctx context.Context, event webstorage.Event, profileID string) (eventDetail, error) {
	detail := eventDetail{event: event}

	team, ok, err := s.store.GetTeam(ctx, event.TeamID)
	if err != nil {
		return eventDetail{}, fmt.Errorf("get event team: %w", err)
	}
	if ok {
		detail.team = team
	}
	if event.PlaceID != "" {
		if place, ok, err := s.store.GetPlace(ctx, event.PlaceID); err == nil && ok {
			detail.place = place
		}
	}
	detail.attendees, err = s.store.ListAttendees(ctx, event.ID)
	if err != nil {
		return eventDetail{}, fmt.Errorf("list attendees: %w", err)
	}
	for _, attendee := range detail.attendees {
		if attendee.ProfileID != profileID {
			continue
		}
		detail.attending = attendee.Status == webstorage.AttendeeStatusYes
		detail.isHost = attendee.Host
	}
	if event.AttendeeLimit > 0 {
		count, err := s.store.CountAttendees(ctx, event.ID)
		if err != nil {
			return eventDetail{}, fmt.Errorf("count attendees: %w", err)
		}
		detail.atCapacity = count >= event.AttendeeLimit
	}
	if event.EnableComments {
		detail.comments, err = s.store.ListEventComments(ctx, event.ID)
		if err != nil {
			return eventDetail{}, fmt.Errorf("list comments: %w", err)
		}
	}
	if event.EnablePhotos {
		detail.photos, err = s.store.ListEventPhotos(ctx, event.ID)
		if err != nil {
			return eventDetail{}, fmt.Errorf("list photos: %w", err)
		}
	}
	if event.EnablePresentations {
		detail.presentations, err = s.store.ListPresentations(ctx, event.ID)
		if err != nil {
			return eventDetail{}, fmt.Errorf("list presentations: %w", err)
		}
	}
	return detail, nil
}

func (s service) isHost(ctx context.Context, event webstorage.Event, profileID string) (bool, error) {
	if profileID == "" {
		return false, nil
	}
	if event.CreatedBy == profileID {
		return true, nil
	}
	attendees, err := s.store.ListAttendees(ctx, event.ID)
	if err != nil {
		return false, fmt.Errorf("list attendees: %w", err)
	}
	for _, attendee := range attendees {
		if attendee.ProfileID == profileID && attendee.Host {
			return true, nil
		}
	}
	// Team admins can manage any of the team's events.
	team, ok, err := s.store.GetTeam(ctx, event.TeamID)
	if err != nil {
		return false, fmt.Errorf("get event team: %w", err)
	}
	if ok && team.OwnerID == profileID {
		return true, nil
	}
	member, ok, err := s.store.GetMember(ctx, event.TeamID, profileID)
	if err != nil {
		return false, fmt.Errorf("get member: %w", err)
	}
	return ok && member.Role == webstorage.MemberRoleAdmin, nil
}

func (s service) attend(ctx context.Context, event webstorage.Event, profile webstorage.Profile) error {
	if event.Status == webstorage.EventStatusCanceled {
		return apperrors.E(apperrors.KindInvalidInput, "this event was canceled")
	}
	if event.AttendeeLimit > 0 {
		count, err := s.store.CountAttendees(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("count attendees: %w", err)
		}
		if count >= event.AttendeeLimit {
			return apperrors.E(apperrors.KindInvalidInput, "this event is full")
		}
	}
	attendee := webstorage.Attendee{
		EventID:   event.ID,
		ProfileID: profile.ID,
		Status:    webstorage.AttendeeStatusYes,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutAttendee(ctx, attendee); err != nil {
		return fmt.Errorf("attend event: %w", err)
	}
	return nil
}

func (s service) leave(ctx context.Context, event webstorage.Event, profile webstorage.Profile) error {
	if err := s.store.DeleteAttendee(ctx, event.ID, profile.ID); err != nil {
		return fmt.Errorf("leave event: %w", err)
	}
	return nil
}

func (s service) update(ctx context.Context, event webstorage.Event, form forms.TeamEventForm) (webstorage.Event, error) {
	event.Name = form.Name
	event.StartTime = form.StartTime
	event.EndTime = form.EndTime
	event.Recurrences = form.Recurrences
	event.Summary = form.Summary
	event.WebURL = form.WebURL
	event.AnnounceURL = form.AnnounceURL
	event.AttendeeLimit = form.AttendeeLimit
	event.EnableComments = form.EnableComments
	event.EnablePhotos = form.EnablePhotos
	event.EnablePresentations = form.EnablePresentations
	event, err := s.setPlace(ctx, event, form.PlaceID)
	if err != nil {
		return webstorage.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// setPlace records the event's venue. The event's timezone follows the
// place when one is set, else the hosting team.
func (s service) setPlace(ctx context.Context, event webstorage.Event, placeID string) (webstorage.Event, error) {
	if placeID != "" {
		place, ok, err := s.store.GetPlace(ctx, placeID)
		if err != nil {
			return webstorage.Event{}, fmt.Errorf("get place: %w", err)
		}
		if !ok {
			return webstorage.Event{}, apperrors.E(apperrors.KindInvalidInput, "place not found")
		}
		event.PlaceID = place.ID
		if place.TZ != "" {
			event.TZ = place.TZ
			return event, nil
		}
	} else {
		event.PlaceID = ""
	}
	team, ok, err := s.store.GetTeam(ctx, event.TeamID)
	if err != nil {
		return webstorage.Event{}, fmt.Errorf("get event team: %w", err)
	}
	if ok && team.TZ != "" {
		event.TZ = team.TZ
	}
	return event, nil
}

// applyDetails fills in the fields collected by the second step of
// event creation.
func (s service) applyDetails(ctx context.Context, event webstorage.Event, form forms.NewEventDetailsForm) (webstorage.Event, error) {
	event.Summary = form.Summary
	event.Recurrences = form.Recurrences
	event.WebURL = form.WebURL
	event.AnnounceURL = form.AnnounceURL
	event.AttendeeLimit = form.AttendeeLimit
	event.EnableComments = form.EnableComments
	event.EnablePhotos = form.EnablePhotos
	event.EnablePresentations = form.EnablePresentations
	event, err := s.setPlace(ctx, event, form.PlaceID)
	if err != nil {
		return webstorage.Event{}, err
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s service) updateSettings(ctx context.Context, event webstorage.Event, form forms.EventSettingsForm) (webstorage.Event, error) {
	event.AttendeeLimit = form.AttendeeLimit
	event.EnableComments = form.EnableComments
	event.EnablePhotos = form.EnablePhotos
	event.EnablePresentations = form.EnablePresentations
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("update event settings: %w", err)
	}
	return event, nil
}

// changeHost moves an event to another team the requester administers.
func (s service) changeHost(ctx context.Context, event webstorage.Event, teamID string, profile webstorage.Profile) (webstorage.Event, error) {
	team, ok, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return webstorage.Event{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return webstorage.Event{}, apperrors.E(apperrors.KindInvalidInput, "team not found")
	}
	admin := team.OwnerID == profile.ID
	if !admin {
		member, ok, err := s.store.GetMember(ctx, team.ID, profile.ID)
		if err != nil {
			return webstorage.Event{}, fmt.Errorf("get member: %w", err)
		}
		admin = ok && member.Role == webstorage.MemberRoleAdmin
	}
	if !admin {
		return webstorage.Event{}, apperrors.E(apperrors.KindForbidden, "you must administer the destination team")
	}
	event.TeamID = team.ID
	if event.PlaceID == "" && team.TZ != "" {
		event.TZ = team.TZ
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("change event host: %w", err)
	}
	return event, nil
}

func (s service) inviteMember(ctx context.Context, event webstorage.Event, profileID string) error {
	profile, ok, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return fmt.Errorf("get member profile: %w", err)
	}
	if !ok {
		return apperrors.E(apperrors.KindInvalidInput, "member not found")
	}
	if !profile.SendNotifications {
		return apperrors.E(apperrors.KindInvalidInput, "this member does not accept notifications")
	}
	message := mail.Message{
		To:      profile.Email,
		Subject: fmt.Sprintf("You are invited to %s", event.Name),
		Body: fmt.Sprintf("You are invited to %s:\n\n%s\n",
			event.Name, s.baseURL+routepath.Event(event.ID, event.Slug)),
	}
	if err := s.sender.Send(ctx, message); err != nil {
		return fmt.Errorf("send member invite: %w", err)
	}
	return nil
}

func (s service) cancel(ctx context.Context, event webstorage.Event, reason string) (webstorage.Event, error) {
	event.Status = webstorage.EventStatusCanceled
	event.CancelReason = reason
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return webstorage.Event{}, fmt.Errorf("cancel event: %w", err)
	}
	return event, nil
}

func (s service) comment(ctx context.Context, event webstorage.Event, profile webstorage.Profile, body string) error {
	if !event.EnableComments {
		return apperrors.E(apperrors.KindForbidden, "comments are disabled for this event")
	}
	comment := webstorage.EventComment{
		ID:        s.newID(),
		EventID:   event.ID,
		ProfileID: profile.ID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateEventComment(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s service) deleteComment(ctx context.Context, event webstorage.Event, commentID string, profile webstorage.Profile) error {
	comment, ok, err := s.store.GetEventComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if !ok || comment.EventID != event.ID {
		return apperrors.E(apperrors.KindNotFound, "comment not found")
	}
	if comment.ProfileID != profile.ID {
		host, err := s.isHost(ctx, event, profile.ID)
		if err != nil {
			return err
		}
		if !host {
			return apperrors.E(apperrors.KindForbidden, "only the author or a host can remove a comment")
		}
	}
	if err := s.store.DeleteEventComment(ctx, comment.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s service) addPhoto(ctx context.Context, event webstorage.Event, profile webstorage.Profile, form forms.UploadEventPhotoForm) error {
	if !event.EnablePhotos {
		return apperrors.E(apperrors.KindForbidden, "photos are disabled for this event")
	}
	photo := webstorage.EventPhoto{
		ID:        s.newID(),
		EventID:   event.ID,
		ProfileID: profile.ID,
		SrcURL:    form.SrcURL,
		Title:     form.Title,
		Caption:   form.Caption,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateEventPhoto(ctx, photo); err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	return nil
}

func (s service) removePhoto(ctx context.Context, event webstorage.Event, photoID string, profile webstorage.Profile) error {
	photo, ok, err := s.store.GetEventPhoto(ctx, photoID)
	if err != nil {
		return fmt.Errorf("get photo: %w", err)
	}
	if !ok || photo.EventID != event.ID {
		return apperrors.E(apperrors.KindNotFound, "photo not found")
	}
	if photo.ProfileID != profile.ID {
		host, err := s.isHost(ctx, event, profile.ID)
		if err != nil {
			return err
		}
		if !host {
			return apperrors.E(apperrors.KindForbidden, "only the uploader or a host can remove a photo")
		}
	}
	if err := s.store.DeleteEventPhoto(ctx, photo.ID); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (s service) schedulePresentation(ctx context.Context, event webstorage.Event, form forms.PresentationForm) error {
	if !event.EnablePresentations {
		return apperrors.E(apperrors.KindForbidden, "presentations are disabled for this event")
	}
	presentation := webstorage.Presentation{
		ID:        s.newID(),
		EventID:   event.ID,
		TalkID:    form.TalkID,
		StartTime: event.StartTime,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutPresentation(ctx, presentation); err != nil {
		return fmt.Errorf("schedule presentation: %w", err)
	}
	return nil
}

func (s service) invite(ctx context.Context, event webstorage.Event, emails []string) error {
	for _, email := range emails {
		invite := webstorage.EventInvite{
			ID:        s.newID(),
			EventID:   event.ID,
			Email:     strings.ToLower(email),
			CreatedAt: s.now().UTC(),
		}
		if err := s.store.CreateEventInvite(ctx, invite); err != nil {
			return fmt.Errorf("create event invite: %w", err)
		}
		message := mail.Message{
			To:      invite.Email,
			Subject: fmt.Sprintf("You are invited to %s", event.Name),
			Body: fmt.Sprintf("You are invited to %s:\n\n%s\n",
				event.Name, s.baseURL+routepath.Event(event.ID, event.Slug)),
		}
		if err := s.sender.Send(ctx, message); err != nil {
			return fmt.Errorf("send event invite: %w", err)
		}
	}
	return nil
}

func (s service) contact(ctx context.Context, event webstorage.Event, form forms.EventContactForm, from webstorage.Profile) error {
	attendees, err := s.store.ListAttendees(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("list attendees: %w", err)
	}
	var sent int
	for _, attendee := range attendees {
		if form.To == forms.ContactAdmins && !attendee.Host {
			continue
		}
		if attendee.Status != webstorage.AttendeeStatusYes {
			continue
		}
		profile, ok, err := s.store.GetProfile(ctx, attendee.ProfileID)
		if err != nil {
			return fmt.Errorf("get attendee profile: %w", err)
		}
		if !ok || !profile.SendNotifications {
			continue
		}
		message := mail.Message{
			To:      profile.Email,
			Subject: fmt.Sprintf("A message about %s", event.Name),
			Body:    fmt.Sprintf("%s\n\nSent by %s about %s\n", form.Body, from.Email, event.Name),
		}
		if err := s.sender.Send(ctx, message); err != nil {
			return fmt.Errorf("send contact mail: %w", err)
		}
		sent++
	}
	if sent == 0 {
		return apperrors.E(apperrors.KindInvalidInput, "no reachable recipients")
	}
	return nil
}

// feed serializes a single event as an iCalendar document.
func (s service) feed(ctx context.Context, event webstorage.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Get Together//Community Events//EN")
	entry := cal.AddEvent(event.ID + "@gettogether.community")
	entry.SetCreatedTime(event.CreatedAt)
	entry.SetStartAt(event.StartTime)
	entry.SetEndAt(event.EndTime)
	entry.SetSummary(event.Name)
	if event.Summary != "" {
		entry.SetDescription(event.Summary)
	}
	entry.SetURL(s.baseURL + routepath.Event(event.ID, event.Slug))
	if event.PlaceID != "" {
		if place, ok, err := s.store.GetPlace(ctx, event.PlaceID); err == nil && ok {
			entry.SetLocation(place.Name)
		}
	}
	return cal.Serialize()
}
