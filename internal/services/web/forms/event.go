package forms

import (
	"net/url"
	"time"
)

// TeamEventForm edits every event attribute the organizer controls.
//
// Start and end are posted as split date/time inputs holding local
// wall-clock values in tz; binding converts them to UTC.
type TeamEventForm struct {
	Name                string
	StartTime           time.Time
	EndTime             time.Time
	Recurrences         string
	Summary             string
	PlaceID             string
	WebURL              string
	AnnounceURL         string
	AttendeeLimit       int
	EnableComments      bool
	EnablePhotos        bool
	EnablePresentations bool
}

// ParseTeamEventForm binds a full event edit submission for an event
// scheduled in tz.
func ParseTeamEventForm(values url.Values, tz string) (TeamEventForm, Errors) {
	b := newBinder(values)
	loc := eventLocation(tz)
	form := TeamEventForm{
		Name:                b.required("name"),
		StartTime:           b.splitDateTime("start_time", loc),
		EndTime:             b.splitDateTime("end_time", loc),
		Recurrences:         b.trimmed("recurrences"),
		Summary:             b.trimmed("summary"),
		PlaceID:             b.trimmed("place"),
		WebURL:              b.trimmed("web_url"),
		AnnounceURL:         b.trimmed("announce_url"),
		AttendeeLimit:       b.optionalInt("attendee_limit", 0),
		EnableComments:      b.checkbox("enable_comments"),
		EnablePhotos:        b.checkbox("enable_photos"),
		EnablePresentations: b.checkbox("enable_presentations"),
	}
	return form, b.errs
}

// NewEventForm captures the first step of creating a team event.
type NewEventForm struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
}

// ParseNewEventForm binds the basics submission for an event scheduled in tz.
func ParseNewEventForm(values url.Values, tz string) (NewEventForm, Errors) {
	b := newBinder(values)
	loc := eventLocation(tz)
	form := NewEventForm{
		Name:      b.required("name"),
		StartTime: b.splitDateTime("start_time", loc),
		EndTime:   b.splitDateTime("end_time", loc),
	}
	return form, b.errs
}

// NewEventDetailsForm captures the second step of creating an event.
type NewEventDetailsForm struct {
	Summary             string
	Recurrences         string
	PlaceID             string
	WebURL              string
	AnnounceURL         string
	AttendeeLimit       int
	EnableComments      bool
	EnablePhotos        bool
	EnablePresentations bool
}

// ParseNewEventDetailsForm binds the event details submission.
func ParseNewEventDetailsForm(values url.Values) (NewEventDetailsForm, Errors) {
	b := newBinder(values)
	form := NewEventDetailsForm{
		Summary:             b.trimmed("summary"),
		Recurrences:         b.trimmed("recurrences"),
		PlaceID:             b.trimmed("place"),
		WebURL:              b.trimmed("web_url"),
		AnnounceURL:         b.trimmed("announce_url"),
		AttendeeLimit:       b.optionalInt("attendee_limit", 0),
		EnableComments:      b.checkbox("enable_comments"),
		EnablePhotos:        b.checkbox("enable_photos"),
		EnablePresentations: b.checkbox("enable_presentations"),
	}
	return form, b.errs
}

// EventSettingsForm edits only the event's participation settings.
type EventSettingsForm struct {
	AttendeeLimit       int
	EnableComments      bool
	EnablePhotos        bool
	EnablePresentations bool
}

// ParseEventSettingsForm binds the settings submission.
func ParseEventSettingsForm(values url.Values) (EventSettingsForm, Errors) {
	b := newBinder(values)
	form := EventSettingsForm{
		AttendeeLimit:       b.optionalInt("attendee_limit", 0),
		EnableComments:      b.checkbox("enable_comments"),
		EnablePhotos:        b.checkbox("enable_photos"),
		EnablePresentations: b.checkbox("enable_presentations"),
	}
	return form, b.errs
}

// DeleteEventForm confirms an event deletion.
type DeleteEventForm struct {
	Confirm bool
}

// ParseDeleteEventForm requires the confirmation checkbox.
func ParseDeleteEventForm(values url.Values) (DeleteEventForm, Errors) {
	b := newBinder(values)
	form := DeleteEventForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// CancelEventForm confirms a cancellation and records the reason.
type CancelEventForm struct {
	Confirm bool
	Reason  string
}

// ParseCancelEventForm requires both the checkbox and a reason.
func ParseCancelEventForm(values url.Values) (CancelEventForm, Errors) {
	b := newBinder(values)
	form := CancelEventForm{
		Confirm: b.confirm("confirm"),
		Reason:  b.required("reason"),
	}
	return form, b.errs
}

// ChangeEventHostForm moves an event to another team.
type ChangeEventHostForm struct {
	TeamID string
}

// ParseChangeEventHostForm binds the host change submission.
func ParseChangeEventHostForm(values url.Values) (ChangeEventHostForm, Errors) {
	b := newBinder(values)
	form := ChangeEventHostForm{TeamID: b.required("team")}
	return form, b.errs
}

// EventInviteMemberForm invites an existing team member to an event.
type EventInviteMemberForm struct {
	Member string
}

// ParseEventInviteMemberForm validates the member select against the
// team's membership.
func ParseEventInviteMemberForm(values url.Values, memberIDs []string) (EventInviteMemberForm, Errors) {
	b := newBinder(values)
	form := EventInviteMemberForm{Member: b.choice("member", memberIDs)}
	return form, b.errs
}

// EventInviteEmailForm invites people to an event by email.
type EventInviteEmailForm struct {
	Emails []string
}

// ParseEventInviteEmailForm binds a comma-separated list of invite
// addresses.
func ParseEventInviteEmailForm(values url.Values) (EventInviteEmailForm, Errors) {
	b := newBinder(values)
	form := EventInviteEmailForm{Emails: b.emailList("emails")}
	return form, b.errs
}

// EventContactForm messages an event audience.
type EventContactForm struct {
	To   string
	Body string
}

// ParseEventContactForm binds a contact submission against the allowed
// audiences.
func ParseEventContactForm(values url.Values) (EventContactForm, Errors) {
	b := newBinder(values)
	form := EventContactForm{
		To:   b.choice("to", []string{ContactAdmins, ContactAttendees}),
		Body: b.required("body"),
	}
	return form, b.errs
}

// EventSeriesForm edits a repeating event template. Start and end are
// time-of-day selects bound to "15:04" wall-clock strings.
type EventSeriesForm struct {
	Name          string
	StartTime     string
	EndTime       string
	Recurrences   string
	Summary       string
	AttendeeLimit int
}

// ParseEventSeriesForm binds a series submission.
func ParseEventSeriesForm(values url.Values) (EventSeriesForm, Errors) {
	b := newBinder(values)
	form := EventSeriesForm{
		Name:          b.required("name"),
		StartTime:     b.wallClock("start_time"),
		EndTime:       b.wallClock("end_time"),
		Recurrences:   b.trimmed("recurrences"),
		Summary:       b.trimmed("summary"),
		AttendeeLimit: b.optionalInt("attendee_limit", 0),
	}
	return form, b.errs
}

// DeleteEventSeriesForm confirms a series deletion.
type DeleteEventSeriesForm struct {
	Confirm bool
}

// ParseDeleteEventSeriesForm requires the confirmation checkbox.
func ParseDeleteEventSeriesForm(values url.Values) (DeleteEventSeriesForm, Errors) {
	b := newBinder(values)
	form := DeleteEventSeriesForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// UploadEventPhotoForm attaches a photo to an event.
type UploadEventPhotoForm struct {
	SrcURL  string
	Title   string
	Caption string
}

// ParseUploadEventPhotoForm binds a photo submission.
func ParseUploadEventPhotoForm(values url.Values) (UploadEventPhotoForm, Errors) {
	b := newBinder(values)
	form := UploadEventPhotoForm{
		SrcURL:  b.required("src"),
		Title:   b.trimmed("title"),
		Caption: b.trimmed("caption"),
	}
	return form, b.errs
}

// RemoveEventPhotoForm confirms removing a photo.
type RemoveEventPhotoForm struct {
	Confirm bool
}

// ParseRemoveEventPhotoForm requires the confirmation checkbox.
func ParseRemoveEventPhotoForm(values url.Values) (RemoveEventPhotoForm, Errors) {
	b := newBinder(values)
	form := RemoveEventPhotoForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}

// EventCommentForm posts a comment on an event page.
type EventCommentForm struct {
	Body string
}

// ParseEventCommentForm binds a comment submission.
func ParseEventCommentForm(values url.Values) (EventCommentForm, Errors) {
	b := newBinder(values)
	form := EventCommentForm{Body: b.required("body")}
	return form, b.errs
}

// DeleteCommentForm confirms deleting a comment.
type DeleteCommentForm struct {
	Confirm bool
}

// ParseDeleteCommentForm requires the confirmation checkbox.
func ParseDeleteCommentForm(values url.Values) (DeleteCommentForm, Errors) {
	b := newBinder(values)
	form := DeleteCommentForm{Confirm: b.confirm("confirm")}
	return form, b.errs
}
