package forms

import "net/url"

// PlaceForm creates a venue.
type PlaceForm struct {
	Name      string
	Address   string
	CityID    string
	Longitude float64
	Latitude  float64
	PlaceURL  string
	TZ        string
}

// ParsePlaceForm binds a place submission; name and city are required.
func ParsePlaceForm(values url.Values) (PlaceForm, Errors) {
	b := newBinder(values)
	form := PlaceForm{
		Name:      b.required("name"),
		Address:   b.trimmed("address"),
		CityID:    b.required("city"),
		Longitude: b.optionalFloat("longitude"),
		Latitude:  b.optionalFloat("latitude"),
		PlaceURL:  b.trimmed("place_url"),
		TZ:        b.trimmed("tz"),
	}
	if form.TZ == "" {
		form.TZ = "UTC"
	}
	return form, b.errs
}

// ProfileForm edits account and community details together.
type ProfileForm struct {
	Email             string
	RealName          string
	WebURL            string
	CityID            string
	TZ                string
	AvatarURL         string
	SendNotifications bool
	DoNotTrack        bool
}

// ParseProfileForm binds a profile edit submission.
func ParseProfileForm(values url.Values) (ProfileForm, Errors) {
	b := newBinder(values)
	form := ProfileForm{
		Email:             b.required("email"),
		RealName:          b.trimmed("realname"),
		WebURL:            b.trimmed("web_url"),
		CityID:            b.required("city"),
		TZ:                b.trimmed("tz"),
		AvatarURL:         b.trimmed("avatar"),
		SendNotifications: b.checkbox("send_notifications"),
		DoNotTrack:        b.checkbox("do_not_track"),
	}
	return form, b.errs
}

// ConfirmProfileForm captures the fields a new account must fill in.
type ConfirmProfileForm struct {
	AvatarURL string
	RealName  string
	CityID    string
}

// ParseConfirmProfileForm binds the first-login confirmation submission.
func ParseConfirmProfileForm(values url.Values) (ConfirmProfileForm, Errors) {
	b := newBinder(values)
	form := ConfirmProfileForm{
		AvatarURL: b.trimmed("avatar"),
		RealName:  b.required("realname"),
		CityID:    b.required("city"),
	}
	return form, b.errs
}

// NotificationsForm toggles notification emails.
type NotificationsForm struct {
	SendNotifications bool
}

// ParseNotificationsForm binds the notifications toggle.
func ParseNotificationsForm(values url.Values) (NotificationsForm, Errors) {
	b := newBinder(values)
	form := NotificationsForm{SendNotifications: b.checkbox("send_notifications")}
	return form, b.errs
}

// SpeakerForm edits a speaking persona.
type SpeakerForm struct {
	AvatarURL  string
	Title      string
	Bio        string
	Categories string
}

// ParseSpeakerForm binds a speaker submission.
func ParseSpeakerForm(values url.Values) (SpeakerForm, Errors) {
	b := newBinder(values)
	form := SpeakerForm{
		AvatarURL:  b.trimmed("avatar"),
		Title:      b.required("title"),
		Bio:        b.trimmed("bio"),
		Categories: b.trimmed("categories"),
	}
	return form, b.errs
}

// TalkForm edits a talk a speaker offers.
type TalkForm struct {
	Title    string
	Abstract string
	TalkType string
	WebURL   string
	Category string
}

// ParseTalkForm binds a talk submission.
func ParseTalkForm(values url.Values) (TalkForm, Errors) {
	b := newBinder(values)
	form := TalkForm{
		Title:    b.required("title"),
		Abstract: b.trimmed("abstract"),
		TalkType: b.trimmed("talk_type"),
		WebURL:   b.trimmed("web_url"),
		Category: b.trimmed("category"),
	}
	return form, b.errs
}

// PresentationForm schedules a talk at an event.
type PresentationForm struct {
	TalkID string
}

// ParsePresentationForm validates the talk select against the speaker's
// talks.
func ParsePresentationForm(values url.Values, talkIDs []string) (PresentationForm, Errors) {
	b := newBinder(values)
	form := PresentationForm{TalkID: b.choice("talk", talkIDs)}
	return form, b.errs
}

// SearchTeamsForm filters teams by name prefix and proximity.
type SearchTeamsForm struct {
	Name       string
	CityID     string
	DistanceKM int
}

// ParseSearchTeamsForm binds the team search; distance is required, name
// and city are optional.
func ParseSearchTeamsForm(values url.Values) (SearchTeamsForm, Errors) {
	b := newBinder(values)
	form := SearchTeamsForm{
		Name:       b.trimmed("name"),
		CityID:     b.trimmed("city"),
		DistanceKM: b.requiredInt("distance"),
	}
	return form, b.errs
}
