// Package forms binds and validates posted form values.
//
// Event times are entered as local wall-clock values in the event's
// timezone and converted to UTC during binding.
package forms

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Errors accumulates validation messages per form field.
type Errors map[string][]string

// Add appends a message to a field's error list.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether any field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Field returns the messages recorded for a field.
func (e Errors) Field(field string) []string {
	return e[field]
}

const (
	msgRequired     = "this field is required"
	msgInvalidEmail = "enter a valid email address"
	msgInvalidNum   = "enter a whole number"
	msgInvalidFloat = "enter a number"
	msgInvalidChoice = "select a valid choice"
	msgInvalidDate  = "enter a valid date and time"
	msgInvalidTime  = "enter a valid time"
	msgConfirmation = "confirmation is required"
)

type binder struct {
	values url.Values
	errs   Errors
}

func newBinder(values url.Values) *binder {
	return &binder{values: values, errs: Errors{}}
}

func (b *binder) trimmed(field string) string {
	return strings.TrimSpace(b.values.Get(field))
}

func (b *binder) required(field string) string {
	value := b.trimmed(field)
	if value == "" {
		b.errs.Add(field, msgRequired)
	}
	return value
}

// checkbox reports whether a checkbox input was submitted checked.
func (b *binder) checkbox(field string) bool {
	switch strings.ToLower(b.trimmed(field)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// confirm is a checkbox that must be checked for the form to validate.
func (b *binder) confirm(field string) bool {
	checked := b.checkbox(field)
	if !checked {
		b.errs.Add(field, msgConfirmation)
	}
	return checked
}

func (b *binder) optionalInt(field string, fallback int) int {
	raw := b.trimmed(field)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		b.errs.Add(field, msgInvalidNum)
		return fallback
	}
	return value
}

func (b *binder) requiredInt(field string) int {
	raw := b.required(field)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		b.errs.Add(field, msgInvalidNum)
		return 0
	}
	return value
}

func (b *binder) optionalFloat(field string) float64 {
	raw := b.trimmed(field)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		b.errs.Add(field, msgInvalidFloat)
		return 0
	}
	return value
}

// choice validates that a submitted value is one of the allowed options.
func (b *binder) choice(field string, options []string) string {
	value := b.required(field)
	if value == "" {
		return ""
	}
	for _, option := range options {
		if value == option {
			return value
		}
	}
	b.errs.Add(field, msgInvalidChoice)
	return ""
}

// intChoice validates a numeric select against its allowed values.
func (b *binder) intChoice(field string, options []int) int {
	value := b.requiredInt(field)
	if b.errs.Field(field) != nil {
		return 0
	}
	for _, option := range options {
		if value == option {
			return value
		}
	}
	b.errs.Add(field, msgInvalidChoice)
	return 0
}

// emailList splits a comma-separated address list and validates each entry.
func (b *binder) emailList(field string) []string {
	raw := b.trimmed(field)
	if raw == "" {
		b.errs.Add(field, msgRequired)
		return nil
	}
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		email := strings.TrimSpace(part)
		if email == "" {
			continue
		}
		if _, err := mail.ParseAddress(email); err != nil {
			b.errs.Add(field, fmt.Sprintf("%s: %s", msgInvalidEmail, email))
			continue
		}
		emails = append(emails, email)
	}
	if len(emails) == 0 && b.errs.Field(field) == nil {
		b.errs.Add(field, msgRequired)
	}
	return emails
}

const (
	splitDateLayout     = "2006-01-02"
	splitTimeLayout     = "03:04 PM"
	splitDateTimeLayout = "2006-01-02 03:04 PM"
	wallClockLayout     = "15:04"
)

// splitDateTime joins a date input and a 12-hour time select, interprets the
// result as wall-clock time in loc, and returns the instant in UTC.
func (b *binder) splitDateTime(field string, loc *time.Location) time.Time {
	date := b.trimmed(field + "_0")
	clock := b.trimmed(field + "_1")
	if date == "" || clock == "" {
		b.errs.Add(field, msgRequired)
		return time.Time{}
	}
	local, err := time.ParseInLocation(splitDateTimeLayout, date+" "+clock, loc)
	if err != nil {
		b.errs.Add(field, msgInvalidDate)
		return time.Time{}
	}
	return local.UTC()
}

// wallClock joins hour, minute and meridian selects into a 24-hour "15:04"
// time of day string.
func (b *binder) wallClock(field string) string {
	rawHour := b.trimmed(field + "_0")
	rawMinute := b.trimmed(field + "_1")
	meridian := b.trimmed(field + "_2")
	if rawHour == "" || rawMinute == "" || meridian == "" {
		b.errs.Add(field, msgRequired)
		return ""
	}
	hour, hourErr := strconv.Atoi(rawHour)
	minute, minuteErr := strconv.Atoi(rawMinute)
	if hourErr != nil || minuteErr != nil {
		b.errs.Add(field, msgInvalidTime)
		return ""
	}
	parsed, err := time.Parse(splitTimeLayout, fmt.Sprintf("%02d:%02d %s", hour, minute, strings.ToUpper(meridian)))
	if err != nil {
		b.errs.Add(field, msgInvalidTime)
		return ""
	}
	return parsed.Format(wallClockLayout)
}

// eventLocation resolves an IANA zone name, falling back to UTC on a bad
// stored value so binding can still report field errors.
func eventLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
