package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const eventColumns = `id, team_id, series_id, place_id, slug, name, start_time,
 end_time, tz, recurrences, summary, web_url, announce_url, attendee_limit,
 enable_comments, enable_photos, enable_presentations, status, cancel_reason,
 created_by, created_at`

// CreateEvent inserts a new event row.
func (s *Store) CreateEvent(ctx context.Context, event webstorage.Event) error {
	if err := s.ready(); err != nil {
		return err
	}
	event.ID = strings.TrimSpace(event.ID)
	if event.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if event.TeamID == "" {
		return fmt.Errorf("event team id is required")
	}
	if strings.TrimSpace(event.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.TZ == "" {
		event.TZ = "UTC"
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.TeamID,
		event.SeriesID,
		event.PlaceID,
		event.Slug,
		event.Name,
		timeToUnixMillis(event.StartTime),
		timeToUnixMillis(event.EndTime),
		event.TZ,
		event.Recurrences,
		event.Summary,
		event.WebURL,
		event.AnnounceURL,
		int64(event.AttendeeLimit),
		boolToInt(event.EnableComments),
		boolToInt(event.EnablePhotos),
		boolToInt(event.EnablePresentations),
		int64(event.Status),
		event.CancelReason,
		event.CreatedBy,
		timeToUnixMillis(event.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// UpdateEvent rewrites an event's mutable fields.
func (s *Store) UpdateEvent(ctx context.Context, event webstorage.Event) error {
	if err := s.ready(); err != nil {
		return err
	}
	event.ID = strings.TrimSpace(event.ID)
	if event.ID == "" {
		return fmt.Errorf("event id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE events SET
		   team_id = ?, series_id = ?, place_id = ?, slug = ?, name = ?,
		   start_time = ?, end_time = ?, tz = ?, recurrences = ?, summary = ?,
		   web_url = ?, announce_url = ?, attendee_limit = ?, enable_comments = ?,
		   enable_photos = ?, enable_presentations = ?, status = ?, cancel_reason = ?
		 WHERE id = ?`,
		event.TeamID,
		event.SeriesID,
		event.PlaceID,
		event.Slug,
		event.Name,
		timeToUnixMillis(event.StartTime),
		timeToUnixMillis(event.EndTime),
		event.TZ,
		event.Recurrences,
		event.Summary,
		event.WebURL,
		event.AnnounceURL,
		int64(event.AttendeeLimit),
		boolToInt(event.EnableComments),
		boolToInt(event.EnablePhotos),
		boolToInt(event.EnablePresentations),
		int64(event.Status),
		event.CancelReason,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event; attendees, comments and photos cascade.
func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, strings.TrimSpace(eventID)); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// GetEvent loads an event by id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (webstorage.Event, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Event{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`,
		strings.TrimSpace(eventID),
	)
	event, err := scanEventColumns(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Event{}, false, nil
		}
		return webstorage.Event{}, false, fmt.Errorf("get event: %w", err)
	}
	return event, true, nil
}

func scanEventColumns(scanner rowScanner) (webstorage.Event, error) {
	var event webstorage.Event
	var startTime, endTime, attendeeLimit int64
	var enableComments, enablePhotos, enablePresentations int64
	var status, createdAt int64
	err := scanner.Scan(
		&event.ID,
		&event.TeamID,
		&event.SeriesID,
		&event.PlaceID,
		&event.Slug,
		&event.Name,
		&startTime,
		&endTime,
		&event.TZ,
		&event.Recurrences,
		&event.Summary,
		&event.WebURL,
		&event.AnnounceURL,
		&attendeeLimit,
		&enableComments,
		&enablePhotos,
		&enablePresentations,
		&status,
		&event.CancelReason,
		&event.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return webstorage.Event{}, err
	}
	event.StartTime = unixMillisToTime(startTime)
	event.EndTime = unixMillisToTime(endTime)
	event.AttendeeLimit = int(attendeeLimit)
	event.EnableComments = enableComments != 0
	event.EnablePhotos = enablePhotos != 0
	event.EnablePresentations = enablePresentations != 0
	event.Status = webstorage.EventStatus(status)
	event.CreatedAt = unixMillisToTime(createdAt)
	return event, nil
}

func (s *Store) collectEvents(rows *sql.Rows) ([]webstorage.Event, error) {
	defer func() { _ = rows.Close() }()
	events := make([]webstorage.Event, 0)
	for rows.Next() {
		event, err := scanEventColumns(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ListEventsForTeam returns a team's events ordered by start time.
func (s *Store) ListEventsForTeam(ctx context.Context, teamID string) ([]webstorage.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+eventColumns+` FROM events WHERE team_id = ? ORDER BY start_time`,
		strings.TrimSpace(teamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list events for team: %w", err)
	}
	return s.collectEvents(rows)
}

// ListUpcomingEvents returns confirmed events starting after the given time.
func (s *Store) ListUpcomingEvents(ctx context.Context, after time.Time, limit int) ([]webstorage.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE start_time >= ? AND status = ?
		 ORDER BY start_time LIMIT ?`,
		timeToUnixMillis(after),
		int64(webstorage.EventStatusConfirmed),
		int64(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return s.collectEvents(rows)
}

// ListEventsStartingBetween returns confirmed events in [from, until).
func (s *Store) ListEventsStartingBetween(ctx context.Context, from, until time.Time) ([]webstorage.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE start_time >= ? AND start_time < ? AND status = ?
		 ORDER BY start_time`,
		timeToUnixMillis(from),
		timeToUnixMillis(until),
		int64(webstorage.EventStatusConfirmed),
	)
	if err != nil {
		return nil, fmt.Errorf("list events starting between: %w", err)
	}
	return s.collectEvents(rows)
}

// PutAttendee upserts an attendance record.
func (s *Store) PutAttendee(ctx context.Context, attendee webstorage.Attendee) error {
	if err := s.ready(); err != nil {
		return err
	}
	if attendee.EventID == "" || attendee.ProfileID == "" {
		return fmt.Errorf("attendee event id and profile id are required")
	}
	if attendee.CreatedAt.IsZero() {
		attendee.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO attendees (event_id, profile_id, status, host, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(event_id, profile_id) DO UPDATE SET
		   status = excluded.status,
		   host = excluded.host`,
		attendee.EventID,
		attendee.ProfileID,
		int64(attendee.Status),
		boolToInt(attendee.Host),
		timeToUnixMillis(attendee.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put attendee: %w", err)
	}
	return nil
}

// DeleteAttendee removes an attendance record.
func (s *Store) DeleteAttendee(ctx context.Context, eventID, profileID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM attendees WHERE event_id = ? AND profile_id = ?`,
		strings.TrimSpace(eventID), strings.TrimSpace(profileID),
	)
	if err != nil {
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}

// ListAttendees returns attendance records for an event.
func (s *Store) ListAttendees(ctx context.Context, eventID string) ([]webstorage.Attendee, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT event_id, profile_id, status, host, created_at
		 FROM attendees WHERE event_id = ? ORDER BY created_at`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	attendees := make([]webstorage.Attendee, 0)
	for rows.Next() {
		var attendee webstorage.Attendee
		var status, host, createdAt int64
		if err := rows.Scan(&attendee.EventID, &attendee.ProfileID, &status, &host, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendee.Status = webstorage.AttendeeStatus(status)
		attendee.Host = host != 0
		attendee.CreatedAt = unixMillisToTime(createdAt)
		attendees = append(attendees, attendee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return attendees, nil
}

// CountAttendees counts confirmed attendees for an event.
func (s *Store) CountAttendees(ctx context.Context, eventID string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	var count int64
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM attendees WHERE event_id = ? AND status = ?`,
		strings.TrimSpace(eventID),
		int64(webstorage.AttendeeStatusYes),
	)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count attendees: %w", err)
	}
	return int(count), nil
}

// CreateEventComment inserts a comment row.
func (s *Store) CreateEventComment(ctx context.Context, comment webstorage.EventComment) error {
	if err := s.ready(); err != nil {
		return err
	}
	if comment.ID == "" || comment.EventID == "" || comment.ProfileID == "" {
		return fmt.Errorf("comment id, event id and profile id are required")
	}
	if strings.TrimSpace(comment.Body) == "" {
		return fmt.Errorf("comment body is required")
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO event_comments (id, event_id, profile_id, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.EventID, comment.ProfileID, comment.Body,
		timeToUnixMillis(comment.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event comment: %w", err)
	}
	return nil
}

// DeleteEventComment removes a comment by id.
func (s *Store) DeleteEventComment(ctx context.Context, commentID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM event_comments WHERE id = ?`, strings.TrimSpace(commentID)); err != nil {
		return fmt.Errorf("delete event comment: %w", err)
	}
	return nil
}

// GetEventComment loads a comment by id.
func (s *Store) GetEventComment(ctx context.Context, commentID string) (webstorage.EventComment, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.EventComment{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, event_id, profile_id, body, created_at FROM event_comments WHERE id = ?`,
		strings.TrimSpace(commentID),
	)
	var comment webstorage.EventComment
	var createdAt int64
	if err := row.Scan(&comment.ID, &comment.EventID, &comment.ProfileID, &comment.Body, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.EventComment{}, false, nil
		}
		return webstorage.EventComment{}, false, fmt.Errorf("get event comment: %w", err)
	}
	comment.CreatedAt = unixMillisToTime(createdAt)
	return comment, true, nil
}

// ListEventComments returns comments for an event in posting order.
func (s *Store) ListEventComments(ctx context.Context, eventID string) ([]webstorage.EventComment, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, event_id, profile_id, body, created_at
		 FROM event_comments WHERE event_id = ? ORDER BY created_at`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list event comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]webstorage.EventComment, 0)
	for rows.Next() {
		var comment webstorage.EventComment
		var createdAt int64
		if err := rows.Scan(&comment.ID, &comment.EventID, &comment.ProfileID, &comment.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event comment: %w", err)
		}
		comment.CreatedAt = unixMillisToTime(createdAt)
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event comments: %w", err)
	}
	return comments, nil
}

// CreateEventPhoto inserts a photo row.
func (s *Store) CreateEventPhoto(ctx context.Context, photo webstorage.EventPhoto) error {
	if err := s.ready(); err != nil {
		return err
	}
	if photo.ID == "" || photo.EventID == "" || photo.ProfileID == "" {
		return fmt.Errorf("photo id, event id and profile id are required")
	}
	if strings.TrimSpace(photo.SrcURL) == "" {
		return fmt.Errorf("photo source url is required")
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO event_photos (id, event_id, profile_id, src_url, title, caption, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		photo.ID, photo.EventID, photo.ProfileID, photo.SrcURL, photo.Title, photo.Caption,
		timeToUnixMillis(photo.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event photo: %w", err)
	}
	return nil
}

// DeleteEventPhoto removes a photo by id.
func (s *Store) DeleteEventPhoto(ctx context.Context, photoID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM event_photos WHERE id = ?`, strings.TrimSpace(photoID)); err != nil {
		return fmt.Errorf("delete event photo: %w", err)
	}
	return nil
}

// GetEventPhoto loads a photo by id.
func (s *Store) GetEventPhoto(ctx context.Context, photoID string) (webstorage.EventPhoto, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.EventPhoto{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, event_id, profile_id, src_url, title, caption, created_at
		 FROM event_photos WHERE id = ?`,
		strings.TrimSpace(photoID),
	)
	var photo webstorage.EventPhoto
	var createdAt int64
	if err := row.Scan(&photo.ID, &photo.EventID, &photo.ProfileID, &photo.SrcURL, &photo.Title, &photo.Caption, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.EventPhoto{}, false, nil
		}
		return webstorage.EventPhoto{}, false, fmt.Errorf("get event photo: %w", err)
	}
	photo.CreatedAt = unixMillisToTime(createdAt)
	return photo, true, nil
}

// ListEventPhotos returns photos for an event in upload order.
func (s *Store) ListEventPhotos(ctx context.Context, eventID string) ([]webstorage.EventPhoto, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, event_id, profile_id, src_url, title, caption, created_at
		 FROM event_photos WHERE event_id = ? ORDER BY created_at`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list event photos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	photos := make([]webstorage.EventPhoto, 0)
	for rows.Next() {
		var photo webstorage.EventPhoto
		var createdAt int64
		if err := rows.Scan(&photo.ID, &photo.EventID, &photo.ProfileID, &photo.SrcURL, &photo.Title, &photo.Caption, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event photo: %w", err)
		}
		photo.CreatedAt = unixMillisToTime(createdAt)
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event photos: %w", err)
	}
	return photos, nil
}

// CreateEventSeries inserts a series row.
func (s *Store) CreateEventSeries(ctx context.Context, series webstorage.EventSeries) error {
	if err := s.ready(); err != nil {
		return err
	}
	if series.ID == "" || series.TeamID == "" {
		return fmt.Errorf("series id and team id are required")
	}
	if strings.TrimSpace(series.Name) == "" {
		return fmt.Errorf("series name is required")
	}
	if series.CreatedAt.IsZero() {
		series.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO event_series (id, team_id, name, start_time, end_time, recurrence,
		   summary, attendee_limit, last_materialized, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		series.ID, series.TeamID, series.Name, series.StartTime, series.EndTime,
		series.Recurrence, series.Summary, int64(series.AttendeeLimit),
		timeToUnixMillis(series.LastMaterialized), timeToUnixMillis(series.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event series: %w", err)
	}
	return nil
}

// UpdateEventSeries rewrites a series' mutable fields.
func (s *Store) UpdateEventSeries(ctx context.Context, series webstorage.EventSeries) error {
	if err := s.ready(); err != nil {
		return err
	}
	if series.ID == "" {
		return fmt.Errorf("series id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE event_series SET
		   name = ?, start_time = ?, end_time = ?, recurrence = ?, summary = ?,
		   attendee_limit = ?, last_materialized = ?
		 WHERE id = ?`,
		series.Name, series.StartTime, series.EndTime, series.Recurrence,
		series.Summary, int64(series.AttendeeLimit),
		timeToUnixMillis(series.LastMaterialized),
		series.ID,
	)
	if err != nil {
		return fmt.Errorf("update event series: %w", err)
	}
	return nil
}

// DeleteEventSeries removes a series; materialized events keep their rows.
func (s *Store) DeleteEventSeries(ctx context.Context, seriesID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM event_series WHERE id = ?`, strings.TrimSpace(seriesID)); err != nil {
		return fmt.Errorf("delete event series: %w", err)
	}
	return nil
}

// GetEventSeries loads a series by id.
func (s *Store) GetEventSeries(ctx context.Context, seriesID string) (webstorage.EventSeries, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.EventSeries{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, team_id, name, start_time, end_time, recurrence, summary,
		   attendee_limit, last_materialized, created_at
		 FROM event_series WHERE id = ?`,
		strings.TrimSpace(seriesID),
	)
	series, err := scanEventSeries(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.EventSeries{}, false, nil
		}
		return webstorage.EventSeries{}, false, fmt.Errorf("get event series: %w", err)
	}
	return series, true, nil
}

func scanEventSeries(scanner rowScanner) (webstorage.EventSeries, error) {
	var series webstorage.EventSeries
	var attendeeLimit, lastMaterialized, createdAt int64
	err := scanner.Scan(
		&series.ID,
		&series.TeamID,
		&series.Name,
		&series.StartTime,
		&series.EndTime,
		&series.Recurrence,
		&series.Summary,
		&attendeeLimit,
		&lastMaterialized,
		&createdAt,
	)
	if err != nil {
		return webstorage.EventSeries{}, err
	}
	series.AttendeeLimit = int(attendeeLimit)
	series.LastMaterialized = unixMillisToTime(lastMaterialized)
	series.CreatedAt = unixMillisToTime(createdAt)
	return series, nil
}

// ListEventSeries returns every series ordered by creation.
func (s *Store) ListEventSeries(ctx context.Context) ([]webstorage.EventSeries, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, team_id, name, start_time, end_time, recurrence, summary,
		   attendee_limit, last_materialized, created_at
		 FROM event_series ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list event series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seriesList := make([]webstorage.EventSeries, 0)
	for rows.Next() {
		series, err := scanEventSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event series: %w", err)
		}
		seriesList = append(seriesList, series)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event series: %w", err)
	}
	return seriesList, nil
}

// PutPresentation upserts a scheduled presentation.
func (s *Store) PutPresentation(ctx context.Context, presentation webstorage.Presentation) error {
	if err := s.ready(); err != nil {
		return err
	}
	if presentation.ID == "" || presentation.EventID == "" || presentation.TalkID == "" {
		return fmt.Errorf("presentation id, event id and talk id are required")
	}
	if presentation.CreatedAt.IsZero() {
		presentation.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO presentations (id, event_id, talk_id, start_time, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET start_time = excluded.start_time`,
		presentation.ID, presentation.EventID, presentation.TalkID,
		timeToUnixMillis(presentation.StartTime), timeToUnixMillis(presentation.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put presentation: %w", err)
	}
	return nil
}

// ListPresentations returns scheduled presentations for an event.
func (s *Store) ListPresentations(ctx context.Context, eventID string) ([]webstorage.Presentation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, event_id, talk_id, start_time, created_at
		 FROM presentations WHERE event_id = ? ORDER BY start_time`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	presentations := make([]webstorage.Presentation, 0)
	for rows.Next() {
		var presentation webstorage.Presentation
		var startTime, createdAt int64
		if err := rows.Scan(&presentation.ID, &presentation.EventID, &presentation.TalkID, &startTime, &createdAt); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		presentation.StartTime = unixMillisToTime(startTime)
		presentation.CreatedAt = unixMillisToTime(createdAt)
		presentations = append(presentations, presentation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presentations: %w", err)
	}
	return presentations, nil
}

// CreateEventInvite inserts an event invitation.
func (s *Store) CreateEventInvite(ctx context.Context, invite webstorage.EventInvite) error {
	if err := s.ready(); err != nil {
		return err
	}
	if invite.ID == "" || invite.EventID == "" {
		return fmt.Errorf("invite id and event id are required")
	}
	invite.Email = strings.ToLower(strings.TrimSpace(invite.Email))
	if invite.Email == "" {
		return fmt.Errorf("invite email is required")
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO event_invites (id, event_id, email, created_at) VALUES (?, ?, ?, ?)`,
		invite.ID, invite.EventID, invite.Email, timeToUnixMillis(invite.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create event invite: %w", err)
	}
	return nil
}

// ListEventInvites returns invitations sent for an event.
func (s *Store) ListEventInvites(ctx context.Context, eventID string) ([]webstorage.EventInvite, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, event_id, email, created_at FROM event_invites WHERE event_id = ? ORDER BY created_at`,
		strings.TrimSpace(eventID),
	)
	if err != nil {
		return nil, fmt.Errorf("list event invites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	invites := make([]webstorage.EventInvite, 0)
	for rows.Next() {
		var invite webstorage.EventInvite
		var createdAt int64
		if err := rows.Scan(&invite.ID, &invite.EventID, &invite.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event invite: %w", err)
		}
		invite.CreatedAt = unixMillisToTime(createdAt)
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event invites: %w", err)
	}
	return invites, nil
}
