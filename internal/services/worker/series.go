package worker

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/teambition/rrule-go"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const wallClockLayout = "15:04"

// maxOccurrencesPerRun bounds how many events a single series can spawn in
// one pass, so a rule like FREQ=MINUTELY cannot flood the events table.
const maxOccurrencesPerRun = 200

// MaterializeSeries turns recurring series rules into concrete events up
// to the configured horizon. It returns how many events were created.
func (rt *Runtime) MaterializeSeries(ctx context.Context) (int, error) {
	now := rt.now().UTC()
	series, err := rt.store.ListEventSeries(ctx)
	if err != nil {
		return 0, fmt.Errorf("list event series: %w", err)
	}
	created := 0
	for _, entry := range series {
		n, err := rt.materializeOne(ctx, entry, now)
		if err != nil {
			rt.logger.Printf("materialize series %s: %v", entry.ID, err)
			continue
		}
		created += n
	}
	return created, nil
}

func (rt *Runtime) materializeOne(ctx context.Context, series webstorage.EventSeries, now time.Time) (int, error) {
	team, ok, err := rt.store.GetTeam(ctx, series.TeamID)
	if err != nil {
		return 0, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("team %s not found", series.TeamID)
	}
	loc, err := time.LoadLocation(team.TZ)
	if err != nil {
		loc = time.UTC
	}
	startClock, err := time.Parse(wallClockLayout, series.StartTime)
	if err != nil {
		return 0, fmt.Errorf("parse series start time %q: %w", series.StartTime, err)
	}
	endClock, err := time.Parse(wallClockLayout, series.EndTime)
	if err != nil {
		return 0, fmt.Errorf("parse series end time %q: %w", series.EndTime, err)
	}

	rule, err := rrule.StrToRRule(series.Recurrence)
	if err != nil {
		return 0, fmt.Errorf("parse recurrence %q: %w", series.Recurrence, err)
	}
	anchor := series.CreatedAt.In(loc)
	rule.DTStart(time.Date(anchor.Year(), anchor.Month(), anchor.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc))

	from := series.LastMaterialized
	if from.IsZero() {
		from = now
	}
	until := now.Add(rt.horizon)

	created := 0
	watermark := until
	for _, occurrence := range rule.Between(from.In(loc), until.In(loc), false) {
		start := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
		if created >= maxOccurrencesPerRun {
			// Resume from here on the next pass.
			watermark = start.UTC()
			break
		}
		end := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc)
		if !end.After(start) {
			// The series wraps past midnight.
			end = end.Add(24 * time.Hour)
		}
		event := webstorage.Event{
			ID:            rt.newID(),
			TeamID:        series.TeamID,
			SeriesID:      series.ID,
			Slug:          slugify(series.Name),
			Name:          series.Name,
			StartTime:     start.UTC(),
			EndTime:       end.UTC(),
			TZ:            team.TZ,
			Summary:       series.Summary,
			AttendeeLimit: series.AttendeeLimit,
			Status:        webstorage.EventStatusConfirmed,
			CreatedAt:     now,
		}
		if err := rt.store.CreateEvent(ctx, event); err != nil {
			return created, fmt.Errorf("create event: %w", err)
		}
		created++
	}

	series.LastMaterialized = watermark
	if err := rt.store.UpdateEventSeries(ctx, series); err != nil {
		return created, fmt.Errorf("advance series watermark: %w", err)
	}
	return created, nil
}

func slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
