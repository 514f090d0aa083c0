// Package worker runs the scheduled background jobs behind the web
// service: materializing recurring event series and mailing event
// reminders.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const (
	defaultSchedule           = "@hourly"
	defaultMaterializeHorizon = 30 * 24 * time.Hour
	defaultReminderLead       = 24 * time.Hour
	defaultReminderWindow     = time.Hour
)

// Config controls worker startup and job cadence.
type Config struct {
	Store   webstorage.Store
	Sender  mail.Sender
	BaseURL string
	Logger  *log.Logger

	// Schedule is a cron expression shared by both jobs.
	Schedule           string
	MaterializeHorizon time.Duration
	ReminderLead       time.Duration
	ReminderWindow     time.Duration
}

// Runtime owns the cron scheduler and job state.
type Runtime struct {
	store  webstorage.Store
	sender mail.Sender

	baseURL  string
	logger   *log.Logger
	schedule string
	horizon  time.Duration
	lead     time.Duration
	window   time.Duration

	now   func() time.Time
	newID func() string
}

// New validates config and constructs a worker runtime.
func New(cfg Config) (*Runtime, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sender == nil {
		return nil, errors.New("mail sender is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	horizon := cfg.MaterializeHorizon
	if horizon <= 0 {
		horizon = defaultMaterializeHorizon
	}
	lead := cfg.ReminderLead
	if lead <= 0 {
		lead = defaultReminderLead
	}
	window := cfg.ReminderWindow
	if window <= 0 {
		window = defaultReminderWindow
	}
	return &Runtime{
		store:    cfg.Store,
		sender:   cfg.Sender,
		baseURL:  cfg.BaseURL,
		logger:   logger,
		schedule: schedule,
		horizon:  horizon,
		lead:     lead,
		window:   window,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// Run schedules the jobs and blocks until context cancellation. Running
// jobs finish before Run returns.
func (rt *Runtime) Run(ctx context.Context) error {
	if rt == nil {
		return errors.New("worker runtime is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(rt.schedule, func() {
		if created, err := rt.MaterializeSeries(ctx); err != nil {
			rt.logger.Printf("materialize series: %v", err)
		} else if created > 0 {
			rt.logger.Printf("materialized %d events from series", created)
		}
	}); err != nil {
		return fmt.Errorf("schedule series job: %w", err)
	}
	if _, err := scheduler.AddFunc(rt.schedule, func() {
		if sent, err := rt.SendReminders(ctx); err != nil {
			rt.logger.Printf("send reminders: %v", err)
		} else if sent > 0 {
			rt.logger.Printf("sent %d event reminders", sent)
		}
	}); err != nil {
		return fmt.Errorf("schedule reminder job: %w", err)
	}

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}
