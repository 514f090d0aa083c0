// Package worker parses worker command flags and launches the worker runtime.
package worker

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/gettogethercomm/gettogether/internal/platform/cmd"
	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/services/web/auth"
	storagesqlite "github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
	workerruntime "github.com/gettogethercomm/gettogether/internal/services/worker"
)

// Config holds worker command configuration.
type Config struct {
	DBPath             string        `env:"GET_TOGETHER_WORKER_DB_PATH"  envDefault:"data/gettogether.db"`
	Schedule           string        `env:"GET_TOGETHER_WORKER_SCHEDULE" envDefault:"@hourly"`
	MaterializeHorizon time.Duration `env:"GET_TOGETHER_WORKER_MATERIALIZE_HORIZON" envDefault:"720h"`
	ReminderLead       time.Duration `env:"GET_TOGETHER_WORKER_REMINDER_LEAD"       envDefault:"24h"`
	ReminderWindow     time.Duration `env:"GET_TOGETHER_WORKER_REMINDER_WINDOW"     envDefault:"1h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The web SQLite database path")
	fs.StringVar(&cfg.Schedule, "schedule", cfg.Schedule, "Cron schedule for background jobs")
	fs.DurationVar(&cfg.MaterializeHorizon, "materialize-horizon", cfg.MaterializeHorizon, "How far ahead to create events from series")
	fs.DurationVar(&cfg.ReminderLead, "reminder-lead", cfg.ReminderLead, "How long before an event reminders go out")
	fs.DurationVar(&cfg.ReminderWindow, "reminder-window", cfg.ReminderWindow, "Reminder window width, matched to the schedule cadence")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the worker runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorker, func(ctx context.Context) error {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create worker storage dir: %w", err)
			}
		}
		store, err := storagesqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open worker sqlite store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close worker sqlite store: %v", closeErr)
			}
		}()

		sender, err := newSender()
		if err != nil {
			return err
		}
		authCfg := auth.LoadConfigFromEnv()

		runtime, err := workerruntime.New(workerruntime.Config{
			Store:              store,
			Sender:             sender,
			BaseURL:            authCfg.BaseURL,
			Schedule:           cfg.Schedule,
			MaterializeHorizon: cfg.MaterializeHorizon,
			ReminderLead:       cfg.ReminderLead,
			ReminderWindow:     cfg.ReminderWindow,
		})
		if err != nil {
			return fmt.Errorf("init worker runtime: %w", err)
		}
		return runtime.Run(ctx)
	})
}

// newSender uses SMTP when configured and falls back to logging mail
// locally.
func newSender() (mail.Sender, error) {
	cfg := mail.LoadConfigFromEnv()
	if strings.TrimSpace(cfg.Host) == "" {
		log.Printf("smtp host not configured, logging outgoing mail")
		return mail.LogSender{Printf: log.Printf}, nil
	}
	sender, err := mail.NewSMTPSender(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure smtp: %w", err)
	}
	return sender, nil
}
