package worker

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	t.Setenv("GET_TOGETHER_WORKER_DB_PATH", "/tmp/worker.db")

	cfg, err := ParseConfig(fs, []string{"-schedule", "@every 10m", "-reminder-lead", "48h"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "/tmp/worker.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "/tmp/worker.db")
	}
	if cfg.Schedule != "@every 10m" {
		t.Fatalf("schedule = %q, want %q", cfg.Schedule, "@every 10m")
	}
	if cfg.ReminderLead != 48*time.Hour {
		t.Fatalf("reminder lead = %v, want 48h", cfg.ReminderLead)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Schedule != "@hourly" {
		t.Fatalf("schedule = %q, want %q", cfg.Schedule, "@hourly")
	}
	if cfg.MaterializeHorizon != 720*time.Hour {
		t.Fatalf("materialize horizon = %v, want 720h", cfg.MaterializeHorizon)
	}
	if cfg.ReminderWindow != time.Hour {
		t.Fatalf("reminder window = %v, want 1h", cfg.ReminderWindow)
	}
}
