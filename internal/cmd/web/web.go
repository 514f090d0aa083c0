// Package web parses web command flags and launches the web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/gettogethercomm/gettogether/internal/platform/cmd"
	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	webserver "github.com/gettogethercomm/gettogether/internal/services/web"
	"github.com/gettogethercomm/gettogether/internal/services/web/auth"
	storagesqlite "github.com/gettogethercomm/gettogether/internal/services/web/storage/sqlite"
)

// Config holds web command configuration.
type Config struct {
	HTTPAddr string `env:"GET_TOGETHER_WEB_HTTP_ADDR" envDefault:"localhost:8000"`
	DBPath   string `env:"GET_TOGETHER_WEB_DB_PATH"   envDefault:"data/gettogether.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The web HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The web SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create web storage dir: %w", err)
			}
		}
		store, err := storagesqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open web sqlite store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close web sqlite store: %v", closeErr)
			}
		}()

		authCfg := auth.LoadConfigFromEnv()
		sender, err := newSender()
		if err != nil {
			return err
		}

		server, err := webserver.NewServer(ctx, webserver.Config{
			HTTPAddr: cfg.HTTPAddr,
			BaseURL:  authCfg.BaseURL,
			Store:    store,
			Sender:   sender,
			Auth:     authCfg,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		return server.ListenAndServe(ctx)
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
