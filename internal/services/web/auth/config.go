// Package auth implements login, sessions and passkeys for the web
// service.
package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls magic-link timing, session lifetime and the WebAuthn
// relying party.
type Config struct {
	BaseURL       string        `env:"GET_TOGETHER_BASE_URL"            envDefault:"http://localhost:8000"`
	MagicSecret   string        `env:"GET_TOGETHER_MAGIC_LINK_SECRET"`
	MagicTTL      time.Duration `env:"GET_TOGETHER_MAGIC_LINK_TTL"      envDefault:"15m"`
	SessionTTL    time.Duration `env:"GET_TOGETHER_SESSION_TTL"         envDefault:"720h"`
	RPDisplayName string        `env:"GET_TOGETHER_WEBAUTHN_RP_DISPLAY_NAME" envDefault:"Get Together"`
	RPID          string        `env:"GET_TOGETHER_WEBAUTHN_RP_ID"      envDefault:"localhost"`
	RPOrigins     []string      `env:"GET_TOGETHER_WEBAUTHN_RP_ORIGINS" envSeparator:","`
	CeremonyTTL   time.Duration `env:"GET_TOGETHER_WEBAUTHN_SESSION_TTL" envDefault:"5m"`
}

// LoadConfigFromEnv loads authentication configuration with explicit
// defaults. Magic links are security-sensitive, so the defaults favor
// predictable behavior in local and CI environments.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.MagicTTL == 0 {
		cfg.MagicTTL = 15 * time.Minute
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 720 * time.Hour
	}
	if cfg.RPID == "" {
		cfg.RPID = "localhost"
	}
	if len(cfg.RPOrigins) == 0 {
		cfg.RPOrigins = []string{cfg.BaseURL}
	}
	if cfg.CeremonyTTL == 0 {
		cfg.CeremonyTTL = 5 * time.Minute
	}
	return cfg
}
