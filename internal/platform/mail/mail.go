// Package mail delivers transactional email for the web and worker
// services.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/gettogethercomm/gettogether/internal/platform/timeouts"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations must be safe for concurrent
// use.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Config controls SMTP delivery.
type Config struct {
	Host     string `env:"GET_TOGETHER_SMTP_HOST"`
	Port     int    `env:"GET_TOGETHER_SMTP_PORT" envDefault:"587"`
	Username string `env:"GET_TOGETHER_SMTP_USERNAME"`
	Password string `env:"GET_TOGETHER_SMTP_PASSWORD"`
	From     string `env:"GET_TOGETHER_SMTP_FROM" envDefault:"noreply@gettogether.community"`
}

// LoadConfigFromEnv reads SMTP configuration with defaults.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = "noreply@gettogether.community"
	}
	return cfg
}

// SMTPSender delivers mail over SMTP with optional plain auth.
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender builds a sender; Host is required.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers one message, honoring the context deadline.
func (s *SMTPSender) Send(ctx context.Context, message Message) error {
	to := strings.TrimSpace(message.To)
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.SMTPSend)
	defer cancel()

	payload := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.cfg.From, to, strings.ReplaceAll(message.Subject, "\n", " "), message.Body,
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(payload))
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
}

// LogSender records messages instead of delivering them. It backs local
// development when SMTP is not configured.
type LogSender struct {
	Printf func(format string, args ...any)
}

// Send logs the message.
func (s LogSender) Send(_ context.Context, message Message) error {
	if s.Printf != nil {
		s.Printf("mail to=%s subject=%q body=%q", message.To, message.Subject, message.Body)
	}
	return nil
}
