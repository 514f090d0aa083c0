package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/sessioncookie"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// Service implements magic-link login, browser sessions and passkey
// ceremonies on top of the web store.
type Service struct {
	cfg         Config
	store       webstorage.Store
	sender      mail.Sender
	magicSecret []byte
	webAuthn    *webauthn.WebAuthn

	now   func() time.Time
	newID func() string
}

// NewService wires authentication against the store and mail sender.
func NewService(cfg Config, store webstorage.Store, sender mail.Sender) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	secret := strings.TrimSpace(cfg.MagicSecret)
	if secret == "" {
		return nil, fmt.Errorf("magic link secret is required")
	}
	wa, err := webauthn.New(&webauthn.Config{
		RPDisplayName: cfg.RPDisplayName,
		RPID:          cfg.RPID,
		RPOrigins:     cfg.RPOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("configure webauthn: %w", err)
	}
	return &Service{
		cfg:         cfg,
		store:       store,
		sender:      sender,
		magicSecret: []byte(secret),
		webAuthn:    wa,
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

// SendLoginLink emails a one-time login link to the address.
func (s *Service) SendLoginLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.EK(apperrors.KindInvalidInput, "login_email_required", "email is required")
	}
	token, err := s.issueMagicToken(email, s.now())
	if err != nil {
		return fmt.Errorf("send login link: %w", err)
	}
	link := strings.TrimRight(s.cfg.BaseURL, "/") + routepath.Magic + "?token=" + token
	message := mail.Message{
		To:      email,
		Subject: "Sign in to Get Together",
		Body: fmt.Sprintf(
			"Follow this link to sign in:\n\n%s\n\nThe link expires in %s. If you did not request it, ignore this message.\n",
			link, s.cfg.MagicTTL,
		),
	}
	if err := s.sender.Send(ctx, message); err != nil {
		return fmt.Errorf("send login link: %w", err)
	}
	return nil
}

// CompleteLogin validates a magic token, creating the profile on first
// login, and opens a session. It returns the session ID for the cookie.
func (s *Service) CompleteLogin(ctx context.Context, token string) (webstorage.Profile, string, error) {
	email, err := s.verifyMagicToken(token)
	if err != nil {
		return webstorage.Profile{}, "", apperrors.EK(apperrors.KindUnauthorized, "login_link_invalid", "this login link is no longer valid")
	}
	profile, err := s.profileForEmail(ctx, email)
	if err != nil {
		return webstorage.Profile{}, "", err
	}
	sessionID, err := s.openSession(ctx, profile.ID)
	if err != nil {
		return webstorage.Profile{}, "", err
	}
	return profile, sessionID, nil
}

func (s *Service) profileForEmail(ctx context.Context, email string) (webstorage.Profile, error) {
	profile, ok, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		return webstorage.Profile{}, fmt.Errorf("look up profile: %w", err)
	}
	if ok {
		return profile, nil
	}
	profile = webstorage.Profile{
		ID:                s.newID(),
		Email:             email,
		TZ:                "UTC",
		SendNotifications: true,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return webstorage.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

func (s *Service) openSession(ctx context.Context, profileID string) (string, error) {
	now := s.now().UTC()
	session := webstorage.Session{
		ID:        s.newID(),
		ProfileID: profileID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return session.ID, nil
}

// Logout removes the session named by the request cookie, when any.
func (s *Service) Logout(ctx context.Context, r *http.Request) error {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		return nil
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ResolveProfile returns the signed-in profile for the request cookie.
// Expired sessions are deleted on sight.
func (s *Service) ResolveProfile(r *http.Request) (webstorage.Profile, bool) {
	if r == nil {
		return webstorage.Profile{}, false
	}
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		return webstorage.Profile{}, false
	}
	ctx := r.Context()
	session, ok, err := s.store.GetSession(ctx, sessionID)
	if err != nil || !ok {
		return webstorage.Profile{}, false
	}
	if !session.ExpiresAt.After(s.now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return webstorage.Profile{}, false
	}
	profile, ok, err := s.store.GetProfile(ctx, session.ProfileID)
	if err != nil || !ok {
		return webstorage.Profile{}, false
	}
	return profile, true
}
