package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	apperrors "github.com/gettogethercomm/gettogether/internal/services/web/platform/errors"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const (
	ceremonyRegistration = "registration"
	ceremonyLogin        = "login"
)

// webauthnUser adapts a profile and its stored credentials to the
// webauthn library.
type webauthnUser struct {
	profile     webstorage.Profile
	credentials []webauthn.Credential
}

func (u webauthnUser) WebAuthnID() []byte { return []byte(u.profile.ID) }

func (u webauthnUser) WebAuthnName() string { return u.profile.Email }

func (u webauthnUser) WebAuthnDisplayName() string {
	if u.profile.RealName != "" {
		return u.profile.RealName
	}
	return u.profile.Email
}

func (u webauthnUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }

func (s *Service) webauthnUserFor(ctx context.Context, profile webstorage.Profile) (webauthnUser, error) {
	stored, err := s.store.ListPasskeyCredentials(ctx, profile.ID)
	if err != nil {
		return webauthnUser{}, fmt.Errorf("list passkey credentials: %w", err)
	}
	user := webauthnUser{profile: profile}
	for _, record := range stored {
		var credential webauthn.Credential
		if err := json.Unmarshal(record.CredentialJSON, &credential); err != nil {
			return webauthnUser{}, fmt.Errorf("decode passkey credential %s: %w", record.ID, err)
		}
		user.credentials = append(user.credentials, credential)
	}
	return user, nil
}

func (s *Service) storeCeremony(ctx context.Context, kind, profileID string, data *webauthn.SessionData) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode ceremony state: %w", err)
	}
	session := webstorage.PasskeySession{
		ID:        s.newID(),
		Kind:      kind,
		ProfileID: profileID,
		DataJSON:  payload,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutPasskeySession(ctx, session); err != nil {
		return "", fmt.Errorf("store ceremony state: %w", err)
	}
	return session.ID, nil
}

func (s *Service) takeCeremony(ctx context.Context, ceremonyID, kind string) (webauthn.SessionData, string, error) {
	session, ok, err := s.store.TakePasskeySession(ctx, ceremonyID)
	if err != nil {
		return webauthn.SessionData{}, "", fmt.Errorf("take ceremony state: %w", err)
	}
	if !ok || session.Kind != kind {
		return webauthn.SessionData{}, "", apperrors.EK(apperrors.KindUnauthorized, "passkey_ceremony_invalid", "this passkey request is no longer valid")
	}
	if s.now().Sub(session.CreatedAt) > s.cfg.CeremonyTTL {
		return webauthn.SessionData{}, "", apperrors.EK(apperrors.KindUnauthorized, "passkey_ceremony_expired", "this passkey request has expired")
	}
	var data webauthn.SessionData
	if err := json.Unmarshal(session.DataJSON, &data); err != nil {
		return webauthn.SessionData{}, "", fmt.Errorf("decode ceremony state: %w", err)
	}
	return data, session.ProfileID, nil
}

// BeginPasskeyRegistration starts a credential creation ceremony for a
// signed-in profile. The returned ceremony ID pairs with the finish
// call.
func (s *Service) BeginPasskeyRegistration(ctx context.Context, profile webstorage.Profile) (*protocol.CredentialCreation, string, error) {
	user, err := s.webauthnUserFor(ctx, profile)
	if err != nil {
		return nil, "", err
	}
	var exclusions []protocol.CredentialDescriptor
	for _, credential := range user.credentials {
		exclusions = append(exclusions, credential.Descriptor())
	}
	creation, data, err := s.webAuthn.BeginRegistration(user,
		webauthn.WithExclusions(exclusions),
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
	)
	if err != nil {
		return nil, "", fmt.Errorf("begin passkey registration: %w", err)
	}
	ceremonyID, err := s.storeCeremony(ctx, ceremonyRegistration, profile.ID, data)
	if err != nil {
		return nil, "", err
	}
	return creation, ceremonyID, nil
}

// FinishPasskeyRegistration validates the authenticator response and
// stores the new credential.
func (s *Service) FinishPasskeyRegistration(ctx context.Context, profile webstorage.Profile, ceremonyID string, r *http.Request) error {
	data, profileID, err := s.takeCeremony(ctx, ceremonyID, ceremonyRegistration)
	if err != nil {
		return err
	}
	if profileID != profile.ID {
		return apperrors.EK(apperrors.KindUnauthorized, "passkey_ceremony_invalid", "this passkey request is no longer valid")
	}
	user, err := s.webauthnUserFor(ctx, profile)
	if err != nil {
		return err
	}
	credential, err := s.webAuthn.FinishRegistration(user, data, r)
	if err != nil {
		return apperrors.EK(apperrors.KindUnauthorized, "passkey_registration_failed", "the passkey could not be verified")
	}
	payload, err := json.Marshal(credential)
	if err != nil {
		return fmt.Errorf("encode passkey credential: %w", err)
	}
	now := s.now().UTC()
	record := webstorage.PasskeyCredential{
		ID:             base64.RawURLEncoding.EncodeToString(credential.ID),
		ProfileID:      profile.ID,
		CredentialJSON: payload,
		CreatedAt:      now,
		LastUsedAt:     now,
	}
	if err := s.store.PutPasskeyCredential(ctx, record); err != nil {
		return fmt.Errorf("store passkey credential: %w", err)
	}
	return nil
}

// BeginPasskeyLogin starts a discoverable-credential assertion so the
// browser can pick any registered passkey.
func (s *Service) BeginPasskeyLogin(ctx context.Context) (*protocol.CredentialAssertion, string, error) {
	assertion, data, err := s.webAuthn.BeginDiscoverableLogin()
	if err != nil {
		return nil, "", fmt.Errorf("begin passkey login: %w", err)
	}
	ceremonyID, err := s.storeCeremony(ctx, ceremonyLogin, "", data)
	if err != nil {
		return nil, "", err
	}
	return assertion, ceremonyID, nil
}

// FinishPasskeyLogin validates the assertion, refreshes the credential
// record and opens a session for the matched profile.
func (s *Service) FinishPasskeyLogin(ctx context.Context, ceremonyID string, r *http.Request) (webstorage.Profile, string, error) {
	data, _, err := s.takeCeremony(ctx, ceremonyID, ceremonyLogin)
	if err != nil {
		return webstorage.Profile{}, "", err
	}
	var matched webstorage.Profile
	handler := func(_, userHandle []byte) (webauthn.User, error) {
		profile, ok, err := s.store.GetProfile(ctx, string(userHandle))
		if err != nil {
			return nil, fmt.Errorf("look up profile: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("unknown passkey user handle")
		}
		matched = profile
		return s.webauthnUserFor(ctx, profile)
	}
	credential, err := s.webAuthn.FinishDiscoverableLogin(handler, data, r)
	if err != nil {
		return webstorage.Profile{}, "", apperrors.EK(apperrors.KindUnauthorized, "passkey_login_failed", "the passkey could not be verified")
	}
	credentialID := base64.RawURLEncoding.EncodeToString(credential.ID)
	if record, ok, err := s.store.GetPasskeyCredential(ctx, credentialID); err == nil && ok {
		if payload, err := json.Marshal(credential); err == nil {
			record.CredentialJSON = payload
		}
		record.LastUsedAt = s.now().UTC()
		_ = s.store.PutPasskeyCredential(ctx, record)
	}
	sessionID, err := s.openSession(ctx, matched.ID)
	if err != nil {
		return webstorage.Profile{}, "", err
	}
	return matched, sessionID, nil
}
