package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

const profileColumns = `id, email, real_name, web_url, city_id, tz, avatar_url,
 send_notifications, do_not_track, confirmed, created_at`

// CreateProfile inserts a new profile row.
func (s *Store) CreateProfile(ctx context.Context, profile webstorage.Profile) error {
	if err := s.ready(); err != nil {
		return err
	}
	profile.ID = strings.TrimSpace(profile.ID)
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email == "" {
		return fmt.Errorf("profile email is required")
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	if profile.TZ == "" {
		profile.TZ = "UTC"
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.Email,
		profile.RealName,
		profile.WebURL,
		profile.CityID,
		profile.TZ,
		profile.AvatarURL,
		boolToInt(profile.SendNotifications),
		boolToInt(profile.DoNotTrack),
		boolToInt(profile.Confirmed),
		timeToUnixMillis(profile.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// UpdateProfile rewrites a profile's mutable fields.
func (s *Store) UpdateProfile(ctx context.Context, profile webstorage.Profile) error {
	if err := s.ready(); err != nil {
		return err
	}
	profile.ID = strings.TrimSpace(profile.ID)
	if profile.ID == "" {
		return fmt.Errorf("profile id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE profiles SET
		   real_name = ?, web_url = ?, city_id = ?, tz = ?, avatar_url = ?,
		   send_notifications = ?, do_not_track = ?, confirmed = ?
		 WHERE id = ?`,
		profile.RealName,
		profile.WebURL,
		profile.CityID,
		profile.TZ,
		profile.AvatarURL,
		boolToInt(profile.SendNotifications),
		boolToInt(profile.DoNotTrack),
		boolToInt(profile.Confirmed),
		profile.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// GetProfile loads a profile by id.
func (s *Store) GetProfile(ctx context.Context, profileID string) (webstorage.Profile, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Profile{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`,
		strings.TrimSpace(profileID),
	)
	return scanProfile(row)
}

// GetProfileByEmail loads a profile by its lowercase email address.
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (webstorage.Profile, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Profile{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanProfile(row)
}

func scanProfile(row *sql.Row) (webstorage.Profile, bool, error) {
	var profile webstorage.Profile
	var sendNotifications, doNotTrack, confirmed, createdAt int64
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.RealName,
		&profile.WebURL,
		&profile.CityID,
		&profile.TZ,
		&profile.AvatarURL,
		&sendNotifications,
		&doNotTrack,
		&confirmed,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Profile{}, false, nil
		}
		return webstorage.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}
	profile.SendNotifications = sendNotifications != 0
	profile.DoNotTrack = doNotTrack != 0
	profile.Confirmed = confirmed != 0
	profile.CreatedAt = unixMillisToTime(createdAt)
	return profile, true, nil
}

// CreateSession inserts a browser session row.
func (s *Store) CreateSession(ctx context.Context, session webstorage.Session) error {
	if err := s.ready(); err != nil {
		return err
	}
	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if session.ProfileID == "" {
		return fmt.Errorf("session profile id is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, profile_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.ID,
		session.ProfileID,
		timeToUnixMillis(session.CreatedAt),
		timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession loads a session by id.
func (s *Store) GetSession(ctx context.Context, sessionID string) (webstorage.Session, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Session{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, profile_id, created_at, expires_at FROM sessions WHERE id = ?`,
		strings.TrimSpace(sessionID),
	)
	var session webstorage.Session
	var createdAt, expiresAt int64
	if err := row.Scan(&session.ID, &session.ProfileID, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Session{}, false, nil
		}
		return webstorage.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	return session, true, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, strings.TrimSpace(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PutPasskeyCredential upserts a webauthn credential for a profile.
func (s *Store) PutPasskeyCredential(ctx context.Context, credential webstorage.PasskeyCredential) error {
	if err := s.ready(); err != nil {
		return err
	}
	credential.ID = strings.TrimSpace(credential.ID)
	if credential.ID == "" {
		return fmt.Errorf("credential id is required")
	}
	if credential.ProfileID == "" {
		return fmt.Errorf("credential profile id is required")
	}
	if len(credential.CredentialJSON) == 0 {
		return fmt.Errorf("credential payload is required")
	}
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO passkey_credentials (id, profile_id, credential_json, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   credential_json = excluded.credential_json,
		   last_used_at = excluded.last_used_at`,
		credential.ID,
		credential.ProfileID,
		credential.CredentialJSON,
		timeToUnixMillis(credential.CreatedAt),
		timeToUnixMillis(credential.LastUsedAt),
	)
	if err != nil {
		return fmt.Errorf("put passkey credential: %w", err)
	}
	return nil
}

// ListPasskeyCredentials returns all credentials registered by a profile.
func (s *Store) ListPasskeyCredentials(ctx context.Context, profileID string) ([]webstorage.PasskeyCredential, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, profile_id, credential_json, created_at, last_used_at
		 FROM passkey_credentials WHERE profile_id = ? ORDER BY created_at`,
		strings.TrimSpace(profileID),
	)
	if err != nil {
		return nil, fmt.Errorf("list passkey credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	credentials := make([]webstorage.PasskeyCredential, 0)
	for rows.Next() {
		var credential webstorage.PasskeyCredential
		var createdAt, lastUsedAt int64
		if err := rows.Scan(&credential.ID, &credential.ProfileID, &credential.CredentialJSON, &createdAt, &lastUsedAt); err != nil {
			return nil, fmt.Errorf("scan passkey credential: %w", err)
		}
		credential.CreatedAt = unixMillisToTime(createdAt)
		credential.LastUsedAt = unixMillisToTime(lastUsedAt)
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passkey credentials: %w", err)
	}
	return credentials, nil
}

// GetPasskeyCredential loads a credential by id.
func (s *Store) GetPasskeyCredential(ctx context.Context, credentialID string) (webstorage.PasskeyCredential, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.PasskeyCredential{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, profile_id, credential_json, created_at, last_used_at
		 FROM passkey_credentials WHERE id = ?`,
		strings.TrimSpace(credentialID),
	)
	var credential webstorage.PasskeyCredential
	var createdAt, lastUsedAt int64
	if err := row.Scan(&credential.ID, &credential.ProfileID, &credential.CredentialJSON, &createdAt, &lastUsedAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.PasskeyCredential{}, false, nil
		}
		return webstorage.PasskeyCredential{}, false, fmt.Errorf("get passkey credential: %w", err)
	}
	credential.CreatedAt = unixMillisToTime(createdAt)
	credential.LastUsedAt = unixMillisToTime(lastUsedAt)
	return credential, true, nil
}

// PutPasskeySession stores transient webauthn ceremony state.
func (s *Store) PutPasskeySession(ctx context.Context, session webstorage.PasskeySession) error {
	if err := s.ready(); err != nil {
		return err
	}
	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		return fmt.Errorf("passkey session id is required")
	}
	if len(session.DataJSON) == 0 {
		return fmt.Errorf("passkey session payload is required")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO passkey_sessions (id, kind, profile_id, data_json, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   kind = excluded.kind,
		   profile_id = excluded.profile_id,
		   data_json = excluded.data_json`,
		session.ID,
		session.Kind,
		session.ProfileID,
		session.DataJSON,
		timeToUnixMillis(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put passkey session: %w", err)
	}
	return nil
}

// TakePasskeySession loads and deletes ceremony state in one step.
//
// Ceremony sessions are single-use; deleting on read prevents replay.
func (s *Store) TakePasskeySession(ctx context.Context, sessionID string) (webstorage.PasskeySession, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.PasskeySession{}, false, err
	}
	sessionID = strings.TrimSpace(sessionID)
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, kind, profile_id, data_json, created_at FROM passkey_sessions WHERE id = ?`,
		sessionID,
	)
	var session webstorage.PasskeySession
	var createdAt int64
	if err := row.Scan(&session.ID, &session.Kind, &session.ProfileID, &session.DataJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return webstorage.PasskeySession{}, false, nil
		}
		return webstorage.PasskeySession{}, false, fmt.Errorf("get passkey session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM passkey_sessions WHERE id = ?`, sessionID); err != nil {
		return webstorage.PasskeySession{}, false, fmt.Errorf("consume passkey session: %w", err)
	}
	return session, true, nil
}
