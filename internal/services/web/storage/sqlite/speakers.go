package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// PutSpeaker upserts a speaking persona.
func (s *Store) PutSpeaker(ctx context.Context, speaker webstorage.Speaker) error {
	if err := s.ready(); err != nil {
		return err
	}
	speaker.ID = strings.TrimSpace(speaker.ID)
	if speaker.ID == "" {
		return fmt.Errorf("speaker id is required")
	}
	if speaker.ProfileID == "" {
		return fmt.Errorf("speaker profile id is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO speakers (id, profile_id, avatar_url, title, bio, categories)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   avatar_url = excluded.avatar_url,
		   title = excluded.title,
		   bio = excluded.bio,
		   categories = excluded.categories`,
		speaker.ID, speaker.ProfileID, speaker.AvatarURL,
		speaker.Title, speaker.Bio, speaker.Categories,
	)
	if err != nil {
		return fmt.Errorf("put speaker: %w", err)
	}
	return nil
}

// DeleteSpeaker removes a speaker; its talks cascade.
func (s *Store) DeleteSpeaker(ctx context.Context, speakerID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM speakers WHERE id = ?`, strings.TrimSpace(speakerID)); err != nil {
		return fmt.Errorf("delete speaker: %w", err)
	}
	return nil
}

// GetSpeaker loads a speaker by id.
func (s *Store) GetSpeaker(ctx context.Context, speakerID string) (webstorage.Speaker, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Speaker{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, profile_id, avatar_url, title, bio, categories FROM speakers WHERE id = ?`,
		strings.TrimSpace(speakerID),
	)
	var speaker webstorage.Speaker
	err := row.Scan(&speaker.ID, &speaker.ProfileID, &speaker.AvatarURL, &speaker.Title, &speaker.Bio, &speaker.Categories)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Speaker{}, false, nil
		}
		return webstorage.Speaker{}, false, fmt.Errorf("get speaker: %w", err)
	}
	return speaker, true, nil
}

// ListSpeakersForProfile returns the speaking personas of a profile.
func (s *Store) ListSpeakersForProfile(ctx context.Context, profileID string) ([]webstorage.Speaker, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, profile_id, avatar_url, title, bio, categories
		 FROM speakers WHERE profile_id = ? ORDER BY title COLLATE NOCASE`,
		strings.TrimSpace(profileID),
	)
	if err != nil {
		return nil, fmt.Errorf("list speakers for profile: %w", err)
	}
	defer func() { _ = rows.Close() }()

	speakers := make([]webstorage.Speaker, 0)
	for rows.Next() {
		var speaker webstorage.Speaker
		if err := rows.Scan(&speaker.ID, &speaker.ProfileID, &speaker.AvatarURL, &speaker.Title, &speaker.Bio, &speaker.Categories); err != nil {
			return nil, fmt.Errorf("scan speaker: %w", err)
		}
		speakers = append(speakers, speaker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate speakers: %w", err)
	}
	return speakers, nil
}

// PutTalk upserts a talk offered by a speaker.
func (s *Store) PutTalk(ctx context.Context, talk webstorage.Talk) error {
	if err := s.ready(); err != nil {
		return err
	}
	talk.ID = strings.TrimSpace(talk.ID)
	if talk.ID == "" {
		return fmt.Errorf("talk id is required")
	}
	if talk.SpeakerID == "" {
		return fmt.Errorf("talk speaker id is required")
	}
	if strings.TrimSpace(talk.Title) == "" {
		return fmt.Errorf("talk title is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO talks (id, speaker_id, title, abstract, talk_type, web_url, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   abstract = excluded.abstract,
		   talk_type = excluded.talk_type,
		   web_url = excluded.web_url,
		   category = excluded.category`,
		talk.ID, talk.SpeakerID, talk.Title, talk.Abstract,
		talk.TalkType, talk.WebURL, talk.Category,
	)
	if err != nil {
		return fmt.Errorf("put talk: %w", err)
	}
	return nil
}

// DeleteTalk removes a talk; its presentations cascade.
func (s *Store) DeleteTalk(ctx context.Context, talkID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM talks WHERE id = ?`, strings.TrimSpace(talkID)); err != nil {
		return fmt.Errorf("delete talk: %w", err)
	}
	return nil
}

// GetTalk loads a talk by id.
func (s *Store) GetTalk(ctx context.Context, talkID string) (webstorage.Talk, bool, error) {
	if err := s.ready(); err != nil {
		return webstorage.Talk{}, false, err
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, speaker_id, title, abstract, talk_type, web_url, category FROM talks WHERE id = ?`,
		strings.TrimSpace(talkID),
	)
	var talk webstorage.Talk
	err := row.Scan(&talk.ID, &talk.SpeakerID, &talk.Title, &talk.Abstract, &talk.TalkType, &talk.WebURL, &talk.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return webstorage.Talk{}, false, nil
		}
		return webstorage.Talk{}, false, fmt.Errorf("get talk: %w", err)
	}
	return talk, true, nil
}

// ListTalksForSpeaker returns the talks a speaker offers.
func (s *Store) ListTalksForSpeaker(ctx context.Context, speakerID string) ([]webstorage.Talk, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, speaker_id, title, abstract, talk_type, web_url, category
		 FROM talks WHERE speaker_id = ? ORDER BY title COLLATE NOCASE`,
		strings.TrimSpace(speakerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list talks for speaker: %w", err)
	}
	defer func() { _ = rows.Close() }()

	talks := make([]webstorage.Talk, 0)
	for rows.Next() {
		var talk webstorage.Talk
		if err := rows.Scan(&talk.ID, &talk.SpeakerID, &talk.Title, &talk.Abstract, &talk.TalkType, &talk.WebURL, &talk.Category); err != nil {
			return nil, fmt.Errorf("scan talk: %w", err)
		}
		talks = append(talks, talk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate talks: %w", err)
	}
	return talks, nil
}
