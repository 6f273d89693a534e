// File path: internal/catalog/profiles.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UpsertProfile inserts or replaces a provider profile.
func (s *Store) UpsertProfile(ctx context.Context, profile ProviderProfile) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	if strings.TrimSpace(profile.OwnerID) == "" {
		return errors.New("profile owner id required")
	}
	now := time.Now().UTC()
	if profile.ContentUpdatedAt.IsZero() {
		profile.ContentUpdatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles
		(owner_id, headline, biography, experience, reputation, content_updated_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			headline = excluded.headline,
			biography = excluded.biography,
			experience = excluded.experience,
			reputation = excluded.reputation,
			content_updated_at = excluded.content_updated_at,
			updated_at = excluded.updated_at`,
		profile.OwnerID, profile.Headline, profile.Biography, profile.Experience,
		profile.Reputation, profile.ContentUpdatedAt, now, now)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", profile.OwnerID, err)
	}
	return nil
}

// ProfileByOwner retrieves the provider profile for an identity.
func (s *Store) ProfileByOwner(ctx context.Context, ownerID string) (*ProviderProfile, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, errors.New("profile owner id required")
	}
	var row profileRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE owner_id = ?`, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select profile %s: %w", ownerID, err)
	}
	profile := row.toProfile()
	return &profile, nil
}

// SaveProfileEmbedding stores the embedding record on a profile.
func (s *Store) SaveProfileEmbedding(ctx context.Context, ownerID string, record EmbeddingRecord) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	if len(record.Vector) == 0 {
		return errors.New("embedding vector required")
	}
	computedAt := record.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET embedding = ?, embedded_at = ?, embedding_hash = ? WHERE owner_id = ?`,
		encodeVector(record.Vector), computedAt, record.SourceHash, ownerID)
	if err != nil {
		return fmt.Errorf("save profile embedding: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StaleProfiles lists profiles whose embedding is missing or predates the
// current content, bounded to limit rows. The background refresher drains
// this in batches.
func (s *Store) StaleProfiles(ctx context.Context, limit int) ([]ProviderProfile, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	rows := []profileRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM profiles
		WHERE embedding IS NULL OR embedded_at IS NULL OR embedded_at < content_updated_at
		ORDER BY content_updated_at LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select stale profiles: %w", err)
	}
	profiles := make([]ProviderProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}
