// File path: internal/catalog/listings.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// UpsertListing inserts or replaces a listing together with its subject and
// level sets. Content edits are expected to arrive with a bumped
// ContentUpdatedAt, which logically invalidates any stored embedding without
// deleting it.
func (s *Store) UpsertListing(ctx context.Context, listing Listing) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	if strings.TrimSpace(listing.ID) == "" {
		return errors.New("listing id required")
	}
	if listing.Side != SideSeeker && listing.Side != SideProvider {
		return fmt.Errorf("invalid listing side %q", listing.Side)
	}
	now := time.Now().UTC()
	if listing.ContentUpdatedAt.IsZero() {
		listing.ContentUpdatedAt = now
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO listings
			(id, owner_id, side, price, price_min, price_max, mode, description, requirements, status, reputation, content_updated_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				owner_id = excluded.owner_id,
				side = excluded.side,
				price = excluded.price,
				price_min = excluded.price_min,
				price_max = excluded.price_max,
				mode = excluded.mode,
				description = excluded.description,
				requirements = excluded.requirements,
				status = excluded.status,
				reputation = excluded.reputation,
				content_updated_at = excluded.content_updated_at,
				updated_at = excluded.updated_at`,
			listing.ID, listing.OwnerID, string(listing.Side),
			nullFloat(listing.Price), nullFloat(listing.PriceMin), nullFloat(listing.PriceMax),
			string(listing.Mode), listing.Description, listing.Requirements,
			string(listing.Status), listing.Reputation, listing.ContentUpdatedAt, now, now)
		if err != nil {
			return fmt.Errorf("upsert listing %s: %w", listing.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM listing_subjects WHERE listing_id = ?`, listing.ID); err != nil {
			return fmt.Errorf("clear listing subjects: %w", err)
		}
		for _, subject := range listing.Subjects {
			subject = strings.TrimSpace(subject)
			if subject == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO listing_subjects (listing_id, subject) VALUES (?, ?)`, listing.ID, subject); err != nil {
				return fmt.Errorf("insert listing subject: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM listing_levels WHERE listing_id = ?`, listing.ID); err != nil {
			return fmt.Errorf("clear listing levels: %w", err)
		}
		for _, level := range listing.Levels {
			level = strings.TrimSpace(level)
			if level == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO listing_levels (listing_id, level) VALUES (?, ?)`, listing.ID, level); err != nil {
				return fmt.Errorf("insert listing level: %w", err)
			}
		}
		return nil
	})
}

// ListingByID retrieves a single listing with its subject and level sets.
func (s *Store) ListingByID(ctx context.Context, id string) (*Listing, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("listing id required")
	}
	var row listingRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM listings WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select listing %s: %w", id, err)
	}
	subjects, levels, err := s.setsForListing(ctx, id)
	if err != nil {
		return nil, err
	}
	listing := row.toListing(subjects, levels)
	return &listing, nil
}

// ActiveListingsByOwner returns up to limit active listings owned by the
// given identity, used when aggregating provider profile embeddings.
func (s *Store) ActiveListingsByOwner(ctx context.Context, ownerID string, limit int) ([]Listing, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	if limit <= 0 {
		limit = 5
	}
	rows := []listingRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM listings
		WHERE owner_id = ? AND status = ? ORDER BY reputation DESC, id LIMIT ?`,
		ownerID, string(StatusActive), limit); err != nil {
		return nil, fmt.Errorf("select owner listings: %w", err)
	}
	return s.attachSets(ctx, rows)
}

// FindCandidates executes the structured filter against the opposite-side
// listing store. Results are active listings only, ordered by reputation so
// truncation drops the least promising candidates first. An empty result is
// not an error.
func (s *Store) FindCandidates(ctx context.Context, filter Filter) ([]Listing, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("catalog store not initialised")
	}
	if filter.Side != SideSeeker && filter.Side != SideProvider {
		return nil, fmt.Errorf("invalid candidate side %q", filter.Side)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 150
	}

	var (
		clauses = []string{"l.side = ?", "l.status = ?"}
		args    = []interface{}{string(filter.Side), string(StatusActive)}
	)
	if len(filter.Subjects) > 0 {
		placeholder, inArgs, err := sqlx.In(`EXISTS (SELECT 1 FROM listing_subjects ls WHERE ls.listing_id = l.id AND ls.subject IN (?))`, filter.Subjects)
		if err != nil {
			return nil, fmt.Errorf("build subject clause: %w", err)
		}
		clauses = append(clauses, placeholder)
		args = append(args, inArgs...)
	}
	if len(filter.Levels) > 0 {
		placeholder, inArgs, err := sqlx.In(`EXISTS (SELECT 1 FROM listing_levels ll WHERE ll.listing_id = l.id AND ll.level IN (?))`, filter.Levels)
		if err != nil {
			return nil, fmt.Errorf("build level clause: %w", err)
		}
		clauses = append(clauses, placeholder)
		args = append(args, inArgs...)
	}
	if filter.PriceRange != nil {
		// Candidates without a price are kept; the scorer drops the price
		// factor for them instead of excluding them outright. An infinite
		// upper bound is an open budget, so only the lower bound applies.
		if math.IsInf(filter.PriceRange.Max, 1) {
			clauses = append(clauses, `(l.price IS NULL OR l.price >= ?)`)
			args = append(args, filter.PriceRange.Min)
		} else {
			clauses = append(clauses, `(l.price IS NULL OR (l.price >= ? AND l.price <= ?))`)
			args = append(args, filter.PriceRange.Min, filter.PriceRange.Max)
		}
	}
	if filter.PricePoint != nil {
		// A missing lower bound means 0 and a missing upper bound means
		// unbounded, so a half-open budget still constrains the point.
		// Only a fully absent budget admits every price.
		clauses = append(clauses, `((l.price_min IS NULL OR l.price_min <= ?) AND (l.price_max IS NULL OR l.price_max >= ?))`)
		args = append(args, *filter.PricePoint, *filter.PricePoint)
	}
	if filter.Mode == ModeOnline || filter.Mode == ModeOffline {
		// Online candidates are always admitted as a cross-cutting allowance.
		clauses = append(clauses, `l.mode IN (?, ?, ?)`)
		args = append(args, string(filter.Mode), string(ModeBoth), string(ModeOnline))
	}

	query := fmt.Sprintf(`SELECT l.* FROM listings l WHERE %s ORDER BY l.reputation DESC, l.id LIMIT ?`,
		strings.Join(clauses, " AND "))
	args = append(args, limit)
	rows := []listingRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	return s.attachSets(ctx, rows)
}

// SaveListingEmbedding stores the embedding record on a listing. Writes are
// idempotent single-entity updates; concurrent recomputation is tolerated
// with last write wins.
func (s *Store) SaveListingEmbedding(ctx context.Context, id string, record EmbeddingRecord) error {
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
	res, err := s.db.ExecContext(ctx, `UPDATE listings SET embedding = ?, embedded_at = ?, embedding_hash = ? WHERE id = ?`,
		encodeVector(record.Vector), computedAt, record.SourceHash, id)
	if err != nil {
		return fmt.Errorf("save listing embedding: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) setsForListing(ctx context.Context, id string) ([]string, []string, error) {
	subjects := []string{}
	if err := s.db.SelectContext(ctx, &subjects, `SELECT subject FROM listing_subjects WHERE listing_id = ? ORDER BY subject`, id); err != nil {
		return nil, nil, fmt.Errorf("select listing subjects: %w", err)
	}
	levels := []string{}
	if err := s.db.SelectContext(ctx, &levels, `SELECT level FROM listing_levels WHERE listing_id = ? ORDER BY level`, id); err != nil {
		return nil, nil, fmt.Errorf("select listing levels: %w", err)
	}
	return subjects, levels, nil
}

func (s *Store) attachSets(ctx context.Context, rows []listingRow) ([]Listing, error) {
	listings := make([]Listing, 0, len(rows))
	for _, row := range rows {
		subjects, levels, err := s.setsForListing(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, row.toListing(subjects, levels))
	}
	return listings, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
