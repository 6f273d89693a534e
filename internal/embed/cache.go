// File path: internal/embed/cache.go
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

// Kind identifies which entity family an embedding belongs to.
type Kind string

const (
	KindListing Kind = "listing"
	KindProfile Kind = "profile"
)

// Key addresses one entity's embedding slot together with the staleness
// markers of its current content.
type Key struct {
	Kind        Kind
	ID          string
	ContentHash string
	UpdatedAt   time.Time
}

// Cache is the per-entity embedding store. Get returns a vector only when
// the cached record is not staler than the key's content markers. Writes are
// idempotent single-entity operations; concurrent recomputation for the same
// entity is tolerated with last write wins, since embeddings are a
// deterministic function of content.
type Cache interface {
	Get(ctx context.Context, key Key) ([]float32, bool)
	Put(ctx context.Context, key Key, vector []float32) error
}

// ContentHash derives the staleness marker for a piece of entity content.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// FromRecord applies the staleness check to an already-loaded embedding
// record, avoiding a second store read for entities the engine has in hand.
func FromRecord(record *catalog.EmbeddingRecord, hash string, updatedAt time.Time) ([]float32, bool) {
	if !record.Fresh(hash, updatedAt) {
		return nil, false
	}
	return record.Vector, true
}

// StoreCache persists embeddings on the catalog rows that own them.
type StoreCache struct {
	store *catalog.Store
}

func NewStoreCache(store *catalog.Store) *StoreCache {
	return &StoreCache{store: store}
}

func (c *StoreCache) Get(ctx context.Context, key Key) ([]float32, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	record, err := c.load(ctx, key)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			common.Logger().Warn("embed: cache read failed", "kind", string(key.Kind), "id", key.ID, "error", err)
		}
		return nil, false
	}
	return FromRecord(record, key.ContentHash, key.UpdatedAt)
}

func (c *StoreCache) Put(ctx context.Context, key Key, vector []float32) error {
	if c == nil || c.store == nil {
		return errors.New("embed: store cache not initialised")
	}
	record := catalog.EmbeddingRecord{
		Vector:     vector,
		ComputedAt: time.Now().UTC(),
		SourceHash: key.ContentHash,
	}
	switch key.Kind {
	case KindProfile:
		return c.store.SaveProfileEmbedding(ctx, key.ID, record)
	default:
		return c.store.SaveListingEmbedding(ctx, key.ID, record)
	}
}

func (c *StoreCache) load(ctx context.Context, key Key) (*catalog.EmbeddingRecord, error) {
	switch key.Kind {
	case KindProfile:
		profile, err := c.store.ProfileByOwner(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		return profile.Embedding, nil
	default:
		listing, err := c.store.ListingByID(ctx, key.ID)
		if err != nil {
			return nil, err
		}
		return listing.Embedding, nil
	}
}
