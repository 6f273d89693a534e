// File path: internal/catalog/mapper.go
package catalog

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

type listingRow struct {
	ID               string          `db:"id"`
	OwnerID          string          `db:"owner_id"`
	Side             string          `db:"side"`
	Price            sql.NullFloat64 `db:"price"`
	PriceMin         sql.NullFloat64 `db:"price_min"`
	PriceMax         sql.NullFloat64 `db:"price_max"`
	Mode             string          `db:"mode"`
	Description      string          `db:"description"`
	Requirements     string          `db:"requirements"`
	Status           string          `db:"status"`
	Reputation       float64         `db:"reputation"`
	ContentUpdatedAt time.Time       `db:"content_updated_at"`
	Embedding        []byte          `db:"embedding"`
	EmbeddedAt       sql.NullTime    `db:"embedded_at"`
	EmbeddingHash    string          `db:"embedding_hash"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type profileRow struct {
	OwnerID          string       `db:"owner_id"`
	Headline         string       `db:"headline"`
	Biography        string       `db:"biography"`
	Experience       string       `db:"experience"`
	Reputation       float64      `db:"reputation"`
	ContentUpdatedAt time.Time    `db:"content_updated_at"`
	Embedding        []byte       `db:"embedding"`
	EmbeddedAt       sql.NullTime `db:"embedded_at"`
	EmbeddingHash    string       `db:"embedding_hash"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

func (r listingRow) toListing(subjects, levels []string) Listing {
	listing := Listing{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Side:             Side(r.Side),
		Subjects:         subjects,
		Levels:           levels,
		Mode:             DeliveryMode(r.Mode),
		Description:      r.Description,
		Requirements:     r.Requirements,
		Status:           Status(r.Status),
		Reputation:       r.Reputation,
		ContentUpdatedAt: r.ContentUpdatedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.Price.Valid {
		v := r.Price.Float64
		listing.Price = &v
	}
	if r.PriceMin.Valid {
		v := r.PriceMin.Float64
		listing.PriceMin = &v
	}
	if r.PriceMax.Valid {
		v := r.PriceMax.Float64
		listing.PriceMax = &v
	}
	listing.Embedding = embeddingFromColumns(r.Embedding, r.EmbeddedAt, r.EmbeddingHash)
	return listing
}

func (r profileRow) toProfile() ProviderProfile {
	return ProviderProfile{
		OwnerID:          r.OwnerID,
		Headline:         r.Headline,
		Biography:        r.Biography,
		Experience:       r.Experience,
		Reputation:       r.Reputation,
		ContentUpdatedAt: r.ContentUpdatedAt,
		Embedding:        embeddingFromColumns(r.Embedding, r.EmbeddedAt, r.EmbeddingHash),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func embeddingFromColumns(blob []byte, at sql.NullTime, hash string) *EmbeddingRecord {
	if len(blob) == 0 {
		return nil
	}
	vector, err := decodeVector(blob)
	if err != nil || len(vector) == 0 {
		return nil
	}
	record := &EmbeddingRecord{Vector: vector, SourceHash: hash}
	if at.Valid {
		record.ComputedAt = at.Time
	}
	return record
}

// encodeVector serialises an embedding as little-endian float32 values. The
// catalog persists vectors as opaque blobs; dimensionality is recovered from
// the blob length.
func encodeVector(vector []float32) []byte {
	if len(vector) == 0 {
		return nil
	}
	out := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("malformed vector blob of %d bytes", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
