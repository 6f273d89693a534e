// File path: internal/catalog/types.go
package catalog

import "time"

// Side identifies which half of the marketplace a listing belongs to.
type Side string

const (
	SideSeeker   Side = "seeker"
	SideProvider Side = "provider"
)

// Opposite returns the other marketplace side.
func (s Side) Opposite() Side {
	if s == SideSeeker {
		return SideProvider
	}
	return SideSeeker
}

// Status captures the listing lifecycle. Only active listings are ever
// returned as match candidates.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DeliveryMode describes how instruction is delivered.
type DeliveryMode string

const (
	ModeOnline  DeliveryMode = "ONLINE"
	ModeOffline DeliveryMode = "OFFLINE"
	ModeBoth    DeliveryMode = "BOTH"
)

// EmbeddingRecord is a cached embedding vector together with the marker of
// the content it was computed from. A record whose marker predates the
// entity's current content is treated as absent.
type EmbeddingRecord struct {
	Vector     []float32
	ComputedAt time.Time
	SourceHash string
}

// Fresh reports whether the record still describes content with the given
// hash and last-modified time. When both hashes are known they are
// authoritative; otherwise the timestamps decide.
func (r *EmbeddingRecord) Fresh(hash string, updatedAt time.Time) bool {
	if r == nil || len(r.Vector) == 0 {
		return false
	}
	if r.SourceHash != "" && hash != "" {
		return r.SourceHash == hash
	}
	return !r.ComputedAt.Before(updatedAt)
}

// Listing is a marketplace listing on either side. Subjects and Levels hold
// opaque identifiers, not display names, so comparisons are exact. Seeker
// listings carry a price range; provider listings carry a point price.
type Listing struct {
	ID           string
	OwnerID      string
	Side         Side
	Subjects     []string
	Levels       []string
	Price        *float64
	PriceMin     *float64
	PriceMax     *float64
	Mode         DeliveryMode
	Description  string
	Requirements string
	Status       Status
	Reputation   float64

	ContentUpdatedAt time.Time
	Embedding        *EmbeddingRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderProfile is the one-to-one profile of a provider identity. Its
// embedding is aggregated from the biography plus a bounded sample of the
// provider's active listings.
type ProviderProfile struct {
	OwnerID    string
	Headline   string
	Biography  string
	Experience string
	Reputation float64

	ContentUpdatedAt time.Time
	Embedding        *EmbeddingRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceRange is a closed interval of acceptable prices.
type PriceRange struct {
	Min float64
	Max float64
}

// Filter is the structured candidate predicate compiled against the listing
// store. A nil/empty field disables its constraint; the filter never excludes
// all candidates by default.
type Filter struct {
	Side     Side
	Subjects []string
	Levels   []string
	// PriceRange constrains a candidate's point price (seeker finds
	// provider); PricePoint requires the candidate's range to contain the
	// point (provider finds seeker). At most one is set.
	PriceRange *PriceRange
	PricePoint *float64
	Mode       DeliveryMode
	Limit      int
}
