// File path: internal/embed/cache_test.go
package embed

import (
	"reflect"
	"testing"
	"time"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

func TestContentHashStableAndTrimmed(t *testing.T) {
	a := ContentHash("algebra tutoring")
	b := ContentHash("  algebra tutoring \n")
	if a != b {
		t.Fatalf("expected whitespace-insensitive hash")
	}
	if a == ContentHash("geometry tutoring") {
		t.Fatalf("expected distinct content to hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}

func TestFromRecordHashIsAuthoritative(t *testing.T) {
	now := time.Now()
	record := &catalog.EmbeddingRecord{
		Vector:     []float32{1, 2},
		ComputedAt: now.Add(-time.Hour),
		SourceHash: ContentHash("current text"),
	}
	// Hash matches, so the older timestamp does not matter.
	vector, ok := FromRecord(record, ContentHash("current text"), now)
	if !ok || !reflect.DeepEqual(vector, []float32{1, 2}) {
		t.Fatalf("expected fresh record by hash, got ok=%t", ok)
	}
	if _, ok := FromRecord(record, ContentHash("edited text"), now.Add(-2*time.Hour)); ok {
		t.Fatalf("hash mismatch must be stale even with a newer timestamp")
	}
}

func TestFromRecordTimestampFallback(t *testing.T) {
	now := time.Now()
	record := &catalog.EmbeddingRecord{Vector: []float32{1}, ComputedAt: now}
	if _, ok := FromRecord(record, "", now.Add(-time.Minute)); !ok {
		t.Fatalf("expected record computed after the edit to be fresh")
	}
	if _, ok := FromRecord(record, "", now.Add(time.Minute)); ok {
		t.Fatalf("expected record computed before the edit to be stale")
	}
}

func TestFromRecordNilOrEmpty(t *testing.T) {
	if _, ok := FromRecord(nil, "hash", time.Now()); ok {
		t.Fatalf("nil record is never fresh")
	}
	if _, ok := FromRecord(&catalog.EmbeddingRecord{SourceHash: "hash"}, "hash", time.Now()); ok {
		t.Fatalf("record without a vector is never fresh")
	}
}

func TestRedisKeyEncodesContentHash(t *testing.T) {
	key := Key{Kind: KindListing, ID: "listing-1", ContentHash: "abc"}
	edited := key
	edited.ContentHash = "def"
	if redisKey(key) == redisKey(edited) {
		t.Fatalf("content edits must change the cache key")
	}
	if redisKey(key) == redisKey(Key{Kind: KindProfile, ID: "listing-1", ContentHash: "abc"}) {
		t.Fatalf("kinds must not share keys")
	}
}

func TestVectorCodecRoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %v vs %v", in, out)
	}
}

func TestDecodeVectorRejectsMalformedPayload(t *testing.T) {
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for payload not divisible by 4")
	}
}
