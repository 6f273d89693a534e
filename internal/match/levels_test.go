// File path: internal/match/levels_test.go
package match

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
)

func TestMapSeekerLevelsCoversAllGrades(t *testing.T) {
	for grade := 1; grade <= 12; grade++ {
		buckets := MapSeekerLevels([]string{fmt.Sprintf("grade_%d", grade)})
		if len(buckets) != 1 {
			t.Fatalf("grade_%d mapped to %v", grade, buckets)
		}
	}
}

func TestMapSeekerLevelsDeduplicatesAndSorts(t *testing.T) {
	buckets := MapSeekerLevels([]string{"grade_12", "grade_2", "grade_11", "grade_1"})
	want := []string{BucketHighSchool, BucketPrimary}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("expected %v, got %v", want, buckets)
	}
}

func TestMapSeekerLevelsDropsUnknownValues(t *testing.T) {
	buckets := MapSeekerLevels([]string{"grade_13", "kindergarten", "", "grade_5"})
	want := []string{BucketPrimary}
	if !reflect.DeepEqual(buckets, want) {
		t.Fatalf("expected unknown grades dropped, got %v", buckets)
	}
}

func TestMapProviderLevelsExpandsBuckets(t *testing.T) {
	grades := MapProviderLevels([]string{BucketHighSchool})
	want := []string{"grade_10", "grade_11", "grade_12"}
	if !reflect.DeepEqual(grades, want) {
		t.Fatalf("expected %v, got %v", want, grades)
	}
}

func TestMapProviderLevelsDropsUnknownBuckets(t *testing.T) {
	grades := MapProviderLevels([]string{"university", BucketSecondary})
	want := []string{"grade_6", "grade_7", "grade_8", "grade_9"}
	if !reflect.DeepEqual(grades, want) {
		t.Fatalf("expected unknown bucket dropped, got %v", grades)
	}
}

func TestMappingsRoundTrip(t *testing.T) {
	// Every bucket's grade expansion maps back to exactly that bucket.
	for _, bucket := range []string{BucketPrimary, BucketSecondary, BucketHighSchool} {
		back := MapSeekerLevels(MapProviderLevels([]string{bucket}))
		if !reflect.DeepEqual(back, []string{bucket}) {
			t.Fatalf("bucket %s round-tripped to %v", bucket, back)
		}
	}
}

func TestCanonicalBucketsBySide(t *testing.T) {
	seeker := catalog.Listing{Side: catalog.SideSeeker, Levels: []string{"grade_7"}}
	if got := canonicalBuckets(seeker); !reflect.DeepEqual(got, []string{BucketSecondary}) {
		t.Fatalf("seeker buckets: %v", got)
	}
	provider := catalog.Listing{Side: catalog.SideProvider, Levels: []string{"High_School", "something_else"}}
	if got := canonicalBuckets(provider); !reflect.DeepEqual(got, []string{BucketHighSchool}) {
		t.Fatalf("provider buckets: %v", got)
	}
}
