// File path: internal/match/levels.go
package match

import (
	"sort"
	"strings"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

// Seeker listings carry school grades (grade_1..grade_12); provider listings
// carry coarse teaching buckets. The mapping is total in both directions for
// every value that can legally appear on a listing; anything else is dropped
// with a warning and never fails the request.

const (
	BucketPrimary    = "primary"
	BucketSecondary  = "secondary"
	BucketHighSchool = "high_school"
)

var gradeToBucket = map[string]string{
	"grade_1":  BucketPrimary,
	"grade_2":  BucketPrimary,
	"grade_3":  BucketPrimary,
	"grade_4":  BucketPrimary,
	"grade_5":  BucketPrimary,
	"grade_6":  BucketSecondary,
	"grade_7":  BucketSecondary,
	"grade_8":  BucketSecondary,
	"grade_9":  BucketSecondary,
	"grade_10": BucketHighSchool,
	"grade_11": BucketHighSchool,
	"grade_12": BucketHighSchool,
}

var bucketToGrades = map[string][]string{
	BucketPrimary:    {"grade_1", "grade_2", "grade_3", "grade_4", "grade_5"},
	BucketSecondary:  {"grade_6", "grade_7", "grade_8", "grade_9"},
	BucketHighSchool: {"grade_10", "grade_11", "grade_12"},
}

// MapSeekerLevels translates seeker grades into provider teaching buckets.
// An empty result simply means no level constraint.
func MapSeekerLevels(grades []string) []string {
	set := make(map[string]struct{})
	for _, grade := range grades {
		grade = strings.ToLower(strings.TrimSpace(grade))
		if grade == "" {
			continue
		}
		bucket, ok := gradeToBucket[grade]
		if !ok {
			common.Logger().Warn("match: dropping unmapped seeker level", "level", grade)
			continue
		}
		set[bucket] = struct{}{}
	}
	return sortedKeys(set)
}

// MapProviderLevels expands provider teaching buckets into the seeker grade
// vocabulary.
func MapProviderLevels(buckets []string) []string {
	set := make(map[string]struct{})
	for _, bucket := range buckets {
		bucket = strings.ToLower(strings.TrimSpace(bucket))
		if bucket == "" {
			continue
		}
		grades, ok := bucketToGrades[bucket]
		if !ok {
			common.Logger().Warn("match: dropping unmapped provider level", "level", bucket)
			continue
		}
		for _, grade := range grades {
			set[grade] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// canonicalBuckets reduces a listing's levels to the shared bucket
// vocabulary used for comparison, regardless of side.
func canonicalBuckets(listing catalog.Listing) []string {
	if listing.Side == catalog.SideSeeker {
		return MapSeekerLevels(listing.Levels)
	}
	set := make(map[string]struct{})
	for _, bucket := range listing.Levels {
		bucket = strings.ToLower(strings.TrimSpace(bucket))
		if _, ok := bucketToGrades[bucket]; !ok {
			if bucket != "" {
				common.Logger().Warn("match: dropping unmapped provider level", "level", bucket)
			}
			continue
		}
		set[bucket] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
