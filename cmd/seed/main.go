// File path: cmd/seed/main.go
// Seeds the catalog with a small set of sample listings and profiles for
// local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

func main() {
	logger := common.Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug("seed: .env file not loaded", "error", err)
	}

	catalogPath := flag.String("catalog", "skillbridge.db", "path to the SQLite catalog database")
	flag.Parse()

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		logger.Error("seed: catalog open failed", "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	listings, profiles := sampleData()
	for _, listing := range listings {
		if err := store.UpsertListing(ctx, listing); err != nil {
			logger.Error("seed: listing insert failed", "listing", listing.ID, "error", err)
			fmt.Println("seed error:", err)
			os.Exit(1)
		}
	}
	for _, profile := range profiles {
		if err := store.UpsertProfile(ctx, profile); err != nil {
			logger.Error("seed: profile insert failed", "owner", profile.OwnerID, "error", err)
			fmt.Println("seed error:", err)
			os.Exit(1)
		}
	}
	logger.Info("seed: catalog populated", "listings", len(listings), "profiles", len(profiles))
	fmt.Printf("Seeded %d listings and %d profiles into %s\n", len(listings), len(profiles), *catalogPath)
}

func fptr(v float64) *float64 {
	return &v
}

func sampleData() ([]catalog.Listing, []catalog.ProviderProfile) {
	tutorA := uuid.NewString()
	tutorB := uuid.NewString()
	tutorC := uuid.NewString()
	studentA := uuid.NewString()
	studentB := uuid.NewString()

	listings := []catalog.Listing{
		{
			ID:          uuid.NewString(),
			OwnerID:     tutorA,
			Side:        catalog.SideProvider,
			Subjects:    []string{"math", "physics"},
			Levels:      []string{"high_school"},
			Price:       fptr(25),
			Mode:        catalog.ModeOnline,
			Description: "Patient tutor focused on exam preparation for grades 10 to 12.",
			Status:      catalog.StatusActive,
			Reputation:  4.8,
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     tutorB,
			Side:        catalog.SideProvider,
			Subjects:    []string{"english", "literature"},
			Levels:      []string{"secondary", "high_school"},
			Price:       fptr(18),
			Mode:        catalog.ModeBoth,
			Description: "Essay writing and reading comprehension coaching.",
			Status:      catalog.StatusActive,
			Reputation:  4.2,
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     tutorC,
			Side:        catalog.SideProvider,
			Subjects:    []string{"math"},
			Levels:      []string{"primary"},
			Price:       fptr(12),
			Mode:        catalog.ModeOffline,
			Description: "Foundational arithmetic with lots of practice games.",
			Status:      catalog.StatusActive,
			Reputation:  4.5,
		},
		{
			ID:           uuid.NewString(),
			OwnerID:      studentA,
			Side:         catalog.SideSeeker,
			Subjects:     []string{"math"},
			Levels:       []string{"grade_11"},
			PriceMin:     fptr(15),
			PriceMax:     fptr(30),
			Mode:         catalog.ModeOnline,
			Description:  "Preparing for final exams, need help with calculus.",
			Requirements: "Evening sessions on weekdays.",
			Status:       catalog.StatusActive,
		},
		{
			ID:          uuid.NewString(),
			OwnerID:     studentB,
			Side:        catalog.SideSeeker,
			Subjects:    []string{"english"},
			Levels:      []string{"grade_8"},
			PriceMax:    fptr(20),
			Mode:        catalog.ModeBoth,
			Description: "Wants to improve essay structure and vocabulary.",
			Status:      catalog.StatusActive,
		},
	}

	profiles := []catalog.ProviderProfile{
		{
			OwnerID:    tutorA,
			Headline:   "STEM tutor for high school students",
			Biography:  "Physics graduate with eight years of tutoring experience.",
			Experience: "Prepared over 100 students for university entrance exams.",
			Reputation: 4.8,
		},
		{
			OwnerID:    tutorB,
			Headline:   "English and literature coach",
			Biography:  "Former secondary school teacher specialising in writing.",
			Reputation: 4.2,
		},
		{
			OwnerID:    tutorC,
			Headline:   "Primary school math mentor",
			Biography:  "Makes early math fun with hands-on exercises.",
			Reputation: 4.5,
		},
	}
	return listings, profiles
}
