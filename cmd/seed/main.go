package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/constants"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/database"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/pkg/cache"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Fixed owner ids so seeded tokens stay valid across runs
var (
	mallOwnerID    = uuid.MustParse("6f1c2a8e-3b7d-4a51-9c0e-1d2f3a4b5c01")
	transitOwnerID = uuid.MustParse("6f1c2a8e-3b7d-4a51-9c0e-1d2f3a4b5c02")
	arenaOwnerID   = uuid.MustParse("6f1c2a8e-3b7d-4a51-9c0e-1d2f3a4b5c03")
)

type Seeder struct {
	db    *database.DB
	repo  spaces.Repository
	cache cache.Service
}

func main() {
	fmt.Println("🌱 Starting Advermo Database Seeder...")

	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{
		db:    db,
		repo:  spaces.NewRepository(db.GetPostgreSQL()),
		cache: cache.NewService(db.GetRedisClient()),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(ctx); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding spaces...")
	count, err := seeder.SeedSpaces(ctx)
	if err != nil {
		log.Fatalf("Failed to seed spaces: %v", err)
	}
	fmt.Printf("✅ Seeded %d spaces\n", count)

	// Drop cached catalog entries so the API prices against the new rows
	if err := seeder.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SPACES_ALL); err != nil {
		log.Printf("⚠️ Failed to invalidate space cache: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates the booking tables in reverse dependency order
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{
		"cancellations",
		"payments",
		"bookings",
		"spaces",
	}

	tx := s.db.GetPostgreSQL().WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedSpaces upserts a small catalog covering the three owner accounts
func (s *Seeder) SeedSpaces(ctx context.Context) (int, error) {
	catalog := []spaces.Space{
		{
			ID:                 "phoenix-atrium-led",
			Name:               "Atrium LED Wall",
			VenueName:          "Phoenix Marketcity",
			OwnerID:            mallOwnerID,
			OwnerEmail:         "leasing@phoenixmall.example",
			DailyFootfall:      45000,
			MonthlyImpressions: 1350000,
			MonthlyPrice:       270000,
			IsActive:           true,
		},
		{
			ID:                 "phoenix-escalator-panels",
			Name:               "Escalator Panels",
			VenueName:          "Phoenix Marketcity",
			OwnerID:            mallOwnerID,
			OwnerEmail:         "leasing@phoenixmall.example",
			DailyFootfall:      30000,
			MonthlyImpressions: 900000,
			MonthlyPrice:       90000,
			IsActive:           true,
		},
		{
			ID:                 "metro-line1-platform",
			Name:               "Line 1 Platform Screens",
			VenueName:          "Andheri Metro Station",
			OwnerID:            transitOwnerID,
			OwnerEmail:         "ads@metro.example",
			DailyFootfall:      120000,
			MonthlyImpressions: 3600000,
			MonthlyPrice:       360000,
			IsActive:           true,
		},
		{
			ID:                 "metro-concourse-wrap",
			Name:               "Concourse Pillar Wraps",
			VenueName:          "Andheri Metro Station",
			OwnerID:            transitOwnerID,
			OwnerEmail:         "ads@metro.example",
			DailyFootfall:      80000,
			MonthlyImpressions: 2400000,
			MonthlyPrice:       144000,
			IsActive:           true,
		},
		{
			ID:                 "arena-perimeter-boards",
			Name:               "Perimeter Boards",
			VenueName:          "DY Patil Stadium",
			OwnerID:            arenaOwnerID,
			OwnerEmail:         "partnerships@arena.example",
			DailyFootfall:      25000,
			MonthlyImpressions: 750000,
			MonthlyPrice:       187500,
			IsActive:           true,
		},
		{
			ID:                 "arena-gate-banners",
			Name:               "Gate Banners",
			VenueName:          "DY Patil Stadium",
			OwnerID:            arenaOwnerID,
			OwnerEmail:         "partnerships@arena.example",
			DailyFootfall:      25000,
			MonthlyImpressions: 750000,
			MonthlyPrice:       60000,
			IsActive:           false,
		},
	}

	for i := range catalog {
		if err := s.repo.Upsert(ctx, &catalog[i]); err != nil {
			return i, fmt.Errorf("failed to upsert space %s: %w", catalog[i].ID, err)
		}
		fmt.Printf("  Seeded space: %s (%s)\n", catalog[i].Name, catalog[i].VenueName)
	}
	return len(catalog), nil
}
