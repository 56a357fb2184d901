// Command sweep runs one lifecycle sweep against the configured database and exits.
// It is meant for an external scheduler such as a Kubernetes CronJob.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/notifications"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/database"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/internal/sweeper"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	expiryOnly := flag.Bool("expiry-only", false, "only expire unpaid confirmations")
	timeout := flag.Duration("timeout", 10*time.Minute, "upper bound for the whole sweep")
	flag.Parse()

	appLogger := logger.GetDefault()
	_ = godotenv.Load()
	cfg := config.Load()

	pg, err := database.OpenPostgreSQL(cfg.Database.DSN, database.PoolOptionsFrom(cfg))
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	if sqlDB, err := pg.DB(); err == nil {
		defer sqlDB.Close()
	}

	publisher, closePublisher, err := notifications.NewPublisher(cfg.Kafka)
	if err != nil {
		appLogger.Error("Failed to initialize Kafka publisher", slog.Any("error", err))
		os.Exit(1)
	}
	defer closePublisher()

	clk := clock.NewSystem()
	repo := bookings.NewRepository(pg, bookings.RepositoryOptions{
		ReadRetries:      cfg.Booking.ReadRetries,
		ReadRetryBackoff: cfg.Booking.ReadRetryBackoff,
	})
	// The sweep never prices a booking, so the catalog skips the cache
	catalog := spaces.NewCatalog(spaces.NewRepository(pg), nil, 0)
	service := bookings.NewService(repo, catalog, publisher, clk, bookings.OptionsFromConfig(cfg.Booking))
	s := sweeper.New(repo, service, clk, sweeper.Options{
		Workers:         cfg.Sweeper.Workers,
		PaymentDeadline: cfg.Booking.PaymentDeadline,
		StoreTimeout:    cfg.Booking.StoreTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var result sweeper.Result
	if *expiryOnly {
		result = s.RunExpiry(ctx)
	} else {
		result = s.Run(ctx)
	}

	_ = json.NewEncoder(os.Stdout).Encode(result)
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
