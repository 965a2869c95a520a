// Command worker recomputes the nightly reliability snapshots.
//
// Usage:
//
//	worker                     # compute today's snapshots, all areas
//	worker -date 2026-08-01    # compute for a specific day
//	worker -ta oncology        # restrict to one therapeutic area
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"relimeter/adapters/postgres"
	"relimeter/app"
	"relimeter/internal"
	"relimeter/internal/config"
)

func main() {
	dateFlag := flag.String("date", "", "snapshot date as YYYY-MM-DD, defaults to today")
	taFlag := flag.String("ta", "", "restrict to one therapeutic area")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger := internal.NewDefaultLogger()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	snapshotDate := time.Now().UTC()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("Invalid -date %q: %v", *dateFlag, err)
		}
		snapshotDate = parsed
	}

	var areas []string
	if *taFlag != "" {
		areas = []string{*taFlag}
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	reliabilitySvc := app.NewReliabilityService(postgres.NewJournalRepository(db), app.SystemClock{}, appConfig.Worker.Concurrency, logger)
	if err := reliabilitySvc.RefreshTable(ctx); err != nil {
		log.Fatalf("Authority table error: %v", err)
	}

	snapshotSvc := app.NewSnapshotService(reliabilitySvc, postgres.NewSnapshotRepository(db), logger)
	if err := snapshotSvc.Refresh(ctx, snapshotDate, areas); err != nil {
		log.Fatalf("Snapshot refresh failed: %v", err)
	}
}
