// Command seed loads the journal authority YAML into Postgres. Run it to
// bootstrap a fresh database or to publish updated reference data.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"relimeter/adapters/postgres"
	"relimeter/internal/config"
	"relimeter/internal/migration"
	"relimeter/internal/seed"
)

func main() {
	fileFlag := flag.String("file", "", "journal seed file, defaults to JOURNAL_SEED_FILE")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	seedFile := *fileFlag
	if seedFile == "" {
		seedFile = appConfig.Data.JournalSeedFile
	}

	records, err := seed.LoadFile(seedFile)
	if err != nil {
		log.Fatalf("Seed file error: %v", err)
	}

	// Validate the set builds into a legal authority table before touching
	// the database.
	if _, err := seed.BuildTable(records); err != nil {
		log.Fatalf("Seed validation error: %v", err)
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	if err := postgres.NewJournalRepository(db).UpsertJournals(ctx, records); err != nil {
		log.Fatalf("Upsert error: %v", err)
	}
	log.Printf("Seeded %d journals from %s", len(records), seedFile)
}
