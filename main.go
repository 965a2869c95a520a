package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"relimeter/adapters/postgres"
	"relimeter/api"
	"relimeter/app"
	"relimeter/internal"
	"relimeter/internal/config"
	"relimeter/internal/errors"
	"relimeter/internal/migration"
	"relimeter/internal/seed"
	"relimeter/ports"
)

func main() {
	// Load .env file if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger := internal.NewDefaultLogger()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	journalRepo := postgres.NewJournalRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	if err := seedJournalsIfEmpty(ctx, journalRepo, appConfig.Data.JournalSeedFile, logger); err != nil {
		log.Fatalf("Seed error: %v", err)
	}

	reliabilitySvc := app.NewReliabilityService(journalRepo, app.SystemClock{}, appConfig.Worker.Concurrency, logger)
	if err := reliabilitySvc.RefreshTable(ctx); err != nil {
		log.Fatalf("Authority table error: %v", err)
	}

	snapshotSvc := app.NewSnapshotService(reliabilitySvc, snapshotRepo, logger)
	comparisonSvc := app.NewComparisonService(reliabilitySvc, snapshotRepo)

	go runOpsServer(appConfig, logger)

	gin.SetMode(appConfig.Server.GinMode)
	server := api.NewServer(reliabilitySvc, snapshotSvc, comparisonSvc, logger)
	if err := server.Run(appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// seedJournalsIfEmpty bootstraps the journals table from the YAML seed
// file on first boot. Later refreshes belong to the data-maintenance
// process, not the server.
func seedJournalsIfEmpty(ctx context.Context, repo ports.JournalRepository, seedFile string, logger *internal.Logger) error {
	count, err := repo.CountJournals(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("journals table already has %d entries, skipping seed", count)
		return nil
	}

	records, err := seed.LoadFile(seedFile)
	if err != nil {
		return err
	}
	if err := repo.UpsertJournals(ctx, records); err != nil {
		return err
	}
	logger.Info("seeded %d journals from %s", len(records), seedFile)
	return nil
}

// runOpsServer exposes health and profiling endpoints on a separate port
// so they never share a listener with the public API.
func runOpsServer(appConfig *config.Config, logger *internal.Logger) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if appConfig.Ops.PprofEnabled {
		r.HandleFunc("/debug/pprof/*", pprof.Index)
		r.HandleFunc("/debug/pprof/profile", pprof.Profile)
		r.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	logger.Info("ops endpoints listening on :%s", appConfig.Ops.Port)
	if err := http.ListenAndServe(":"+appConfig.Ops.Port, r); err != nil {
		logger.Error("ops server stopped: %v", err)
	}
}
