package main

// Run plan history migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -down

import (
	"context"
	"flag"
	"os"

	"course-planner/internal/shared/config"
	"course-planner/internal/shared/storage/db"
	"course-planner/internal/shared/telemetry"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if *down {
		err = db.RollbackMigration(ctx, sqlDB)
	} else {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error(), "down": *down})
		os.Exit(1)
	}
}
