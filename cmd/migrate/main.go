package main

import (
	"context"
	"os"

	"summarizer-backend/internal/shared/config"
	"summarizer-backend/internal/shared/storage/db"
	"summarizer-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("DATABASE_URL is required", nil)
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("connect failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		telemetry.Error("migrations failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrations applied", nil)
}
