package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/documents"
	"summarizer-backend/internal/services/health"
	"summarizer-backend/internal/shared/config"
	"summarizer-backend/internal/shared/server"
	"summarizer-backend/internal/shared/storage/db"
	"summarizer-backend/internal/shared/storage/object"
	"summarizer-backend/internal/shared/storage/object/local"
	"summarizer-backend/internal/shared/storage/object/s3"
	"summarizer-backend/internal/shared/telemetry"
	"summarizer-backend/internal/summaries"
	"summarizer-backend/internal/summarize"
	"summarizer-backend/internal/summarize/bart"
	"summarizer-backend/internal/users"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// App bundles the wired application.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Build wires the application from configuration. Without a DATABASE_URL the
// repositories fall back to in-memory storage, which keeps local development
// running with nothing but the binary.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.Env == "production" && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	} else {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Info("no DATABASE_URL, using in-memory repositories", nil)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	engine := summarize.NewChunked(bart.New(cfg.ModelURL, cfg.ModelName))
	tokenTTL := time.Duration(cfg.TokenTTLMinutes) * time.Minute

	var (
		userRepo users.Repo
		docRepo  documents.Repo
		sumRepo  summaries.Repo
		cascade  documents.SummaryCascade
	)
	if database != nil {
		userRepo = users.NewPGRepo(database)
		docRepo = documents.NewPGRepo(database)
		sumRepo = summaries.NewPGRepo(database)
		// Summary rows are removed by the foreign key cascade.
		cascade = nil
	} else {
		memSummaries := summaries.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		sumRepo = memSummaries
		cascade = memSummaries
	}

	userSvc := users.NewService(userRepo, tokenTTL)
	docSvc := documents.NewService(docRepo, store, cascade, cfg.MaxUploadBytes)
	sumSvc := summaries.NewService(sumRepo, docSvc, store, engine)

	router := server.NewRouter(cfg, server.Handlers{
		Health:    health.New(database, Version).Handler(),
		Users:     users.NewHandler(userSvc),
		Documents: documents.NewHandler(docSvc),
		Summaries: summaries.NewHandler(sumSvc),
	})

	return &App{Router: router, DB: database}, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		store, err := s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	}
	return local.New(cfg.LocalStoreDir), nil
}
