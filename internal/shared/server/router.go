package server

import (
	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/documents"
	"summarizer-backend/internal/shared/config"
	"summarizer-backend/internal/shared/metrics"
	"summarizer-backend/internal/shared/server/middleware"
	"summarizer-backend/internal/summaries"
	"summarizer-backend/internal/users"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    gin.HandlerFunc
	Users     *users.Handler
	Documents *documents.Handler
	Summaries *summaries.Handler
}

// NewRouter builds the gin engine with the full middleware chain and all routes.
func NewRouter(cfg config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", h.Health)
	h.Users.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth())
	h.Users.RegisterProtectedRoutes(authed)

	limiter := middleware.NewRateLimiter(nil)
	h.Documents.RegisterRoutes(authed,
		middleware.RateLimit(limiter, "upload", middleware.RateLimitRule{Rate: 1, Burst: 10}))
	h.Summaries.RegisterRoutes(authed,
		middleware.RateLimit(limiter, "generate", middleware.RateLimitRule{Rate: 0.5, Burst: 5}))

	if cfg.Env != "production" {
		r.GET("/metrics", metrics.Handler())
	}

	return r
}
