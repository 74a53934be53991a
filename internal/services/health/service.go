package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Service reports process liveness and database reachability.
type Service struct {
	db      *sql.DB
	version string
}

// New creates a health service. db may be nil when running without Postgres.
func New(db *sql.DB, version string) *Service {
	return &Service{db: db, version: version}
}

// Handler responds to GET /health.
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{
			"status":  "ok",
			"version": s.version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		}

		if s.db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := s.db.PingContext(ctx); err != nil {
				payload["status"] = "degraded"
				payload["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, payload)
				return
			}
			payload["database"] = "ok"
		}

		c.JSON(http.StatusOK, payload)
	}
}
