package summaries

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/shared/server/middleware"
	"summarizer-backend/internal/shared/server/respond"
	"summarizer-backend/internal/summarize"
)

// Handler exposes the summary endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a summary handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the summary routes on an authenticated group.
// generateLimits are applied to the generation route only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, generateLimits ...gin.HandlerFunc) {
	rg.POST("/summaries/generate", append(generateLimits, h.Generate)...)
	rg.GET("/summaries", h.List)
	rg.GET("/summaries/:id", h.Get)
	rg.DELETE("/summaries/:id", h.Delete)
	rg.GET("/documents/:id/summaries", h.ListByDocument)
}

// Generate handles POST /summaries/generate.
func (h *Handler) Generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "invalid request body", nil)
		return
	}

	summary, err := h.svc.Generate(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDocumentNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrNoTextAvailable):
			respond.Error(c, http.StatusUnprocessableEntity, "no_text", "document has no extracted text", nil)
		case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		case errors.Is(err, summarize.ErrInputTooShort):
			respond.Error(c, http.StatusUnprocessableEntity, "input_too_short", "document text is too short to summarize", nil)
		case errors.Is(err, summarize.ErrModelUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "summarization model is unavailable, try again later", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate summary", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, ToResponse(summary))
}

// List handles GET /summaries.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list summaries", nil)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Summaries: ToResponseList(items),
		Limit:     limit,
		Offset:    offset,
	})
}

// Get handles GET /summaries/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	summary, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "summary not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load summary", nil)
		return
	}

	c.JSON(http.StatusOK, ToResponse(summary))
}

// Delete handles DELETE /summaries/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "summary not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete summary", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByDocument handles GET /documents/:id/summaries.
func (h *Handler) ListByDocument(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.svc.ListByDocument(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list summaries", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summaries": ToResponseList(items)})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
