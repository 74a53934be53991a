package documents

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"summarizer-backend/internal/shared/server/middleware"
	"summarizer-backend/internal/shared/server/respond"
)

// Handler exposes the document endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a document handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the document routes on an authenticated group.
// uploadLimits are applied to the upload route only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, uploadLimits ...gin.HandlerFunc) {
	rg.POST("/documents", append(uploadLimits, h.Upload)...)
	rg.GET("/documents", h.List)
	rg.GET("/documents/stats", h.Stats)
	rg.GET("/documents/:id", h.Get)
	rg.DELETE("/documents/:id", h.Delete)
}

// Upload handles POST /documents (multipart form, field "file").
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "multipart field 'file' is required", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_input", "cannot read uploaded file", nil)
		return
	}
	defer f.Close()

	declaredType := fileHeader.Header.Get("Content-Type")
	doc, err := h.svc.Upload(c.Request.Context(), userID, fileHeader.Filename, declaredType, fileHeader.Size, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only pdf, docx and txt files are accepted", nil)
		case errors.Is(err, ErrPayloadTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, ToResponse(doc))
}

// List handles GET /documents.
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

	docs, err := h.svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Documents: ToResponseList(docs),
		Limit:     limit,
		Offset:    offset,
	})
}

// Get handles GET /documents/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}

	c.JSON(http.StatusOK, ToResponse(doc))
}

// Stats handles GET /documents/stats.
func (h *Handler) Stats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Delete handles DELETE /documents/:id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}

	c.Status(http.StatusNoContent)
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
