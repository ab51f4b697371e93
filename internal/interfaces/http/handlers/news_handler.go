package handlers

import (
	"context"
	"net/http"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/interfaces/http/response"
	"crew-directory.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type newsService interface {
	ListPublished(ctx context.Context, pagination utils.PaginationParams) (*entities.NewsPage, error)
	GetPublished(ctx context.Context, slug string) (*entities.News, error)
	ListAdmin(ctx context.Context, search string) ([]*entities.News, error)
	Create(ctx context.Context, input *entities.NewsInput) (*entities.News, error)
	Update(ctx context.Context, id uuid.UUID, input *entities.NewsInput) (*entities.News, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AttachPDF(ctx context.Context, id uuid.UUID, filename string, data []byte) (*entities.News, error)
}

// NewsHandler serves the public news feed and the admin news panel
type NewsHandler struct {
	service     newsService
	maxPDFBytes int64
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(service newsService, maxPDFBytes int64) *NewsHandler {
	return &NewsHandler{service: service, maxPDFBytes: maxPDFBytes}
}

// ListPublished returns one page of published news
// GET /api/v1/news?page=&limit=
func (h *NewsHandler) ListPublished(c *gin.Context) {
	pagination, err := paginationFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.service.ListPublished(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, page.Items, utils.CalculateMeta(page.TotalCount, pagination.Page, pagination.Limit))
}

// GetPublished returns a published item
// GET /api/v1/news/:slug
func (h *NewsHandler) GetPublished(c *gin.Context) {
	n, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, n)
}

// ListAdmin returns every item, drafts included
// GET /api/v1/admin/news?q=
func (h *NewsHandler) ListAdmin(c *gin.Context) {
	items, err := h.service.ListAdmin(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Create adds a news item
// POST /api/v1/admin/news
func (h *NewsHandler) Create(c *gin.Context) {
	var input entities.NewsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	n, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, n)
}

// Update edits a news item
// PUT /api/v1/admin/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var input entities.NewsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	n, err := h.service.Update(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, n)
}

// Delete removes a news item
// DELETE /api/v1/admin/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttachPDF uploads the PDF attachment
// POST /api/v1/admin/news/:id/pdf
func (h *NewsHandler) AttachPDF(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	filename, data, err := readUpload(c, h.maxPDFBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	n, err := h.service.AttachPDF(c.Request.Context(), id, filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, n)
}
