package handlers

import (
	"context"
	"net/http"

	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/internal/interfaces/http/response"
	"crew-directory.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type directoryAdminService interface {
	LinkGaps(ctx context.Context) ([]entities.LinkGap, error)
	Invalidate(ctx context.Context) error
}

// AdminHandler exposes directory diagnostics and cache control
type AdminHandler struct {
	service directoryAdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service directoryAdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// LinkGaps lists freelancers with incomplete link rows
// GET /api/v1/admin/diagnostics/link-gaps
func (h *AdminHandler) LinkGaps(c *gin.Context) {
	gaps, err := h.service.LinkGaps(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"gaps":  gaps,
		"count": len(gaps),
	})
}

// InvalidateCache drops the cached freelancer snapshots
// POST /api/v1/admin/cache/invalidate
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	logger.Info(c.Request.Context(), "Freelancer cache invalidated by admin", zap.String("path", c.FullPath()))
	response.Success(c, http.StatusOK, gin.H{"message": "Cache invalidated"})
}
