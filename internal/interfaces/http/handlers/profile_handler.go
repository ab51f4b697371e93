package handlers

import (
	"context"
	"net/http"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/infrastructure/storage"
	"crew-directory.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type profileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entities.FreelancerProjection, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileUpdateResponse, error)
	UpdateLinks(ctx context.Context, userID uuid.UUID, input *entities.UpdateLinksInput) (*entities.ProfileUpdateResponse, error)
	UploadAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind, filename string, data []byte) (*entities.ProfileUpdateResponse, error)
	DeleteAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind) (*entities.ProfileUpdateResponse, error)
}

// ProfileHandler lets members edit their own freelancer profile
type ProfileHandler struct {
	service profileService
	limits  storage.Limits
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service profileService, limits storage.Limits) *ProfileHandler {
	return &ProfileHandler{service: service, limits: limits}
}

// GetProfile returns the member's projection
// GET /api/v1/me/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	projection, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, projection)
}

// UpdateProfile changes display name and bio
// PUT /api/v1/me/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	result, err := h.service.UpdateProfile(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UpdateLinks changes the member's outbound links
// PUT /api/v1/me/links
func (h *ProfileHandler) UpdateLinks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	var input entities.UpdateLinksInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	result, err := h.service.UpdateLinks(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// UploadAsset replaces the photo, CV or equipment list
// POST /api/v1/me/assets/:kind
func (h *ProfileHandler) UploadAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	kind, ok := entities.ParseProfileAssetKind(c.Param("kind"))
	if !ok {
		response.Error(c, domainerrors.NotFound("unknown asset kind"))
		return
	}

	limit := h.limits.MaxDocumentBytes
	if kind == entities.AssetPhoto {
		limit = h.limits.MaxPhotoBytes
	}
	filename, data, err := readUpload(c, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.UploadAsset(c.Request.Context(), userID, kind, filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DeleteAsset removes the photo, CV or equipment list
// DELETE /api/v1/me/assets/:kind
func (h *ProfileHandler) DeleteAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	kind, ok := entities.ParseProfileAssetKind(c.Param("kind"))
	if !ok {
		response.Error(c, domainerrors.NotFound("unknown asset kind"))
		return
	}
	result, err := h.service.DeleteAsset(c.Request.Context(), userID, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
