package handlers

import (
	"context"
	"net/http"
	"strings"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/interfaces/http/response"
	"crew-directory.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type submissionService interface {
	SubmitContact(ctx context.Context, input *entities.ContactInput) (*entities.Submission, error)
	SubmitJob(ctx context.Context, input *entities.JobInput) (*entities.Submission, error)
	List(ctx context.Context, filter entities.SubmissionFilter, pagination utils.PaginationParams) ([]*entities.Submission, int64, error)
	MarkHandled(ctx context.Context, id uuid.UUID) error
}

// SubmissionHandler accepts the public forms and lists them for admins
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// SubmitContact stores a contact form
// POST /api/v1/contact
func (h *SubmissionHandler) SubmitContact(c *gin.Context) {
	var input entities.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	s, err := h.service.SubmitContact(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": s.ID, "message": "Thanks, we will be in touch"})
}

// SubmitJob stores a job request
// POST /api/v1/jobs
func (h *SubmissionHandler) SubmitJob(c *gin.Context) {
	var input entities.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	s, err := h.service.SubmitJob(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": s.ID, "message": "Thanks, we will be in touch"})
}

// List returns submissions for admins
// GET /api/v1/admin/submissions?kind=&unhandled=&page=&limit=
func (h *SubmissionHandler) List(c *gin.Context) {
	pagination, err := paginationFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter entities.SubmissionFilter
	switch kind := entities.SubmissionKind(strings.ToUpper(c.Query("kind"))); kind {
	case "":
	case entities.SubmissionContact, entities.SubmissionJob:
		filter.Kind = kind
	default:
		response.Error(c, domainerrors.BadRequest("kind must be CONTACT or JOB"))
		return
	}
	filter.OnlyUnhandled = c.Query("unhandled") == "true"

	items, total, err := h.service.List(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, utils.CalculateMeta(total, pagination.Page, pagination.Limit))
}

// MarkHandled flags a submission as handled
// PUT /api/v1/admin/submissions/:id/handled
func (h *SubmissionHandler) MarkHandled(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.MarkHandled(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
