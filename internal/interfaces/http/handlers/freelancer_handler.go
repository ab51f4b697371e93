package handlers

import (
	"context"
	"net/http"

	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

type freelancerService interface {
	ResolveBySlug(ctx context.Context, slug string) (*entities.FreelancerProjection, error)
	ResolveBySkill(ctx context.Context, departmentSlug, skillSlug string) (*entities.SkillListing, error)
	ListFreelancers(ctx context.Context) ([]entities.FreelancerSummary, error)
	ListDirectory(ctx context.Context) ([]entities.Department, error)
}

// FreelancerHandler serves the public crew directory
type FreelancerHandler struct {
	service freelancerService
}

// NewFreelancerHandler creates a new freelancer handler
func NewFreelancerHandler(service freelancerService) *FreelancerHandler {
	return &FreelancerHandler{service: service}
}

// GetDirectory returns departments with their skills
// GET /api/v1/directory
func (h *FreelancerHandler) GetDirectory(c *gin.Context) {
	departments, err := h.service.ListDirectory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"departments": departments})
}

// ListFreelancers returns every freelancer
// GET /api/v1/freelancers
func (h *FreelancerHandler) ListFreelancers(c *gin.Context) {
	freelancers, err := h.service.ListFreelancers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"freelancers":     freelancers,
		"freelancerCount": len(freelancers),
	})
}

// GetFreelancer returns one freelancer profile
// GET /api/v1/freelancers/:slug
func (h *FreelancerHandler) GetFreelancer(c *gin.Context) {
	projection, err := h.service.ResolveBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, projection)
}

// GetSkill lists freelancers holding a skill
// GET /api/v1/departments/:department/skills/:skill
func (h *FreelancerHandler) GetSkill(c *gin.Context) {
	listing, err := h.service.ResolveBySkill(c.Request.Context(), c.Param("department"), c.Param("skill"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}
