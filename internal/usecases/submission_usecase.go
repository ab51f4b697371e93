package usecases

import (
	"context"
	"strings"

	"crew-directory.backend/internal/domain/entities"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/pkg/logger"
	"crew-directory.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// SubmissionUsecase stores public contact and job forms for admin review
type SubmissionUsecase struct {
	repo repositories.SubmissionRepository
}

// NewSubmissionUsecase creates a new submission usecase
func NewSubmissionUsecase(repo repositories.SubmissionRepository) *SubmissionUsecase {
	return &SubmissionUsecase{repo: repo}
}

// SubmitContact stores a contact form entry
func (u *SubmissionUsecase) SubmitContact(ctx context.Context, input *entities.ContactInput) (*entities.Submission, error) {
	s := &entities.Submission{
		ID:      utils.GenerateUUIDv7(),
		Kind:    entities.SubmissionContact,
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   optional(input.Phone),
		Company: optional(input.Company),
		Subject: optional(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}
	return u.create(ctx, s)
}

// SubmitJob stores a job request
func (u *SubmissionUsecase) SubmitJob(ctx context.Context, input *entities.JobInput) (*entities.Submission, error) {
	s := &entities.Submission{
		ID:              utils.GenerateUUIDv7(),
		Kind:            entities.SubmissionJob,
		Name:            strings.TrimSpace(input.Name),
		Email:           strings.TrimSpace(input.Email),
		Phone:           optional(input.Phone),
		Company:         optional(input.Company),
		ProductionDates: optional(input.ProductionDates),
		DepartmentSlug:  optional(NormalizeSlug(input.DepartmentSlug)),
		Message:         strings.TrimSpace(input.Message),
	}
	return u.create(ctx, s)
}

// List returns one page of submissions for admins
func (u *SubmissionUsecase) List(ctx context.Context, filter entities.SubmissionFilter, pagination utils.PaginationParams) ([]*entities.Submission, int64, error) {
	return u.repo.List(ctx, filter, pagination.Limit, pagination.CalculateOffset())
}

// MarkHandled flags a submission as dealt with
func (u *SubmissionUsecase) MarkHandled(ctx context.Context, id uuid.UUID) error {
	return u.repo.MarkHandled(ctx, id)
}

func (u *SubmissionUsecase) create(ctx context.Context, s *entities.Submission) (*entities.Submission, error) {
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Submission received",
		zap.String("submission_id", s.ID.String()),
		zap.String("kind", string(s.Kind)),
	)
	return s, nil
}

func optional(s string) null.String {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
