package repositories

import (
	"context"

	"crew-directory.backend/internal/domain/entities"
	"github.com/google/uuid"
)

type SubmissionRepository interface {
	Create(ctx context.Context, s *entities.Submission) error
	List(ctx context.Context, filter entities.SubmissionFilter, limit, offset int) ([]*entities.Submission, int64, error)
	MarkHandled(ctx context.Context, id uuid.UUID) error
}
