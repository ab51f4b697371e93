package repositories

import (
	"context"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) repositories.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, s *entities.Submission) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m := &models.Submission{
		ID:              s.ID,
		Kind:            string(s.Kind),
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone.Ptr(),
		Company:         s.Company.Ptr(),
		Subject:         s.Subject.Ptr(),
		Message:         s.Message,
		ProductionDates: s.ProductionDates.Ptr(),
		DepartmentSlug:  s.DepartmentSlug.Ptr(),
		Handled:         s.Handled,
		HandledAt:       s.HandledAt.Ptr(),
		CreatedAt:       s.CreatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// List returns submissions newest first
func (r *submissionRepo) List(ctx context.Context, filter entities.SubmissionFilter, limit, offset int) ([]*entities.Submission, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", string(filter.Kind))
	}
	if filter.OnlyUnhandled {
		query = query.Where("handled = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Submission
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Submission, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

func (r *submissionRepo) MarkHandled(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Model(&models.Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"handled":    true,
		"handled_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) toEntity(m *models.Submission) *entities.Submission {
	return &entities.Submission{
		ID:              m.ID,
		Kind:            entities.SubmissionKind(m.Kind),
		Name:            m.Name,
		Email:           m.Email,
		Phone:           null.StringFromPtr(m.Phone),
		Company:         null.StringFromPtr(m.Company),
		Subject:         null.StringFromPtr(m.Subject),
		Message:         m.Message,
		ProductionDates: null.StringFromPtr(m.ProductionDates),
		DepartmentSlug:  null.StringFromPtr(m.DepartmentSlug),
		Handled:         m.Handled,
		HandledAt:       null.TimeFromPtr(m.HandledAt),
		CreatedAt:       m.CreatedAt,
	}
}
