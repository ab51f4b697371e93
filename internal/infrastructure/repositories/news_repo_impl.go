package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type newsRepo struct {
	db *gorm.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *gorm.DB) repositories.NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) Create(ctx context.Context, news *entities.News) error {
	now := time.Now()
	if news.CreatedAt.IsZero() {
		news.CreatedAt = now
	}
	news.UpdatedAt = now
	return GetDB(ctx, r.db).Create(r.toModel(news)).Error
}

func (r *newsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.News, error) {
	var m models.News
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetPublishedBySlug matches the slug case-insensitively
func (r *newsRepo) GetPublishedBySlug(ctx context.Context, slug string) (*entities.News, error) {
	var m models.News
	err := r.db.WithContext(ctx).
		Where("LOWER(slug) = ? AND published = ?", strings.ToLower(strings.TrimSpace(slug)), true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// SlugExists reports whether another live or deleted row already uses slug
func (r *newsRepo) SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Unscoped().Model(&models.News{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPublished returns published news, newest first
func (r *newsRepo) ListPublished(ctx context.Context, limit, offset int) ([]*entities.News, int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&models.News{}).Where("published = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.News
	query = query.Order("published_at DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.News, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

// ListAdmin returns all non-deleted news, optionally filtered by title
func (r *newsRepo) ListAdmin(ctx context.Context, search string) ([]*entities.News, error) {
	var ms []models.News
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.News, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *newsRepo) Update(ctx context.Context, news *entities.News) error {
	news.UpdatedAt = time.Now()
	result := GetDB(ctx, r.db).Model(&models.News{}).Where("id = ?", news.ID).Updates(map[string]interface{}{
		"slug":         news.Slug,
		"title":        news.Title,
		"summary":      news.Summary,
		"body":         news.Body,
		"pdf_asset_id": news.PDFAssetID.Ptr(),
		"published":    news.Published,
		"published_at": news.PublishedAt.Ptr(),
		"updated_at":   news.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *newsRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&models.News{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *newsRepo) toModel(e *entities.News) *models.News {
	return &models.News{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Summary:     e.Summary,
		Body:        e.Body,
		PDFAssetID:  e.PDFAssetID.Ptr(),
		Published:   e.Published,
		PublishedAt: e.PublishedAt.Ptr(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *newsRepo) toEntity(m *models.News) *entities.News {
	return &entities.News{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Summary:     m.Summary,
		Body:        m.Body,
		PDFAssetID:  null.StringFromPtr(m.PDFAssetID),
		Published:   m.Published,
		PublishedAt: null.TimeFromPtr(m.PublishedAt),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
