package repositories

import (
	"context"

	"crew-directory.backend/internal/domain/entities"
	"github.com/google/uuid"
)

type NewsRepository interface {
	Create(ctx context.Context, news *entities.News) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.News, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*entities.News, error)
	SlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*entities.News, int64, error)
	ListAdmin(ctx context.Context, search string) ([]*entities.News, error)
	Update(ctx context.Context, news *entities.News) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
