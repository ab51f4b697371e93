package usecases

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/cache"
	"crew-directory.backend/internal/infrastructure/storage"
	"crew-directory.backend/pkg/logger"
	"crew-directory.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// NewsCacheTag covers every cached public news read
const NewsCacheTag = "news"

const maxSlugAttempts = 50

// NewsUsecase manages agency news. Public reads are cached under
// NewsCacheTag and every admin write drops that tag.
type NewsUsecase struct {
	repo   repositories.NewsRepository
	cache  *cache.QueryCache
	blobs  BlobStorage
	urls   AssetURLBuilder
	limits storage.Limits
	ttl    time.Duration
}

// NewNewsUsecase creates a new news usecase
func NewNewsUsecase(
	repo repositories.NewsRepository,
	queryCache *cache.QueryCache,
	blobs BlobStorage,
	urls AssetURLBuilder,
	limits storage.Limits,
	ttl time.Duration,
) *NewsUsecase {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &NewsUsecase{
		repo:   repo,
		cache:  queryCache,
		blobs:  blobs,
		urls:   urls,
		limits: limits,
		ttl:    ttl,
	}
}

// ListPublished returns one page of the public feed
func (u *NewsUsecase) ListPublished(ctx context.Context, pagination utils.PaginationParams) (*entities.NewsPage, error) {
	key := fmt.Sprintf("news:page:%d:%d", pagination.Page, pagination.Limit)
	page, err := cache.Load(ctx, u.cache, key, u.ttl, []string{NewsCacheTag}, func(ctx context.Context) (*entities.NewsPage, error) {
		items, total, err := u.repo.ListPublished(ctx, pagination.Limit, pagination.CalculateOffset())
		if err != nil {
			return nil, err
		}
		return &entities.NewsPage{Items: items, TotalCount: total}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load news page: %w", err)
	}
	for _, n := range page.Items {
		u.decorate(n)
	}
	return page, nil
}

// GetPublished returns a published item by slug
func (u *NewsUsecase) GetPublished(ctx context.Context, slug string) (*entities.News, error) {
	want := NormalizeSlug(slug)
	if want == "" {
		return nil, domainerrors.ErrNotFound
	}
	n, err := cache.Load(ctx, u.cache, "news:slug:"+want, u.ttl, []string{NewsCacheTag}, func(ctx context.Context) (*entities.News, error) {
		return u.repo.GetPublishedBySlug(ctx, want)
	})
	if err != nil {
		return nil, err
	}
	u.decorate(n)
	return n, nil
}

// ListAdmin returns all news for the admin panel, uncached
func (u *NewsUsecase) ListAdmin(ctx context.Context, search string) ([]*entities.News, error) {
	items, err := u.repo.ListAdmin(ctx, search)
	if err != nil {
		return nil, err
	}
	for _, n := range items {
		u.decorate(n)
	}
	return items, nil
}

// Create adds a news item with a slug derived from its title
func (u *NewsUsecase) Create(ctx context.Context, input *entities.NewsInput) (*entities.News, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}
	n := &entities.News{
		ID:      utils.GenerateUUIDv7(),
		Title:   strings.TrimSpace(input.Title),
		Summary: strings.TrimSpace(input.Summary),
		Body:    input.Body,
	}
	slug, err := u.uniqueSlug(ctx, n.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	n.Slug = slug
	applyPublished(n, input.Published)

	if err := u.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	if err := u.invalidate(ctx); err != nil {
		return nil, err
	}
	u.decorate(n)
	return n, nil
}

// Update edits a news item. The slug follows the title.
func (u *NewsUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.NewsInput) (*entities.News, error) {
	if err := validateNewsInput(input); err != nil {
		return nil, err
	}
	n, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title != n.Title {
		slug, err := u.uniqueSlug(ctx, title, n.ID)
		if err != nil {
			return nil, err
		}
		n.Slug = slug
	}
	n.Title = title
	n.Summary = strings.TrimSpace(input.Summary)
	n.Body = input.Body
	applyPublished(n, input.Published)

	if err := u.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	if err := u.invalidate(ctx); err != nil {
		return nil, err
	}
	u.decorate(n)
	return n, nil
}

// Delete soft deletes a news item and removes its attachment
func (u *NewsUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if n.PDFAssetID.Valid {
		if err := u.blobs.Delete(ctx, n.PDFAssetID.String); err != nil {
			logger.Warn(ctx, "Failed to delete news attachment", zap.String("asset_id", n.PDFAssetID.String), zap.Error(err))
		}
	}
	return u.invalidate(ctx)
}

// AttachPDF uploads a PDF for the item, replacing any previous one
func (u *NewsUsecase) AttachPDF(ctx context.Context, id uuid.UUID, filename string, data []byte) (*entities.News, error) {
	upload, err := storage.ValidateUpload(entities.AssetNewsPDF, filename, data, u.limits)
	if err != nil {
		return nil, err
	}
	n, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := n.PDFAssetID

	assetID, err := u.blobs.Upload(ctx, entities.AssetNewsPDF, upload.Filename, upload.ContentType, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, err
	}
	n.PDFAssetID = null.StringFrom(assetID)
	if err := u.repo.Update(ctx, n); err != nil {
		_ = u.blobs.Delete(ctx, assetID)
		return nil, err
	}
	if previous.Valid && previous.String != assetID {
		if err := u.blobs.Delete(ctx, previous.String); err != nil {
			logger.Warn(ctx, "Failed to delete replaced news attachment", zap.String("asset_id", previous.String), zap.Error(err))
		}
	}
	if err := u.invalidate(ctx); err != nil {
		return nil, err
	}
	u.decorate(n)
	return n, nil
}

func (u *NewsUsecase) invalidate(ctx context.Context) error {
	if err := u.cache.Invalidate(ctx, NewsCacheTag); err != nil {
		logger.Error(ctx, "News cache invalidation failed", zap.Error(err))
		return err
	}
	return nil
}

func (u *NewsUsecase) decorate(n *entities.News) {
	if n == nil || u.urls == nil {
		return
	}
	n.PDFURL = u.urls.BuildURL(n.PDFAssetID)
}

func (u *NewsUsecase) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "news"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := u.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", domainerrors.Conflict("could not derive a unique slug")
}

func validateNewsInput(input *entities.NewsInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return domainerrors.BadRequest("title is required")
	}
	return nil
}

func applyPublished(n *entities.News, published *bool) {
	if published == nil {
		return
	}
	if *published && !n.Published {
		n.PublishedAt = null.TimeFrom(time.Now())
	}
	if !*published {
		n.PublishedAt = null.Time{}
	}
	n.Published = *published
}
