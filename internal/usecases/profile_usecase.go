package usecases

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/storage"
	"crew-directory.backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minDisplayNameLen = 2
	maxDisplayNameLen = 120
	maxBioLen         = 4000
)

// BlobStorage stores and removes uploaded files
type BlobStorage interface {
	Upload(ctx context.Context, kind entities.AssetKind, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, assetID string) error
}

// ProfileUsecase lets a member edit the freelancer profile tied to their
// account. Every write invalidates the freelancer cache before returning
// the fresh projection.
type ProfileUsecase struct {
	userRepo repositories.UserRepository
	writer   repositories.FreelancerWriter
	uow      repositories.UnitOfWork
	resolver *FreelancerResolver
	blobs    BlobStorage
	limits   storage.Limits
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(
	userRepo repositories.UserRepository,
	writer repositories.FreelancerWriter,
	uow repositories.UnitOfWork,
	resolver *FreelancerResolver,
	blobs BlobStorage,
	limits storage.Limits,
) *ProfileUsecase {
	return &ProfileUsecase{
		userRepo: userRepo,
		writer:   writer,
		uow:      uow,
		resolver: resolver,
		blobs:    blobs,
		limits:   limits,
	}
}

func (u *ProfileUsecase) freelancerFor(ctx context.Context, userID uuid.UUID) (*entities.FreelancerRecord, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.FreelancerID.Valid {
		return nil, domainerrors.ErrNoFreelancerLinked
	}
	rec, err := u.writer.GetByID(ctx, user.FreelancerID.Int64)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrNoFreelancerLinked
		}
		return nil, err
	}
	return rec, nil
}

// GetProfile returns the member's own projection
func (u *ProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.FreelancerProjection, error) {
	rec, err := u.freelancerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.resolver.ResolveBySlug(ctx, rec.Slug)
}

// UpdateProfile changes display name and bio. An empty bio clears it.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.ProfileUpdateResponse, error) {
	fields := make(map[string]interface{})
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if n := utf8.RuneCountInString(name); n < minDisplayNameLen || n > maxDisplayNameLen {
			return nil, domainerrors.BadRequest(fmt.Sprintf("displayName must be %d-%d characters", minDisplayNameLen, maxDisplayNameLen))
		}
		fields["display_name"] = name
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if utf8.RuneCountInString(bio) > maxBioLen {
			return nil, domainerrors.BadRequest(fmt.Sprintf("bio must be at most %d characters", maxBioLen))
		}
		if bio == "" {
			fields["bio"] = nil
		} else {
			fields["bio"] = bio
		}
	}

	rec, err := u.freelancerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.writer.UpdateProfile(ctx, rec.ID, fields); err != nil {
		return nil, err
	}

	return u.respond(ctx, rec.Slug, nil)
}

// UpdateLinks applies submitted link urls to the freelancer's existing link
// rows. Types without a stored row are reported as missing and left alone.
func (u *ProfileUsecase) UpdateLinks(ctx context.Context, userID uuid.UUID, input *entities.UpdateLinksInput) (*entities.ProfileUpdateResponse, error) {
	submitted := make(map[entities.LinkType]string)
	for _, lt := range entities.LinkTypes {
		v := input.Get(lt)
		if v == nil {
			continue
		}
		link := strings.TrimSpace(*v)
		if link != "" && !isHTTPURL(link) {
			return nil, domainerrors.BadRequest(fmt.Sprintf("%s must be an http or https url", lt))
		}
		submitted[lt] = link
	}

	rec, err := u.freelancerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &entities.LinkUpdateResult{
		Updated:   []entities.LinkType{},
		Unchanged: []entities.LinkType{},
		Missing:   []entities.LinkType{},
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		rows, err := u.writer.ListLinkRows(txCtx, rec.ID)
		if err != nil {
			return err
		}
		byType := make(map[entities.LinkType]entities.LinkRecord)
		for _, row := range rows {
			if lt, ok := NormalizeLinkType(row.LinkType); ok {
				if _, dup := byType[lt]; !dup {
					byType[lt] = row
				}
			}
		}

		for _, lt := range entities.LinkTypes {
			link, ok := submitted[lt]
			if !ok {
				continue
			}
			row, exists := byType[lt]
			switch {
			case !exists:
				result.Missing = append(result.Missing, lt)
			case strings.TrimSpace(row.URL) == link:
				result.Unchanged = append(result.Unchanged, lt)
			default:
				if err := u.writer.UpdateLinkURL(txCtx, row.ID, link); err != nil {
					return err
				}
				result.Updated = append(result.Updated, lt)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Missing) > 0 {
		logger.Warn(ctx, "Freelancer is missing link rows",
			zap.Int64("freelancer_id", rec.ID),
			zap.Any("missing", result.Missing),
		)
	}

	return u.respond(ctx, rec.Slug, result)
}

// UploadAsset validates and stores a new photo, CV or equipment list and
// removes the one it replaces.
func (u *ProfileUsecase) UploadAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind, filename string, data []byte) (*entities.ProfileUpdateResponse, error) {
	if kind.Column() == "" {
		return nil, domainerrors.BadRequest("unknown asset kind")
	}
	upload, err := storage.ValidateUpload(kind, filename, data, u.limits)
	if err != nil {
		return nil, err
	}

	rec, err := u.freelancerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := rec.AssetID(kind)

	assetID, err := u.blobs.Upload(ctx, kind, upload.Filename, upload.ContentType, bytes.NewReader(upload.Data))
	if err != nil {
		return nil, err
	}
	if err := u.writer.UpdateAsset(ctx, rec.ID, kind, &assetID); err != nil {
		u.deleteBlob(ctx, assetID)
		return nil, err
	}
	if previous.Valid && previous.String != assetID {
		u.deleteBlob(ctx, previous.String)
	}

	return u.respond(ctx, rec.Slug, nil)
}

// DeleteAsset clears an asset column and removes the stored file
func (u *ProfileUsecase) DeleteAsset(ctx context.Context, userID uuid.UUID, kind entities.AssetKind) (*entities.ProfileUpdateResponse, error) {
	if kind.Column() == "" {
		return nil, domainerrors.BadRequest("unknown asset kind")
	}
	rec, err := u.freelancerFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := rec.AssetID(kind)

	if err := u.writer.UpdateAsset(ctx, rec.ID, kind, nil); err != nil {
		return nil, err
	}
	if previous.Valid {
		u.deleteBlob(ctx, previous.String)
	}

	return u.respond(ctx, rec.Slug, nil)
}

func (u *ProfileUsecase) deleteBlob(ctx context.Context, assetID string) {
	if err := u.blobs.Delete(ctx, assetID); err != nil {
		logger.Warn(ctx, "Failed to delete asset", zap.String("asset_id", assetID), zap.Error(err))
	}
}

// respond invalidates the freelancer cache and reads the projection back
func (u *ProfileUsecase) respond(ctx context.Context, slug string, links *entities.LinkUpdateResult) (*entities.ProfileUpdateResponse, error) {
	if err := u.resolver.Invalidate(ctx); err != nil {
		return nil, err
	}
	projection, err := u.resolver.ResolveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &entities.ProfileUpdateResponse{Freelancer: projection, Links: links}, nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}
