package repositories

import (
	"context"
	"errors"
	"time"

	"crew-directory.backend/internal/domain/entities"
	domainerrors "crew-directory.backend/internal/domain/errors"
	"crew-directory.backend/internal/domain/repositories"
	"crew-directory.backend/internal/infrastructure/models"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// freelancerRepo reads the directory views and writes the base tables
type freelancerRepo struct {
	db *gorm.DB
}

// NewFreelancerSource creates the view backed read side
func NewFreelancerSource(db *gorm.DB) repositories.FreelancerSource {
	return &freelancerRepo{db: db}
}

// NewFreelancerWriter creates the table backed write side
func NewFreelancerWriter(db *gorm.DB) repositories.FreelancerWriter {
	return &freelancerRepo{db: db}
}

// ListFreelancerRecords reads vw_freelancers in full
func (r *freelancerRepo) ListFreelancerRecords(ctx context.Context) ([]entities.FreelancerRecord, error) {
	var ms []models.FreelancerView
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]entities.FreelancerRecord, 0, len(ms))
	for i := range ms {
		out = append(out, viewToRecord(&ms[i]))
	}
	return out, nil
}

// ListSkillMemberships reads vw_freelancer_skills in full
func (r *freelancerRepo) ListSkillMemberships(ctx context.Context) ([]entities.SkillMembership, error) {
	var ms []models.SkillMembershipView
	if err := r.db.WithContext(ctx).Order("department_id, skill_id, freelancer_id").Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]entities.SkillMembership, 0, len(ms))
	for _, m := range ms {
		out = append(out, entities.SkillMembership{
			FreelancerID:   m.FreelancerID,
			DepartmentID:   m.DepartmentID,
			DepartmentSlug: m.DepartmentSlug,
			DepartmentName: m.DepartmentName,
			SkillID:        m.SkillID,
			SkillSlug:      m.SkillSlug,
			SkillName:      m.SkillName,
		})
	}
	return out, nil
}

// ListLinkRecords reads vw_freelancer_links, skipping rows with a blank url
func (r *freelancerRepo) ListLinkRecords(ctx context.Context) ([]entities.LinkRecord, error) {
	var ms []models.LinkView
	if err := r.db.WithContext(ctx).Where("TRIM(url) <> ''").Order("freelancer_id, id").Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]entities.LinkRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, entities.LinkRecord{
			ID:           m.ID,
			FreelancerID: m.FreelancerID,
			LinkType:     m.LinkType,
			URL:          m.URL,
		})
	}
	return out, nil
}

// GetByID gets a freelancer from the base table
func (r *freelancerRepo) GetByID(ctx context.Context, id int64) (*entities.FreelancerRecord, error) {
	var m models.Freelancer
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.FreelancerRecord{
		ID:               m.ID,
		Slug:             m.Slug,
		DisplayName:      m.DisplayName,
		Bio:              null.StringFromPtr(m.Bio),
		PhotoAssetID:     null.StringFromPtr(m.PhotoAssetID),
		CVAssetID:        null.StringFromPtr(m.CVAssetID),
		EquipmentAssetID: null.StringFromPtr(m.EquipmentAssetID),
	}, nil
}

// UpdateProfile updates the given base columns
func (r *freelancerRepo) UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()

	result := GetDB(ctx, r.db).Model(&models.Freelancer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateAsset sets or clears one asset column. A nil assetID clears it.
func (r *freelancerRepo) UpdateAsset(ctx context.Context, id int64, kind entities.AssetKind, assetID *string) error {
	column := kind.Column()
	if column == "" {
		return domainerrors.ErrInvalidInput
	}

	result := GetDB(ctx, r.db).Model(&models.Freelancer{}).Where("id = ?", id).Updates(map[string]interface{}{
		column:       assetID,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListLinkRows returns all link rows of one freelancer
func (r *freelancerRepo) ListLinkRows(ctx context.Context, freelancerID int64) ([]entities.LinkRecord, error) {
	var ms []models.FreelancerLink
	if err := GetDB(ctx, r.db).Where("freelancer_id = ?", freelancerID).Order("id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return linkRowsToEntities(ms), nil
}

// UpdateLinkURL overwrites the url of one link row
func (r *freelancerRepo) UpdateLinkURL(ctx context.Context, rowID int64, url string) error {
	result := GetDB(ctx, r.db).Model(&models.FreelancerLink{}).Where("id = ?", rowID).Updates(map[string]interface{}{
		"url":        url,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListAllLinkRows returns every link row in the table
func (r *freelancerRepo) ListAllLinkRows(ctx context.Context) ([]entities.LinkRecord, error) {
	var ms []models.FreelancerLink
	if err := r.db.WithContext(ctx).Order("freelancer_id, id").Find(&ms).Error; err != nil {
		return nil, err
	}
	return linkRowsToEntities(ms), nil
}

func viewToRecord(m *models.FreelancerView) entities.FreelancerRecord {
	return entities.FreelancerRecord{
		ID:               m.ID,
		Slug:             m.Slug,
		DisplayName:      m.DisplayName,
		Bio:              null.StringFromPtr(m.Bio),
		PhotoAssetID:     null.StringFromPtr(m.PhotoAssetID),
		CVAssetID:        null.StringFromPtr(m.CVAssetID),
		EquipmentAssetID: null.StringFromPtr(m.EquipmentAssetID),
	}
}

func linkRowsToEntities(ms []models.FreelancerLink) []entities.LinkRecord {
	out := make([]entities.LinkRecord, 0, len(ms))
	for _, m := range ms {
		out = append(out, entities.LinkRecord{
			ID:           m.ID,
			FreelancerID: m.FreelancerID,
			LinkType:     m.LinkType,
			URL:          m.URL,
		})
	}
	return out
}
