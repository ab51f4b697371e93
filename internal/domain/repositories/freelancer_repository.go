package repositories

import (
	"context"

	"crew-directory.backend/internal/domain/entities"
)

// FreelancerSource reads the three directory views in full. Filtering is
// done by callers on the returned snapshots.
type FreelancerSource interface {
	ListFreelancerRecords(ctx context.Context) ([]entities.FreelancerRecord, error)
	ListSkillMemberships(ctx context.Context) ([]entities.SkillMembership, error)
	// ListLinkRecords returns only rows with a non-empty url
	ListLinkRecords(ctx context.Context) ([]entities.LinkRecord, error)
}

// FreelancerWriter updates freelancer base columns and link rows
type FreelancerWriter interface {
	GetByID(ctx context.Context, id int64) (*entities.FreelancerRecord, error)
	UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateAsset(ctx context.Context, id int64, kind entities.AssetKind, assetID *string) error
	// ListLinkRows returns every link row of one freelancer, empty urls included
	ListLinkRows(ctx context.Context, freelancerID int64) ([]entities.LinkRecord, error)
	UpdateLinkURL(ctx context.Context, rowID int64, url string) error
	// ListAllLinkRows returns every link row of every freelancer, empty urls included
	ListAllLinkRows(ctx context.Context) ([]entities.LinkRecord, error)
}
