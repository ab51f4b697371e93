package models

import (
	"time"
)

// FreelancerView maps the read-only directory view of active freelancers
type FreelancerView struct {
	ID               int64   `gorm:"column:id;primaryKey"`
	Slug             string  `gorm:"column:slug"`
	DisplayName      string  `gorm:"column:display_name"`
	Bio              *string `gorm:"column:bio"`
	PhotoAssetID     *string `gorm:"column:photo_asset_id"`
	CVAssetID        *string `gorm:"column:cv_asset_id"`
	EquipmentAssetID *string `gorm:"column:equipment_asset_id"`
}

func (FreelancerView) TableName() string {
	return "vw_freelancers"
}

// SkillMembershipView maps one (freelancer, department, skill) row
type SkillMembershipView struct {
	FreelancerID   int64  `gorm:"column:freelancer_id"`
	DepartmentID   int64  `gorm:"column:department_id"`
	DepartmentSlug string `gorm:"column:department_slug"`
	DepartmentName string `gorm:"column:department_name"`
	SkillID        int64  `gorm:"column:skill_id"`
	SkillSlug      string `gorm:"column:skill_slug"`
	SkillName      string `gorm:"column:skill_name"`
}

func (SkillMembershipView) TableName() string {
	return "vw_freelancer_skills"
}

// LinkView maps link rows that carry a url
type LinkView struct {
	ID           int64  `gorm:"column:id"`
	FreelancerID int64  `gorm:"column:freelancer_id"`
	LinkType     string `gorm:"column:link_type"`
	URL          string `gorm:"column:url"`
}

func (LinkView) TableName() string {
	return "vw_freelancer_links"
}

// Freelancer is the writable base table behind vw_freelancers
type Freelancer struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	Slug             string  `gorm:"type:varchar(120);uniqueIndex;not null"`
	DisplayName      string  `gorm:"type:varchar(200);not null"`
	Bio              *string `gorm:"type:text"`
	PhotoAssetID     *string `gorm:"type:varchar(255)"`
	CVAssetID        *string `gorm:"column:cv_asset_id;type:varchar(255)"`
	EquipmentAssetID *string `gorm:"type:varchar(255)"`
	IsActive         bool    `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Freelancer) TableName() string {
	return "freelancers"
}

// FreelancerLink is one stored link row. Each freelancer is expected to have
// one row per link type, possibly with an empty url.
type FreelancerLink struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FreelancerID int64  `gorm:"not null;index"`
	LinkType     string `gorm:"type:varchar(40);not null"`
	URL          string `gorm:"column:url;type:varchar(500);not null;default:''"`
	UpdatedAt    time.Time
}

func (FreelancerLink) TableName() string {
	return "freelancer_links"
}
