package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type News struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Slug        string     `gorm:"type:varchar(200);uniqueIndex;not null"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Summary     string     `gorm:"type:varchar(500)"`
	Body        string     `gorm:"type:text"`
	PDFAssetID  *string    `gorm:"column:pdf_asset_id;type:varchar(255)"`
	Published   bool       `gorm:"not null;default:false"`
	PublishedAt *time.Time `gorm:"type:timestamp"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (News) TableName() string {
	return "news"
}
