package models

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Kind            string     `gorm:"type:varchar(20);not null;index"`
	Name            string     `gorm:"type:varchar(120);not null"`
	Email           string     `gorm:"type:varchar(255);not null"`
	Phone           *string    `gorm:"type:varchar(40)"`
	Company         *string    `gorm:"type:varchar(120)"`
	Subject         *string    `gorm:"type:varchar(200)"`
	Message         string     `gorm:"type:text;not null"`
	ProductionDates *string    `gorm:"type:varchar(200)"`
	DepartmentSlug  *string    `gorm:"type:varchar(80)"`
	Handled         bool       `gorm:"not null;default:false"`
	HandledAt       *time.Time `gorm:"type:timestamp"`
	CreatedAt       time.Time
}

func (Submission) TableName() string {
	return "submissions"
}
