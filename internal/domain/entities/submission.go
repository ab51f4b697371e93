package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SubmissionKind distinguishes the public forms
type SubmissionKind string

const (
	SubmissionContact SubmissionKind = "CONTACT"
	SubmissionJob     SubmissionKind = "JOB"
)

// Submission is a stored contact or job form entry
type Submission struct {
	ID              uuid.UUID      `json:"id"`
	Kind            SubmissionKind `json:"kind"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           null.String    `json:"phone"`
	Company         null.String    `json:"company"`
	Subject         null.String    `json:"subject"`
	Message         string         `json:"message"`
	ProductionDates null.String    `json:"productionDates"`
	DepartmentSlug  null.String    `json:"departmentSlug"`
	Handled         bool           `json:"handled"`
	HandledAt       null.Time      `json:"handledAt"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// ContactInput is the public contact form
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=40"`
	Company string `json:"company" binding:"max=120"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// JobInput is the public job submission form
type JobInput struct {
	Name            string `json:"name" binding:"required,max=120"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=40"`
	Company         string `json:"company" binding:"required,max=120"`
	ProductionDates string `json:"productionDates" binding:"max=200"`
	DepartmentSlug  string `json:"departmentSlug" binding:"max=80"`
	Message         string `json:"message" binding:"required,max=5000"`
}

// SubmissionFilter narrows the admin submission list
type SubmissionFilter struct {
	Kind          SubmissionKind
	OnlyUnhandled bool
}
