package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// News is an agency announcement, optionally with a PDF attachment
type News struct {
	ID          uuid.UUID   `json:"id"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	Body        string      `json:"body"`
	PDFAssetID  null.String `json:"pdfAssetId"`
	PDFURL      null.String `json:"pdfUrl"`
	Published   bool        `json:"published"`
	PublishedAt null.Time   `json:"publishedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewsInput is the admin payload for creating or updating news
type NewsInput struct {
	Title     string `json:"title" binding:"required,max=200"`
	Summary   string `json:"summary" binding:"max=500"`
	Body      string `json:"body"`
	Published *bool  `json:"published"`
}

// NewsPage is one page of the public news feed
type NewsPage struct {
	Items      []*News `json:"items"`
	TotalCount int64   `json:"totalCount"`
}
