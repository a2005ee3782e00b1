package models

import "time"

type LandingPageStatus string

const (
	LandingPageDraft     LandingPageStatus = "draft"
	LandingPagePublished LandingPageStatus = "published"
)

type LandingPage struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	UserID       uint              `gorm:"index;not null" json:"userId"`
	Title        string            `gorm:"size:255;not null" json:"title"`
	Slug         string            `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Headline     string            `gorm:"size:500" json:"headline"`
	Description  string            `gorm:"type:text" json:"description"`
	Status       LandingPageStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Features     string            `gorm:"type:text" json:"-"` // JSON array
	Testimonials string            `gorm:"type:text" json:"-"` // JSON array
	Views        int64             `gorm:"not null;default:0" json:"views"`
	FormID       *uint             `gorm:"index" json:"formId"`
	Form         *Form             `gorm:"constraint:OnDelete:SET NULL" json:"form,omitempty"`
	PublishedAt  *time.Time        `json:"publishedAt"`
}

func (p *LandingPage) GetUserID() uint   { return p.UserID }
func (p *LandingPage) SetUserID(id uint) { p.UserID = id }

func (p *LandingPage) IsPublished() bool { return p.Status == LandingPagePublished }

// Publish marks the page public. The first publication time is kept.
func (p *LandingPage) Publish(now time.Time) {
	p.Status = LandingPagePublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

func (p *LandingPage) Unpublish() { p.Status = LandingPageDraft }
