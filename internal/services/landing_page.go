package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrSlugTaken            = errors.New("slug already in use")
	ErrInvalidPublishAction = errors.New("publish action must be publish or unpublish")
)

// LandingPageView is a landing page with its JSON columns decoded.
type LandingPageView struct {
	models.LandingPage
	Features     []any `json:"features"`
	Testimonials []any `json:"testimonials"`
}

// PresentLandingPage decodes the stored features and testimonials.
// Corrupt stored JSON is an error.
func PresentLandingPage(p models.LandingPage) (LandingPageView, error) {
	v := LandingPageView{LandingPage: p}
	var err error
	if v.Features, err = decodeArray(p.Features); err != nil {
		return LandingPageView{}, fmt.Errorf("landing page %d features: %w", p.ID, err)
	}
	if v.Testimonials, err = decodeArray(p.Testimonials); err != nil {
		return LandingPageView{}, fmt.Errorf("landing page %d testimonials: %w", p.ID, err)
	}
	return v, nil
}

func decodeArray(s string) ([]any, error) {
	out := []any{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []any{}
	}
	return out, nil
}

func encodeArray(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "[]"
	}
	return string(raw)
}

// LandingPageInput is the payload for creating a landing page. An empty
// slug is derived from the title.
type LandingPageInput struct {
	Title        string          `json:"title" validate:"notblank,max=255"`
	Slug         string          `json:"slug" validate:"max=255"`
	Headline     string          `json:"headline" validate:"max=500"`
	Description  string          `json:"description"`
	Features     json.RawMessage `json:"features" validate:"jsonarray"`
	Testimonials json.RawMessage `json:"testimonials" validate:"jsonarray"`
	FormID       *uint           `json:"formId"`
}

type LandingPageService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLandingPageService(db *gorm.DB) *LandingPageService {
	return &LandingPageService{db: db, now: time.Now}
}

func withFormFields(db *gorm.DB) *gorm.DB {
	return db.Preload("Form").Preload("Form.Fields", policy.OrderedBy("order"))
}

func (s *LandingPageService) List(ctx context.Context, ownerID uint) ([]LandingPageView, error) {
	pages, err := policy.LandingPages.List(ctx, s.db, ownerID, newestFirst)
	if err != nil {
		return nil, err
	}
	views := make([]LandingPageView, 0, len(pages))
	for _, p := range pages {
		v, err := PresentLandingPage(p)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *LandingPageService) Get(ctx context.Context, id, ownerID uint) (LandingPageView, error) {
	p, err := policy.LandingPages.Find(ctx, s.db, id, ownerID, withFormFields)
	if err != nil {
		return LandingPageView{}, err
	}
	return PresentLandingPage(*p)
}

// Create stores a draft page. A linked form must belong to the same owner.
func (s *LandingPageService) Create(ctx context.Context, in LandingPageInput, ownerID uint) (LandingPageView, error) {
	if in.FormID != nil {
		if err := policy.Forms.Check(ctx, s.db, *in.FormID, ownerID); err != nil {
			return LandingPageView{}, err
		}
	}
	source := in.Slug
	if strings.TrimSpace(source) == "" {
		source = in.Title
	}
	page := &models.LandingPage{
		Title:        in.Title,
		Slug:         slug.Make(source),
		Headline:     in.Headline,
		Description:  in.Description,
		Status:       models.LandingPageDraft,
		Features:     encodeArray(in.Features),
		Testimonials: encodeArray(in.Testimonials),
		FormID:       in.FormID,
	}
	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.LandingPage{}).Where("slug = ?", page.Slug).Count(&taken).Error; err != nil {
		return LandingPageView{}, fmt.Errorf("check slug: %w", err)
	}
	if taken > 0 {
		return LandingPageView{}, ErrSlugTaken
	}
	if err := policy.LandingPages.Create(ctx, s.db, page, ownerID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return LandingPageView{}, ErrSlugTaken
		}
		return LandingPageView{}, err
	}
	return PresentLandingPage(*page)
}

func (s *LandingPageService) Delete(ctx context.Context, id, ownerID uint) error {
	return policy.LandingPages.Delete(ctx, s.db, id, ownerID)
}

// SetPublished applies "publish" or "unpublish" to an owned page.
func (s *LandingPageService) SetPublished(ctx context.Context, id, ownerID uint, action string) (LandingPageView, error) {
	if action != "publish" && action != "unpublish" {
		return LandingPageView{}, ErrInvalidPublishAction
	}
	p, err := policy.LandingPages.Find(ctx, s.db, id, ownerID)
	if err != nil {
		return LandingPageView{}, err
	}
	if action == "publish" {
		p.Publish(s.now())
	} else {
		p.Unpublish()
	}
	err = s.db.WithContext(ctx).Model(&models.LandingPage{}).
		Scopes(policy.LandingPages.Scope(ownerID)).
		Where("id = ?", p.ID).
		Updates(map[string]any{"status": p.Status, "published_at": p.PublishedAt}).Error
	if err != nil {
		return LandingPageView{}, fmt.Errorf("update landing page %d: %w", p.ID, err)
	}
	return PresentLandingPage(*p)
}

// GetPublishedBySlug returns a published page and counts the view. Missing
// and unpublished pages return policy.ErrNotFound without touching any
// counter. The increment is one SQL expression, so concurrent fetches each
// add exactly one.
func (s *LandingPageService) GetPublishedBySlug(ctx context.Context, pageSlug string) (LandingPageView, error) {
	db := s.db.WithContext(ctx)
	var page models.LandingPage
	err := db.Scopes(withFormFields).
		Where("slug = ? AND status = ?", pageSlug, models.LandingPagePublished).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LandingPageView{}, fmt.Errorf("landing page %q: %w", pageSlug, policy.ErrNotFound)
	}
	if err != nil {
		return LandingPageView{}, fmt.Errorf("find landing page %q: %w", pageSlug, err)
	}

	err = db.Model(&models.LandingPage{}).
		Where("id = ?", page.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return LandingPageView{}, fmt.Errorf("count view of landing page %d: %w", page.ID, err)
	}
	if err := db.Model(&models.LandingPage{}).Where("id = ?", page.ID).Select("views").Row().Scan(&page.Views); err != nil {
		return LandingPageView{}, fmt.Errorf("read views of landing page %d: %w", page.ID, err)
	}
	return PresentLandingPage(page)
}
