package services

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"gorm.io/gorm"
)

type ContactInput struct {
	Name    string `json:"name" validate:"notblank,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Company string `json:"company" validate:"max=255"`
	Status  string `json:"status" validate:"omitempty,oneof=lead prospect customer churned"`
}

type InteractionInput struct {
	Type       string     `json:"type" validate:"oneof=call email meeting note"`
	Notes      string     `json:"notes"`
	OccurredAt *time.Time `json:"occurredAt"`
}

// CRMStats summarizes a user's contacts and their interactions.
type CRMStats struct {
	TotalContacts      int64                          `json:"totalContacts"`
	ByStatus           map[models.ContactStatus]int64 `json:"byStatus"`
	TotalInteractions  int64                          `json:"totalInteractions"`
	InteractionsByType map[string]int64               `json:"interactionsByType"`
	ConversionRate     float64                        `json:"conversionRate"` // customers / contacts, percent
}

type CRMService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCRMService(db *gorm.DB) *CRMService {
	return &CRMService{db: db, now: time.Now}
}

func (s *CRMService) ListContacts(ctx context.Context, ownerID uint) ([]models.CRMContact, error) {
	return policy.CRMContacts.List(ctx, s.db, ownerID, newestFirst)
}

func (s *CRMService) GetContact(ctx context.Context, id, ownerID uint) (*models.CRMContact, error) {
	return policy.CRMContacts.Find(ctx, s.db, id, ownerID, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Interactions", newestInteractionFirst)
	})
}

func (s *CRMService) CreateContact(ctx context.Context, in ContactInput, ownerID uint) (*models.CRMContact, error) {
	c := &models.CRMContact{Name: in.Name, Email: in.Email, Phone: in.Phone, Company: in.Company, Status: models.ContactLead}
	if in.Status != "" {
		c.Status = models.ContactStatus(in.Status)
	}
	if err := policy.CRMContacts.Create(ctx, s.db, c, ownerID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CRMService) DeleteContact(ctx context.Context, id, ownerID uint) error {
	return policy.CRMContacts.Delete(ctx, s.db, id, ownerID)
}

func newestInteractionFirst(db *gorm.DB) *gorm.DB {
	return db.Order("occurred_at DESC").Order("id DESC")
}

// Interactions lists the interactions of an owned contact.
func (s *CRMService) Interactions(ctx context.Context, contactID, ownerID uint) ([]models.CRMInteraction, error) {
	if err := policy.CRMContacts.Check(ctx, s.db, contactID, ownerID); err != nil {
		return nil, err
	}
	return policy.CRMInteractions.List(ctx, s.db, ownerID, func(db *gorm.DB) *gorm.DB {
		return newestInteractionFirst(db.Where("contact_id = ?", contactID))
	})
}

// AddInteraction records an interaction on an owned contact.
func (s *CRMService) AddInteraction(ctx context.Context, contactID, ownerID uint, in InteractionInput) (*models.CRMInteraction, error) {
	if err := policy.CRMContacts.Check(ctx, s.db, contactID, ownerID); err != nil {
		return nil, err
	}
	it := &models.CRMInteraction{ContactID: contactID, Type: in.Type, Notes: in.Notes, OccurredAt: s.now()}
	if in.OccurredAt != nil {
		it.OccurredAt = *in.OccurredAt
	}
	if err := policy.CRMInteractions.Create(ctx, s.db, it, ownerID); err != nil {
		return nil, err
	}
	return it, nil
}

// Stats aggregates the owner's contacts by status.
func (s *CRMService) Stats(ctx context.Context, ownerID uint) (CRMStats, error) {
	stats := CRMStats{
		ByStatus:           make(map[models.ContactStatus]int64, len(models.ContactStatuses)),
		InteractionsByType: map[string]int64{},
	}
	for _, st := range models.ContactStatuses {
		stats.ByStatus[st] = 0
	}
	var rows []struct {
		Status models.ContactStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.CRMContact{}).
		Scopes(policy.CRMContacts.Scope(ownerID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return CRMStats{}, fmt.Errorf("crm stats: %w", err)
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.TotalContacts += r.Count
	}
	var types []struct {
		Type  string
		Count int64
	}
	err = s.db.WithContext(ctx).Model(&models.CRMInteraction{}).
		Scopes(policy.CRMInteractions.Scope(ownerID)).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&types).Error
	if err != nil {
		return CRMStats{}, fmt.Errorf("crm interaction types: %w", err)
	}
	for _, t := range types {
		stats.InteractionsByType[t.Type] = t.Count
		stats.TotalInteractions += t.Count
	}
	if stats.TotalContacts > 0 {
		stats.ConversionRate = float64(stats.ByStatus[models.ContactCustomer]) * 100 / float64(stats.TotalContacts)
	}
	return stats, nil
}
