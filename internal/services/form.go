package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"gorm.io/gorm"
)

// MissingFieldsError lists required form fields absent from a submission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

type FormFieldInput struct {
	Label    string `json:"label" validate:"notblank,max=255"`
	Name     string `json:"name" validate:"notblank,max=100"`
	Type     string `json:"type" validate:"omitempty,oneof=text email phone textarea select checkbox number"`
	Required bool   `json:"required"`
}

type FormInput struct {
	Name        string           `json:"name" validate:"notblank,max=255"`
	Description string           `json:"description"`
	Fields      []FormFieldInput `json:"fields" validate:"dive"`
}

type FormService struct {
	db *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{db: db}
}

func withFields(db *gorm.DB) *gorm.DB {
	return db.Preload("Fields", policy.OrderedBy("order"))
}

func (s *FormService) List(ctx context.Context, ownerID uint) ([]models.Form, error) {
	return policy.Forms.List(ctx, s.db, ownerID, withFields, newestFirst)
}

func (s *FormService) Get(ctx context.Context, id, ownerID uint) (*models.Form, error) {
	return policy.Forms.Find(ctx, s.db, id, ownerID, withFields)
}

// Create stores a form with its fields in the given order.
func (s *FormService) Create(ctx context.Context, in FormInput, ownerID uint) (*models.Form, error) {
	form := &models.Form{Name: in.Name, Description: in.Description, Fields: make([]models.FormField, 0, len(in.Fields))}
	for i, f := range in.Fields {
		typ := f.Type
		if typ == "" {
			typ = "text"
		}
		form.Fields = append(form.Fields, models.FormField{Label: f.Label, Name: f.Name, Type: typ, Required: f.Required, Order: i})
	}
	if err := policy.Forms.Create(ctx, s.db, form, ownerID); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *FormService) Delete(ctx context.Context, id, ownerID uint) error {
	return policy.Forms.Delete(ctx, s.db, id, ownerID)
}

// Submissions lists the submissions of an owned form, newest first.
func (s *FormService) Submissions(ctx context.Context, formID, ownerID uint) ([]models.FormSubmission, error) {
	if err := policy.Forms.Check(ctx, s.db, formID, ownerID); err != nil {
		return nil, err
	}
	subs := []models.FormSubmission{}
	err := s.db.WithContext(ctx).Where("form_id = ?", formID).Scopes(newestFirst).Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions of form %d: %w", formID, err)
	}
	return subs, nil
}

// Submit records a public submission. Forms are addressed by id without an
// owner; required fields must be present.
func (s *FormService) Submit(ctx context.Context, formID uint, data map[string]any) (*models.FormSubmission, error) {
	var form models.Form
	err := s.db.WithContext(ctx).Scopes(withFields).First(&form, formID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("form %d: %w", formID, policy.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find form %d: %w", formID, err)
	}
	if missing := form.MissingRequired(data); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}
	sub := &models.FormSubmission{FormID: form.ID, Data: string(raw)}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}
