package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/i18n"
	"github.com/diewo77/go-growth/internal/models"
	"gorm.io/gorm"
)

// PublicHandler serves the anonymous marketing endpoints.
type PublicHandler struct {
	base
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{base: base{db: db}}
}

type leadInput struct {
	Name     string  `json:"name" validate:"notblank,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Interest *string `json:"interest" validate:"omitempty,max=255"`
	Language *string `json:"language"`
	Source   string  `json:"source" validate:"max=50"`
}

type contactInput struct {
	Name     string  `json:"name" validate:"notblank,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Message  string  `json:"message" validate:"notblank"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	Language *string `json:"language"`
}

// language stores the given language when it is one we serve, else the default.
func language(l *string) string {
	if l == nil || strings.TrimSpace(*l) == "" {
		return models.DefaultLanguage
	}
	return i18n.Normalize(*l)
}

// blankToNil keeps optional columns NULL instead of empty.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (h *PublicHandler) CreateLead(w http.ResponseWriter, r *http.Request) error {
	var in leadInput
	if err := decode(r, &in, "lead_required"); err != nil {
		return err
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "website"
	}
	lead := models.Lead{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Company:  blankToNil(in.Company),
		Phone:    blankToNil(in.Phone),
		Interest: blankToNil(in.Interest),
		Language: language(in.Language),
		Source:   source,
	}
	if err := h.db.WithContext(r.Context()).Create(&lead).Error; err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"lead": lead})
	return nil
}

func (h *PublicHandler) CreateContact(w http.ResponseWriter, r *http.Request) error {
	var in contactInput
	if err := decode(r, &in, "contact_required"); err != nil {
		return err
	}
	msg := models.ContactMessage{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Message:  strings.TrimSpace(in.Message),
		Company:  blankToNil(in.Company),
		Phone:    blankToNil(in.Phone),
		Language: language(in.Language),
	}
	if err := h.db.WithContext(r.Context()).Create(&msg).Error; err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"contactMessage": msg})
	return nil
}
