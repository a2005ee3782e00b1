package handlers

import (
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/models"
	"gorm.io/gorm"
)

type AdminHandler struct {
	base
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{base: base{db: db}}
}

// Data returns every lead, contact message and subscription, newest first.
// The route is not behind a session; only the /admin page is gated.
func (h *AdminHandler) Data(w http.ResponseWriter, r *http.Request) error {
	db := h.db.WithContext(r.Context())
	leads := []models.Lead{}
	contacts := []models.ContactMessage{}
	subs := []models.Subscription{}
	if err := db.Order("created_at DESC").Find(&leads).Error; err != nil {
		return httpx.Internal(err)
	}
	if err := db.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return httpx.Internal(err)
	}
	if err := db.Order("created_at DESC").Find(&subs).Error; err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"leads":         leads,
		"contacts":      contacts,
		"subscriptions": subs,
	})
	return nil
}
