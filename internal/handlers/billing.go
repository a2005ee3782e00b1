package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/i18n"
	"github.com/diewo77/go-growth/internal/billing"
	"gorm.io/gorm"
)

type BillingHandler struct {
	base
	billing *billing.Service
}

func NewBillingHandler(db *gorm.DB, svc *billing.Service) *BillingHandler {
	return &BillingHandler{base: base{db: db}, billing: svc}
}

type checkoutInput struct {
	Plan   string `json:"plan" validate:"notblank"`
	Locale string `json:"locale"`
}

// Checkout starts a hosted checkout for the session user. Without a locale
// the request language is used.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in checkoutInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	locale := in.Locale
	if locale == "" {
		locale = i18n.LangFrom(r.Context())
	}
	sub, sess, err := h.billing.Checkout(r.Context(), user, in.Plan, locale)
	switch {
	case errors.Is(err, billing.ErrUnknownPlan):
		return httpx.BadRequest("unknown_plan")
	case errors.Is(err, billing.ErrProvider):
		return httpx.Upstream("billing_unavailable", err)
	case err != nil:
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"url":          sess.URL,
		"sessionId":    sess.ID,
		"subscription": sub,
	})
	return nil
}
