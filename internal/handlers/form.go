package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/diewo77/go-growth/internal/services"
	"gorm.io/gorm"
)

type FormHandler struct {
	base
	forms *services.FormService
}

func NewFormHandler(db *gorm.DB, forms *services.FormService) *FormHandler {
	return &FormHandler{base: base{db: db}, forms: forms}
}

var notFoundForm = policy.Forms.NotFoundCode()

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	forms, err := h.forms.List(r.Context(), user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"forms": forms})
	return nil
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in services.FormInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	form, err := h.forms.Create(r.Context(), in, user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"form": form})
	return nil
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundForm)
	if err != nil {
		return err
	}
	form, err := h.forms.Get(r.Context(), id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundForm)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"form": form})
	return nil
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundForm)
	if err != nil {
		return err
	}
	if err := h.forms.Delete(r.Context(), id, user.ID); err != nil {
		return notFoundAs(err, notFoundForm)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

func (h *FormHandler) Submissions(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundForm)
	if err != nil {
		return err
	}
	subs, err := h.forms.Submissions(r.Context(), id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundForm)
	}
	httpx.JSON(w, http.StatusOK, subs)
	return nil
}

type submitInput struct {
	Data map[string]any `json:"data" validate:"required"`
}

// Submit is the public endpoint behind published landing pages.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id", notFoundForm)
	if err != nil {
		return err
	}
	var in submitInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	sub, err := h.forms.Submit(r.Context(), id, in.Data)
	var missing *services.MissingFieldsError
	if errors.As(err, &missing) {
		return httpx.Invalid("validation_failed", missing.Fields)
	}
	if err != nil {
		return notFoundAs(err, notFoundForm)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"submission": sub})
	return nil
}
