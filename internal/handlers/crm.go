package handlers

import (
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/diewo77/go-growth/internal/services"
	"gorm.io/gorm"
)

type CRMHandler struct {
	base
	crm *services.CRMService
}

func NewCRMHandler(db *gorm.DB, crm *services.CRMService) *CRMHandler {
	return &CRMHandler{base: base{db: db}, crm: crm}
}

var notFoundContact = policy.CRMContacts.NotFoundCode()

func (h *CRMHandler) ListContacts(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	contacts, err := h.crm.ListContacts(r.Context(), user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"contacts": contacts})
	return nil
}

func (h *CRMHandler) CreateContact(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in services.ContactInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	c, err := h.crm.CreateContact(r.Context(), in, user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"contact": c})
	return nil
}

func (h *CRMHandler) GetContact(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundContact)
	if err != nil {
		return err
	}
	c, err := h.crm.GetContact(r.Context(), id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundContact)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"contact": c})
	return nil
}

func (h *CRMHandler) DeleteContact(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundContact)
	if err != nil {
		return err
	}
	if err := h.crm.DeleteContact(r.Context(), id, user.ID); err != nil {
		return notFoundAs(err, notFoundContact)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

func (h *CRMHandler) ListInteractions(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundContact)
	if err != nil {
		return err
	}
	items, err := h.crm.Interactions(r.Context(), id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundContact)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"interactions": items})
	return nil
}

func (h *CRMHandler) AddInteraction(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundContact)
	if err != nil {
		return err
	}
	var in services.InteractionInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	it, err := h.crm.AddInteraction(r.Context(), id, user.ID, in)
	if err != nil {
		return notFoundAs(err, notFoundContact)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"interaction": it})
	return nil
}

func (h *CRMHandler) Stats(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	stats, err := h.crm.Stats(r.Context(), user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stats": stats})
	return nil
}
