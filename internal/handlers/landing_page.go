package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/diewo77/go-growth/internal/services"
	"gorm.io/gorm"
)

type LandingPageHandler struct {
	base
	pages *services.LandingPageService
}

func NewLandingPageHandler(db *gorm.DB, pages *services.LandingPageService) *LandingPageHandler {
	return &LandingPageHandler{base: base{db: db}, pages: pages}
}

var notFoundLandingPage = policy.LandingPages.NotFoundCode()

func (h *LandingPageHandler) List(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	pages, err := h.pages.List(r.Context(), user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"landingPages": pages})
	return nil
}

func (h *LandingPageHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in services.LandingPageInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	page, err := h.pages.Create(r.Context(), in, user.ID)
	switch {
	case errors.Is(err, services.ErrSlugTaken):
		return httpx.BadRequest("slug_taken")
	case err != nil:
		return notFoundAs(err, notFoundForm)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"landingPage": page})
	return nil
}

func (h *LandingPageHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundLandingPage)
	if err != nil {
		return err
	}
	page, err := h.pages.Get(r.Context(), id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundLandingPage)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"landingPage": page})
	return nil
}

func (h *LandingPageHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundLandingPage)
	if err != nil {
		return err
	}
	if err := h.pages.Delete(r.Context(), id, user.ID); err != nil {
		return notFoundAs(err, notFoundLandingPage)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

type publishInput struct {
	Action string `json:"action"`
}

// Publish applies {"action": "publish"|"unpublish"}.
func (h *LandingPageHandler) Publish(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundLandingPage)
	if err != nil {
		return err
	}
	var in publishInput
	if err := httpx.Decode(r, &in); err != nil {
		return err
	}
	page, err := h.pages.SetPublished(r.Context(), id, user.ID, in.Action)
	switch {
	case errors.Is(err, services.ErrInvalidPublishAction):
		return httpx.BadRequest("invalid_publish_action")
	case err != nil:
		return notFoundAs(err, notFoundLandingPage)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"landingPage": page})
	return nil
}

// BySlug serves a published page to anyone and counts the view.
func (h *LandingPageHandler) BySlug(w http.ResponseWriter, r *http.Request) error {
	page, err := h.pages.GetPublishedBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		return notFoundAs(err, notFoundLandingPage)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"landingPage": page})
	return nil
}
