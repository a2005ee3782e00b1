package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/diewo77/go-growth/internal/services"
	"gorm.io/gorm"
)

type WorkflowHandler struct {
	base
	workflows *services.WorkflowService
}

func NewWorkflowHandler(db *gorm.DB, workflows *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{base: base{db: db}, workflows: workflows}
}

var notFoundWorkflow = policy.Workflows.NotFoundCode()

// workflowError maps service errors to API errors.
func workflowError(err error) error {
	switch {
	case errors.Is(err, models.ErrWorkflowNoActions):
		return &httpx.Error{Kind: httpx.KindValidation, Code: "workflow_no_actions", Err: err}
	case errors.Is(err, models.ErrInvalidTransition):
		return &httpx.Error{Kind: httpx.KindValidation, Code: "workflow_invalid_status", Err: err}
	}
	return notFoundAs(err, notFoundWorkflow)
}

func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	wfs, err := h.workflows.List(r.Context(), user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"workflows": wfs})
	return nil
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in services.WorkflowInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	wf, err := h.workflows.Create(r.Context(), in, user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"workflow": wf})
	return nil
}

func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundWorkflow)
	if err != nil {
		return err
	}
	wf, err := h.workflows.Get(r.Context(), id, user.ID)
	if err != nil {
		return workflowError(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"workflow": wf})
	return nil
}

func (h *WorkflowHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundWorkflow)
	if err != nil {
		return err
	}
	if err := h.workflows.Delete(r.Context(), id, user.ID); err != nil {
		return workflowError(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

func (h *WorkflowHandler) AddAction(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundWorkflow)
	if err != nil {
		return err
	}
	var in services.ActionInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	action, err := h.workflows.AddAction(r.Context(), id, user.ID, in)
	if err != nil {
		return workflowError(err)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"action": action})
	return nil
}

func (h *WorkflowHandler) Activate(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.workflows.Activate)
}

func (h *WorkflowHandler) Pause(w http.ResponseWriter, r *http.Request) error {
	return h.transition(w, r, h.workflows.Pause)
}

type transitionFunc func(ctx context.Context, id, callerID uint) (*models.Workflow, error)

func (h *WorkflowHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundWorkflow)
	if err != nil {
		return err
	}
	wf, err := fn(r.Context(), id, user.ID)
	if err != nil {
		return workflowError(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"workflow": wf})
	return nil
}
