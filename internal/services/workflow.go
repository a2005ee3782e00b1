package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// WorkflowInput is the payload for creating a workflow.
type WorkflowInput struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description"`
	Trigger     string `json:"trigger" validate:"notblank,max=100"`
}

// ActionInput is the payload for appending an action.
type ActionInput struct {
	Type   string          `json:"type" validate:"notblank,max=50"`
	Config json.RawMessage `json:"config"`
	Order  *int            `json:"order"`
}

func withActions(db *gorm.DB) *gorm.DB {
	return db.Preload("Actions", policy.OrderedBy("order"))
}

func (s *WorkflowService) List(ctx context.Context, ownerID uint) ([]models.Workflow, error) {
	return policy.Workflows.List(ctx, s.db, ownerID, withActions, newestFirst)
}

func (s *WorkflowService) Get(ctx context.Context, id, ownerID uint) (*models.Workflow, error) {
	return policy.Workflows.Find(ctx, s.db, id, ownerID, withActions)
}

// Create stores a new draft workflow.
func (s *WorkflowService) Create(ctx context.Context, in WorkflowInput, ownerID uint) (*models.Workflow, error) {
	wf := &models.Workflow{
		Name:        in.Name,
		Description: in.Description,
		Trigger:     in.Trigger,
		Status:      models.WorkflowDraft,
		Actions:     []models.WorkflowAction{},
	}
	if err := policy.Workflows.Create(ctx, s.db, wf, ownerID); err != nil {
		return nil, err
	}
	return wf, nil
}

func (s *WorkflowService) Delete(ctx context.Context, id, ownerID uint) error {
	return policy.Workflows.Delete(ctx, s.db, id, ownerID)
}

// AddAction appends an action to an owned workflow. Without an explicit
// order the action goes last.
func (s *WorkflowService) AddAction(ctx context.Context, workflowID, ownerID uint, in ActionInput) (*models.WorkflowAction, error) {
	if err := policy.Workflows.Check(ctx, s.db, workflowID, ownerID); err != nil {
		return nil, err
	}
	action := &models.WorkflowAction{WorkflowID: workflowID, Type: in.Type, Config: "{}"}
	if len(in.Config) > 0 && string(in.Config) != "null" {
		action.Config = string(in.Config)
	}
	if in.Order != nil {
		action.Order = *in.Order
	} else {
		var maxOrder sql.NullInt64
		err := s.db.WithContext(ctx).Model(&models.WorkflowAction{}).
			Where("workflow_id = ?", workflowID).
			Select("MAX(?)", clause.Column{Name: "order"}).
			Row().Scan(&maxOrder)
		if err != nil {
			return nil, fmt.Errorf("next action order: %w", err)
		}
		if maxOrder.Valid {
			action.Order = int(maxOrder.Int64) + 1
		}
	}
	if err := s.db.WithContext(ctx).Create(action).Error; err != nil {
		return nil, fmt.Errorf("create workflow action: %w", err)
	}
	return action, nil
}

// Activate sets an owned workflow active. It fails with
// models.ErrWorkflowNoActions when the workflow has no actions, whatever its
// current status. Activating an active workflow is accepted.
func (s *WorkflowService) Activate(ctx context.Context, id, callerID uint) (*models.Workflow, error) {
	return s.transition(ctx, id, callerID, models.WorkflowActive)
}

// Pause sets an owned workflow paused.
func (s *WorkflowService) Pause(ctx context.Context, id, callerID uint) (*models.Workflow, error) {
	return s.transition(ctx, id, callerID, models.WorkflowPaused)
}

func (s *WorkflowService) transition(ctx context.Context, id, callerID uint, target models.WorkflowStatus) (*models.Workflow, error) {
	wf, err := policy.Workflows.Find(ctx, s.db, id, callerID, withActions)
	if err != nil {
		return nil, err
	}
	if err := wf.Transition(target); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&models.Workflow{}).
		Scopes(policy.Workflows.Scope(callerID)).
		Where("id = ?", wf.ID).
		UpdateColumn("status", wf.Status).Error
	if err != nil {
		return nil, fmt.Errorf("update workflow %d status: %w", wf.ID, err)
	}
	return wf, nil
}
