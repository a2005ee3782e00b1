package models

import (
	"errors"
	"fmt"
	"time"
)

type WorkflowStatus string

const (
	WorkflowDraft  WorkflowStatus = "draft"
	WorkflowActive WorkflowStatus = "active"
	WorkflowPaused WorkflowStatus = "paused"
)

var (
	ErrWorkflowNoActions = errors.New("workflow has no actions")
	ErrInvalidTransition = errors.New("invalid workflow transition")
)

// ParseWorkflowStatus accepts only the known statuses.
func ParseWorkflowStatus(s string) (WorkflowStatus, error) {
	switch st := WorkflowStatus(s); st {
	case WorkflowDraft, WorkflowActive, WorkflowPaused:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, s)
}

type Workflow struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	UserID      uint             `gorm:"index;not null" json:"userId"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Trigger     string           `gorm:"size:100;not null" json:"trigger"`
	Status      WorkflowStatus   `gorm:"size:20;not null;default:'draft'" json:"status"`
	Actions     []WorkflowAction `gorm:"constraint:OnDelete:CASCADE" json:"actions"`
}

func (w *Workflow) GetUserID() uint   { return w.UserID }
func (w *Workflow) SetUserID(id uint) { w.UserID = id }

// Transition moves the workflow to target. Activation needs at least one
// loaded action and is allowed from any status, including active. Pausing
// is unconditional. Draft cannot be re-entered.
func (w *Workflow) Transition(target WorkflowStatus) error {
	switch target {
	case WorkflowActive:
		if len(w.Actions) == 0 {
			return ErrWorkflowNoActions
		}
	case WorkflowPaused:
	default:
		return fmt.Errorf("%w: to %q", ErrInvalidTransition, target)
	}
	w.Status = target
	return nil
}

type WorkflowAction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	WorkflowID uint      `gorm:"index;not null" json:"workflowId"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Config     string    `gorm:"type:text" json:"config"` // JSON object
	Order      int       `gorm:"column:order;not null;default:0" json:"order"`
}
