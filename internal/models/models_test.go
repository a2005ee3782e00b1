package models

import (
	"errors"
	"testing"
	"time"
)

func TestWorkflow_Transition(t *testing.T) {
	withAction := []WorkflowAction{{Type: "send_email"}}
	tests := []struct {
		name    string
		from    WorkflowStatus
		actions []WorkflowAction
		target  WorkflowStatus
		want    WorkflowStatus
		wantErr error
	}{
		{"activate draft", WorkflowDraft, withAction, WorkflowActive, WorkflowActive, nil},
		{"activate active again", WorkflowActive, withAction, WorkflowActive, WorkflowActive, nil},
		{"activate paused", WorkflowPaused, withAction, WorkflowActive, WorkflowActive, nil},
		{"activate without actions", WorkflowDraft, nil, WorkflowActive, WorkflowDraft, ErrWorkflowNoActions},
		{"activate active without actions", WorkflowActive, nil, WorkflowActive, WorkflowActive, ErrWorkflowNoActions},
		{"pause draft", WorkflowDraft, nil, WorkflowPaused, WorkflowPaused, nil},
		{"pause active", WorkflowActive, withAction, WorkflowPaused, WorkflowPaused, nil},
		{"back to draft", WorkflowActive, withAction, WorkflowDraft, WorkflowActive, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Workflow{Status: tt.from, Actions: tt.actions}
			err := w.Transition(tt.target)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
			}
			if w.Status != tt.want {
				t.Errorf("Status = %q, want %q", w.Status, tt.want)
			}
		})
	}
}

func TestParseWorkflowStatus(t *testing.T) {
	if st, err := ParseWorkflowStatus("paused"); err != nil || st != WorkflowPaused {
		t.Fatalf("ParseWorkflowStatus(paused) = %q, %v", st, err)
	}
	if _, err := ParseWorkflowStatus("archived"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestLandingPage_Publish(t *testing.T) {
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &LandingPage{Status: LandingPageDraft}
	p.Publish(first)
	if !p.IsPublished() || p.PublishedAt == nil || !p.PublishedAt.Equal(first) {
		t.Fatalf("unexpected page after publish: %+v", p)
	}
	p.Unpublish()
	p.Publish(first.Add(time.Hour))
	if !p.PublishedAt.Equal(first) {
		t.Errorf("PublishedAt changed on republish: %v", p.PublishedAt)
	}
}

func TestForm_MissingRequired(t *testing.T) {
	f := &Form{Fields: []FormField{
		{Name: "email", Required: true},
		{Name: "name", Required: true},
		{Name: "notes"},
	}}
	got := f.MissingRequired(map[string]any{"email": "a@x.com", "name": ""})
	if len(got) != 1 || got[0] != "name" {
		t.Errorf("MissingRequired() = %v, want [name]", got)
	}
}

func TestOwnable(t *testing.T) {
	owned := []Ownable{&Chatbot{}, &Form{}, &LandingPage{}, &Workflow{}, &CRMContact{}, &CRMInteraction{}, &Subscription{}}
	for _, o := range owned {
		o.SetUserID(42)
		if got := o.GetUserID(); got != 42 {
			t.Errorf("%T GetUserID() = %d, want 42", o, got)
		}
	}
}

func TestUser_IsAdmin(t *testing.T) {
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Error("user role reported as admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role not reported as admin")
	}
}
