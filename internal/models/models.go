// Package models holds the gorm models persisted by the application.
package models

// Ownable is implemented by every resource that belongs to a user.
// Owner assignment always comes from the session, never from the request body.
type Ownable interface {
	GetUserID() uint
	SetUserID(id uint)
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Lead{},
		&ContactMessage{},
		&Subscription{},
		&Chatbot{},
		&Conversation{},
		&Form{},
		&FormField{},
		&FormSubmission{},
		&LandingPage{},
		&Workflow{},
		&WorkflowAction{},
		&CRMContact{},
		&CRMInteraction{},
	}
}
