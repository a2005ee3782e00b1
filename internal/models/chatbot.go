package models

import "time"

type Chatbot struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	UserID         uint           `gorm:"index;not null" json:"userId"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	WelcomeMessage string         `gorm:"type:text" json:"welcomeMessage"`
	Conversations  []Conversation `gorm:"constraint:OnDelete:CASCADE" json:"conversations,omitempty"`
}

func (c *Chatbot) GetUserID() uint   { return c.UserID }
func (c *Chatbot) SetUserID(id uint) { c.UserID = id }

// Conversation is reachable only through its chatbot.
type Conversation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	ChatbotID    uint      `gorm:"index;not null" json:"chatbotId"`
	VisitorName  string    `gorm:"size:255" json:"visitorName"`
	VisitorEmail string    `gorm:"size:255" json:"visitorEmail"`
	Messages     string    `gorm:"type:text" json:"messages"` // JSON transcript
}
