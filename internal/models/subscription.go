package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription records a checkout started by a user. Provider webhooks are
// not processed, so rows stay pending until changed by an operator.
type Subscription struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	UserID            uint               `gorm:"index;not null" json:"userId"`
	Plan              string             `gorm:"size:50;not null" json:"plan"`
	Locale            string             `gorm:"size:5;not null" json:"locale"`
	PriceID           string             `gorm:"size:100;not null" json:"priceId"`
	CheckoutSessionID string             `gorm:"size:255;index" json:"checkoutSessionId"`
	Status            SubscriptionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
}

func (s *Subscription) GetUserID() uint   { return s.UserID }
func (s *Subscription) SetUserID(id uint) { s.UserID = id }
