package models

import "time"

type ContactStatus string

const (
	ContactLead     ContactStatus = "lead"
	ContactProspect ContactStatus = "prospect"
	ContactCustomer ContactStatus = "customer"
	ContactChurned  ContactStatus = "churned"
)

// ContactStatuses lists every status in funnel order.
var ContactStatuses = []ContactStatus{ContactLead, ContactProspect, ContactCustomer, ContactChurned}

type CRMContact struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	UserID       uint             `gorm:"index;not null" json:"userId"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	Email        string           `gorm:"size:255" json:"email"`
	Phone        string           `gorm:"size:50" json:"phone"`
	Company      string           `gorm:"size:255" json:"company"`
	Status       ContactStatus    `gorm:"size:20;not null;default:'lead';index" json:"status"`
	Interactions []CRMInteraction `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"interactions,omitempty"`
}

func (CRMContact) TableName() string { return "crm_contacts" }

func (c *CRMContact) GetUserID() uint   { return c.UserID }
func (c *CRMContact) SetUserID(id uint) { c.UserID = id }

type CRMInteraction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	ContactID  uint      `gorm:"index;not null" json:"contactId"`
	Type       string    `gorm:"size:30;not null" json:"type"`
	Notes      string    `gorm:"type:text" json:"notes"`
	OccurredAt time.Time `gorm:"not null" json:"occurredAt"`
}

func (CRMInteraction) TableName() string { return "crm_interactions" }

func (i *CRMInteraction) GetUserID() uint   { return i.UserID }
func (i *CRMInteraction) SetUserID(id uint) { i.UserID = id }
