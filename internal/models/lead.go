package models

import "time"

// DefaultLanguage is stored when a public submission does not name one.
const DefaultLanguage = "pt"

// Lead is a public interest signup. It has no owner.
type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Company   *string   `gorm:"size:255" json:"company"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Interest  *string   `gorm:"size:255" json:"interest"`
	Language  string    `gorm:"size:5;not null;default:'pt'" json:"language"`
	Source    string    `gorm:"size:50;not null;default:'website'" json:"source"`
}

// ContactMessage is a public contact form message. It has no owner.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Company   *string   `gorm:"size:255" json:"company"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Language  string    `gorm:"size:5;not null;default:'pt'" json:"language"`
}
