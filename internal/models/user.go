package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account. Users are soft-deleted only.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Email       string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name        string         `gorm:"size:255" json:"name"`
	CompanyName string         `gorm:"size:255" json:"companyName"`
	Password    string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role        Role           `gorm:"size:20;not null;default:'user'" json:"role"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
