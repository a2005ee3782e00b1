package models

import "time"

type Form struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	UserID      uint             `gorm:"index;not null" json:"userId"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Fields      []FormField      `gorm:"constraint:OnDelete:CASCADE" json:"fields"`
	Submissions []FormSubmission `gorm:"constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
}

func (f *Form) GetUserID() uint   { return f.UserID }
func (f *Form) SetUserID(id uint) { f.UserID = id }

// MissingRequired returns the names of required fields absent from data.
func (f *Form) MissingRequired(data map[string]any) []string {
	var missing []string
	for _, fld := range f.Fields {
		if !fld.Required {
			continue
		}
		v, ok := data[fld.Name]
		if !ok || v == nil || v == "" {
			missing = append(missing, fld.Name)
		}
	}
	return missing
}

type FormField struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FormID   uint   `gorm:"index;not null" json:"formId"`
	Label    string `gorm:"size:255;not null" json:"label"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Type     string `gorm:"size:30;not null;default:'text'" json:"type"`
	Required bool   `gorm:"not null;default:false" json:"required"`
	Order    int    `gorm:"column:order;not null;default:0" json:"order"`
}

type FormSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	FormID    uint      `gorm:"index;not null" json:"formId"`
	Data      string    `gorm:"type:text;not null" json:"data"` // JSON object
}
