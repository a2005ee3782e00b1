package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	base
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{base: base{db: db}}
}

type profileInput struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	CompanyName     *string `json:"companyName" validate:"omitempty,max=255"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"max=72"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
	return nil
}

// Update changes name and company. A new password needs the current one.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in profileInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.CompanyName != nil {
		updates["company_name"] = strings.TrimSpace(*in.CompanyName)
	}
	if in.NewPassword != "" {
		v := validation.Violations{}
		validation.Required("currentPassword", in.CurrentPassword, v)
		if !v.Empty() {
			return httpx.Invalid("current_password_needed", v)
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
			return httpx.BadRequest("current_password_wrong")
		}
		validation.MinLen("newPassword", in.NewPassword, 8, "password_too_short", v)
		if !v.Empty() {
			return httpx.Invalid("password_too_short", v)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return httpx.Internal(err)
		}
		updates["password"] = string(hash)
	}
	if len(updates) > 0 {
		if err := h.db.WithContext(r.Context()).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return httpx.Internal(err)
		}
	}
	var fresh models.User
	if err := h.db.WithContext(r.Context()).First(&fresh, user.ID).Error; err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": fresh})
	return nil
}
