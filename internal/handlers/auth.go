package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/i18n"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/view"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	base
	issuer *auth.Issuer
}

func NewAuthHandler(db *gorm.DB, issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{base: base{db: db}, issuer: issuer}
}

type signupInput struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Name        string `json:"name" validate:"max=255"`
	CompanyName string `json:"companyName" validate:"max=255"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup creates an account. Duplicate emails are rejected without a second row.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	var in signupInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := h.db.WithContext(r.Context()).Unscoped().Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return httpx.Internal(err)
	}
	if count > 0 {
		return httpx.BadRequest("email_taken")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return httpx.Internal(err)
	}
	user := models.User{
		Email:       in.Email,
		Password:    string(hash),
		Name:        strings.TrimSpace(in.Name),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Role:        models.RoleUser,
	}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httpx.BadRequest("email_taken")
		}
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"user": user})
	return nil
}

func (h *AuthHandler) authenticate(r *http.Request, email, password string) (*models.User, error) {
	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &httpx.Error{Kind: httpx.KindUnauthenticated, Code: "invalid_credentials"}
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, &httpx.Error{Kind: httpx.KindUnauthenticated, Code: "invalid_credentials"}
	}
	return &user, nil
}

// Login accepts JSON or an HTML form. Forms are redirected to the dashboard
// on success and re-rendered with the error otherwise.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	if httpx.IsForm(r) {
		return h.loginForm(w, r)
	}
	var in loginInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	user, err := h.authenticate(r, in.Email, in.Password)
	if err != nil {
		return err
	}
	if _, err := h.issuer.SetCookie(w, user.ID, user.Email, string(user.Role)); err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
	return nil
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) error {
	user, err := h.authenticate(r, r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		e, ok := httpx.AsError(err)
		if !ok || e.Kind != httpx.KindUnauthenticated {
			return err
		}
		return view.Render(w, r, http.StatusUnauthorized, "login.html", map[string]any{
			"Error": i18n.T(i18n.LangFrom(r.Context()), e.Code),
		})
	}
	if _, err := h.issuer.SetCookie(w, user.ID, user.Email, string(user.Role)); err != nil {
		return httpx.Internal(err)
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	return nil
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	h.issuer.ClearCookie(w)
	if httpx.IsForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

type sessionJSON struct {
	UserID    uint   `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Session reports the current session claims.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) error {
	s := auth.FromContext(r.Context())
	if !s.Authenticated() {
		return httpx.Unauthorized()
	}
	role := s.Role
	if role == "" {
		role = auth.RoleUser
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"session": sessionJSON{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      role,
		ExpiresAt: s.ExpiresAt.Unix(),
	}})
	return nil
}
