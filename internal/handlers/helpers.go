// Package handlers implements the JSON API and the page shells.
//
// Every API handler returns an error and is mounted through httpx.Handle.
// Handlers behind a session re-read the user by the session email on each
// request; nothing about the user is cached between requests.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/diewo77/go-growth/validation"
	"gorm.io/gorm"
)

type base struct {
	db *gorm.DB
}

// currentUser resolves the session to a stored user.
func (b base) currentUser(r *http.Request) (*models.User, error) {
	s := auth.FromContext(r.Context())
	if !s.Authenticated() {
		return nil, httpx.Unauthorized()
	}
	var user models.User
	err := b.db.WithContext(r.Context()).Where("email = ?", s.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httpx.NotFound("user_not_found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return &user, nil
}

// pathID parses the {id} style path value. Anything that is not a positive
// integer cannot name a resource and is reported as not found.
func pathID(r *http.Request, name, notFoundCode string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, httpx.NotFound(notFoundCode)
	}
	return uint(id), nil
}

// notFoundAs maps policy.ErrNotFound to a 404 with code; other errors pass through.
func notFoundAs(err error, code string) error {
	if errors.Is(err, policy.ErrNotFound) {
		return &httpx.Error{Kind: httpx.KindNotFound, Code: code, Err: err}
	}
	return err
}

// decode reads a JSON body and validates it.
func decode(r *http.Request, dst any, code string) error {
	if err := httpx.Decode(r, dst); err != nil {
		return err
	}
	if v := validation.Struct(dst); v != nil {
		return httpx.Invalid(code, v)
	}
	return nil
}
