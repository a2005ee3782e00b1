// Package auth issues and reads the signed session cookie.
//
// A session is an HS256 JWT carrying the user id, email and role. Anything
// that fails to verify (bad signature, expired, malformed) is treated exactly
// like no cookie at all: the request proceeds as Anonymous.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "session"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrInvalidSession = errors.New("auth: invalid session")

// Session is the decoded cookie. The zero value is Anonymous.
type Session struct {
	UserID    uint
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Anonymous is the session of a request without a usable cookie.
var Anonymous = Session{}

func (s Session) Authenticated() bool { return s.UserID != 0 && s.Email != "" }

// IsAdmin reports an authenticated admin. A missing role is not admin.
func (s Session) IsAdmin() bool { return s.Authenticated() && s.Role == RoleAdmin }

type claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, secure bool) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	c := *i
	c.now = now
	return &c
}

// Issue returns a signed token for the user.
func (i *Issuer) Issue(userID uint, email, role string) (string, Session, error) {
	now := i.now()
	s := Session{UserID: userID, Email: email, Role: role, IssuedAt: now.Truncate(time.Second), ExpiresAt: now.Add(i.ttl).Truncate(time.Second)}
	c := claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", Anonymous, err
	}
	return token, s, nil
}

// Parse verifies token and returns its session.
func (i *Issuer) Parse(token string) (Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return Anonymous, errors.Join(ErrInvalidSession, err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.UserID == 0 || c.Email == "" {
		return Anonymous, ErrInvalidSession
	}
	s := Session{UserID: c.UserID, Email: c.Email, Role: c.Role}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

// SetCookie issues a session for the user and writes it as an HttpOnly cookie.
func (i *Issuer) SetCookie(w http.ResponseWriter, userID uint, email, role string) (Session, error) {
	token, s, err := i.Issue(userID, email, role)
	if err != nil {
		return Anonymous, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.ExpiresAt,
	})
	return s, nil
}

// ClearCookie deletes the session cookie.
func (i *Issuer) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, Secure: i.secure, SameSite: http.SameSiteLaxMode})
}

// FromRequest reads the session cookie. It never fails: unusable cookies yield Anonymous.
func (i *Issuer) FromRequest(r *http.Request) Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Anonymous
	}
	s, err := i.Parse(c.Value)
	if err != nil {
		return Anonymous
	}
	return s
}

// Middleware attaches the request's session to its context.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), i.FromRequest(r))))
	})
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by Middleware, or Anonymous.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Anonymous
}
