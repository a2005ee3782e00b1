package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, false)
	token, s, err := iss.Issue(7, "ana@x.com", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())

	got, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "ana@x.com", got.Email)
	assert.Equal(t, RoleAdmin, got.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt, 2*time.Second)
}

func TestParse_RejectsWrongSecretAndExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, false)
	token, _, err := iss.Issue(1, "a@x.com", RoleUser)
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour, false).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	later := iss.WithClock(fixedClock(time.Now().Add(2 * time.Hour)))
	_, err = later.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	c := claims{UserID: 1, Email: "a@x.com", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour, false).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMissingRoleIsNotAdmin(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, false)
	token, _, err := iss.Issue(3, "b@x.com", "")
	require.NoError(t, err)
	s, err := iss.Parse(token)
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
	assert.False(t, Anonymous.Authenticated())
}

func TestCookieRoundTripThroughMiddleware(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, true)
	rr := httptest.NewRecorder()
	_, err := iss.SetCookie(rr, 5, "c@x.com", RoleUser)
	require.NoError(t, err)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	var seen Session
	h := iss.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, uint(5), seen.UserID)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, Anonymous, seen)
}

func TestClearCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	NewIssuer("s", time.Hour, false).ClearCookie(rr)
	c := rr.Result().Cookies()
	require.Len(t, c, 1)
	assert.Equal(t, "", c[0].Value)
	assert.True(t, c[0].MaxAge < 0)
}
