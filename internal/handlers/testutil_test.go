package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/billing"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	issuer *auth.Issuer
	mux    *http.ServeMux
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newTestEnv mounts the API on a mux the same way the server does.
func newTestEnv(t *testing.T, provider billing.Provider) *testEnv {
	t.Helper()
	db := setupDB(t)
	issuer := auth.NewIssuer("test-secret", time.Hour, false)
	mux := http.NewServeMux()

	ah := NewAuthHandler(db, issuer)
	mux.Handle("POST /api/auth/signup", httpx.Handle(ah.Signup))
	mux.Handle("POST /api/auth/login", httpx.Handle(ah.Login))
	mux.Handle("POST /api/auth/logout", httpx.Handle(ah.Logout))
	mux.Handle("GET /api/auth/session", httpx.Handle(ah.Session))

	ph := NewProfileHandler(db)
	mux.Handle("GET /api/profile", httpx.Handle(ph.Get))
	mux.Handle("PUT /api/profile", httpx.Handle(ph.Update))

	pub := NewPublicHandler(db)
	mux.Handle("POST /api/leads", httpx.Handle(pub.CreateLead))
	mux.Handle("POST /api/contact", httpx.Handle(pub.CreateContact))

	ch := NewChatbotHandler(db)
	mux.Handle("GET /api/chatbots", httpx.Handle(ch.List))
	mux.Handle("POST /api/chatbots", httpx.Handle(ch.Create))
	mux.Handle("GET /api/chatbots/{id}", httpx.Handle(ch.Get))
	mux.Handle("DELETE /api/chatbots/{id}", httpx.Handle(ch.Delete))
	mux.Handle("GET /api/chatbots/{id}/conversations", httpx.Handle(ch.Conversations))

	fh := NewFormHandler(db, services.NewFormService(db))
	mux.Handle("POST /api/forms", httpx.Handle(fh.Create))
	mux.Handle("POST /api/forms/{id}/submit", httpx.Handle(fh.Submit))
	mux.Handle("GET /api/forms/{id}/submissions", httpx.Handle(fh.Submissions))

	lh := NewLandingPageHandler(db, services.NewLandingPageService(db))
	mux.Handle("POST /api/landing-pages", httpx.Handle(lh.Create))
	mux.Handle("POST /api/landing-pages/{id}/publish", httpx.Handle(lh.Publish))
	mux.Handle("GET /api/landing-pages/slug/{slug}", httpx.Handle(lh.BySlug))

	wh := NewWorkflowHandler(db, services.NewWorkflowService(db))
	mux.Handle("POST /api/workflows", httpx.Handle(wh.Create))
	mux.Handle("GET /api/workflows/{id}", httpx.Handle(wh.Get))
	mux.Handle("POST /api/workflows/{id}/actions", httpx.Handle(wh.AddAction))
	mux.Handle("POST /api/workflows/{id}/activate", httpx.Handle(wh.Activate))
	mux.Handle("POST /api/workflows/{id}/pause", httpx.Handle(wh.Pause))

	crm := NewCRMHandler(db, services.NewCRMService(db))
	mux.Handle("POST /api/crm/contacts", httpx.Handle(crm.CreateContact))
	mux.Handle("POST /api/crm/contacts/{id}/interactions", httpx.Handle(crm.AddInteraction))
	mux.Handle("GET /api/crm/stats", httpx.Handle(crm.Stats))

	mux.Handle("GET /api/admin/data", httpx.Handle(NewAdminHandler(db).Data))

	if provider != nil {
		prices := billing.NewPriceTable(map[string]string{"pro:pt": "price_pro_pt", "pro:en": "price_pro_en"})
		bh := NewBillingHandler(db, billing.NewService(db, prices, provider, "http://app.test"))
		mux.Handle("POST /api/billing/checkout", httpx.Handle(bh.Checkout))
	}
	mux.Handle("GET /healthz", Healthz(db))

	return &testEnv{db: db, issuer: issuer, mux: mux}
}

// createUser stores a user with password "secret123" and returns its session cookie.
func (e *testEnv) createUser(t *testing.T, email string) (*models.User, *http.Cookie) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: string(hash), Role: models.RoleUser}
	require.NoError(t, e.db.Create(user).Error)
	token, _, err := e.issuer.Issue(user.ID, user.Email, string(user.Role))
	require.NoError(t, err)
	return user, &http.Cookie{Name: auth.CookieName, Value: token}
}

func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.issuer.Middleware(e.mux).ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// idOf extracts body[key].id as a path segment.
func idOf(t *testing.T, rec *httptest.ResponseRecorder, key string) string {
	t.Helper()
	obj, ok := decodeBody(t, rec)[key].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return fmt.Sprintf("%.0f", obj["id"].(float64))
}
