package main

import (
	"net/http"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/gate"
	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/billing"
	"github.com/diewo77/go-growth/internal/config"
	"github.com/diewo77/go-growth/internal/handlers"
	"github.com/diewo77/go-growth/internal/middleware"
	"github.com/diewo77/go-growth/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the collaborators the application is built from.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Issuer   *auth.Issuer
	Provider billing.Provider
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	metrics *middleware.Metrics
	limit   func(http.Handler) http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(d Deps) *App {
	a := &App{
		mux:     http.NewServeMux(),
		metrics: middleware.NewMetrics(d.Registry),
		limit:   middleware.RateLimit(d.Config.RateLimit.PerMinute),
	}
	a.setupRoutes(d)

	g := gate.New(d.Registry, gate.DefaultRules()...)
	var h http.Handler = a.mux
	h = g.Middleware(h)
	h = d.Issuer.Middleware(h)
	h = middleware.Prefs(h)
	h = middleware.Logging(d.Logger)(h)
	a.handler = middleware.Recover(h)
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// api mounts an error-returning handler, labeled by its pattern.
func (a *App) api(pattern string, fn httpx.HandlerFunc) {
	a.mux.Handle(pattern, a.metrics.Instrument(pattern, httpx.Handle(fn)))
}

// public mounts an anonymous write endpoint behind the rate limiter.
func (a *App) public(pattern string, fn httpx.HandlerFunc) {
	a.mux.Handle(pattern, a.metrics.Instrument(pattern, a.limit(httpx.Handle(fn))))
}

func (a *App) page(pattern string, h http.Handler) {
	a.mux.Handle(pattern, a.metrics.Instrument(pattern, h))
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(d Deps) {
	db := d.DB

	// Auth and account
	ah := handlers.NewAuthHandler(db, d.Issuer)
	a.public("POST /api/auth/signup", ah.Signup)
	a.public("POST /api/auth/login", ah.Login)
	a.api("POST /api/auth/logout", ah.Logout)
	a.api("GET /api/auth/session", ah.Session)

	ph := handlers.NewProfileHandler(db)
	a.api("GET /api/profile", ph.Get)
	a.api("PUT /api/profile", ph.Update)

	// Public marketing endpoints
	pub := handlers.NewPublicHandler(db)
	a.public("POST /api/leads", pub.CreateLead)
	a.public("POST /api/contact", pub.CreateContact)

	// Chatbots
	ch := handlers.NewChatbotHandler(db)
	a.api("GET /api/chatbots", ch.List)
	a.api("POST /api/chatbots", ch.Create)
	a.api("GET /api/chatbots/{id}", ch.Get)
	a.api("DELETE /api/chatbots/{id}", ch.Delete)
	a.api("GET /api/chatbots/{id}/conversations", ch.Conversations)

	// Forms
	fh := handlers.NewFormHandler(db, services.NewFormService(db))
	a.api("GET /api/forms", fh.List)
	a.api("POST /api/forms", fh.Create)
	a.api("GET /api/forms/{id}", fh.Get)
	a.api("DELETE /api/forms/{id}", fh.Delete)
	a.api("GET /api/forms/{id}/submissions", fh.Submissions)
	a.public("POST /api/forms/{id}/submit", fh.Submit)

	// Landing pages
	lh := handlers.NewLandingPageHandler(db, services.NewLandingPageService(db))
	a.api("GET /api/landing-pages", lh.List)
	a.api("POST /api/landing-pages", lh.Create)
	a.api("GET /api/landing-pages/{id}", lh.Get)
	a.api("DELETE /api/landing-pages/{id}", lh.Delete)
	a.api("POST /api/landing-pages/{id}/publish", lh.Publish)
	a.api("GET /api/landing-pages/slug/{slug}", lh.BySlug)

	// Workflows
	wh := handlers.NewWorkflowHandler(db, services.NewWorkflowService(db))
	a.api("GET /api/workflows", wh.List)
	a.api("POST /api/workflows", wh.Create)
	a.api("GET /api/workflows/{id}", wh.Get)
	a.api("DELETE /api/workflows/{id}", wh.Delete)
	a.api("POST /api/workflows/{id}/actions", wh.AddAction)
	a.api("POST /api/workflows/{id}/activate", wh.Activate)
	a.api("POST /api/workflows/{id}/pause", wh.Pause)

	// CRM
	crm := handlers.NewCRMHandler(db, services.NewCRMService(db))
	a.api("GET /api/crm/contacts", crm.ListContacts)
	a.api("POST /api/crm/contacts", crm.CreateContact)
	a.api("GET /api/crm/contacts/{id}", crm.GetContact)
	a.api("DELETE /api/crm/contacts/{id}", crm.DeleteContact)
	a.api("GET /api/crm/contacts/{id}/interactions", crm.ListInteractions)
	a.api("POST /api/crm/contacts/{id}/interactions", crm.AddInteraction)
	a.api("GET /api/crm/stats", crm.Stats)

	// Admin and billing
	a.api("GET /api/admin/data", handlers.NewAdminHandler(db).Data)

	prices := billing.NewPriceTable(d.Config.Billing.Prices)
	svc := billing.NewService(db, prices, d.Provider, d.Config.App.BaseURL)
	a.api("POST /api/billing/checkout", handlers.NewBillingHandler(db, svc).Checkout)

	// Pages
	a.page("GET /{$}", handlers.Page("home.html", nil))
	a.page("GET /auth/login", handlers.Page("login.html", nil))
	a.page("GET /auth/signup", handlers.Page("signup.html", nil))
	for _, s := range handlers.Sections {
		a.page("GET "+s.Path, handlers.SectionPage(s))
	}

	// Operations
	a.mux.Handle("GET /healthz", handlers.Healthz(db))
	a.mux.Handle("GET /metrics", middleware.Handler(d.Registry))
}
