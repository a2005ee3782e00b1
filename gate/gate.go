// Package gate decides, per request path, whether a page may be served to
// the current session or the browser must be redirected.
//
// Rules are evaluated in order and the first matching rule wins. A path
// matches a prefix when it equals it or continues with "/" ("/admin" and
// "/admin/users" match "/admin"; "/administrator" does not).
package gate

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-growth/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

// Decision is the outcome of evaluating the rules for one request.
type Decision struct {
	Rule     string // name of the matching rule, "allow" when none matched
	Redirect string // empty when the request may proceed
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Rule redirects sessions rejected by Deny when the path matches one of Prefixes.
type Rule struct {
	Name     string
	Prefixes []string
	Deny     func(s auth.Session) bool
	Redirect string
}

func (r Rule) matches(path string) bool {
	for _, p := range r.Prefixes {
		if MatchPrefix(path, p) {
			return true
		}
	}
	return false
}

// ProtectedPrefixes are the areas requiring any valid session.
var ProtectedPrefixes = []string{"/dashboard", "/profile", "/crm", "/forms", "/analytics", "/workflows", "/landing-pages"}

// DefaultRules is the application's decision table.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "auth_redirect",
			Prefixes: []string{"/auth"},
			Deny:     func(s auth.Session) bool { return s.Authenticated() },
			Redirect: DashboardPath,
		},
		{
			Name:     "admin_required",
			Prefixes: []string{"/admin"},
			Deny:     func(s auth.Session) bool { return !s.IsAdmin() },
			Redirect: LoginPath,
		},
		{
			Name:     "login_required",
			Prefixes: ProtectedPrefixes,
			Deny:     func(s auth.Session) bool { return !s.Authenticated() },
			Redirect: LoginPath,
		},
	}
}

// MatchPrefix reports whether path is prefix or lies below it.
func MatchPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Gate evaluates an ordered rule list.
type Gate struct {
	rules     []Rule
	decisions *prometheus.CounterVec
}

// New builds a gate over rules and registers its decision counter on reg.
// A nil reg disables metrics registration.
func New(reg prometheus.Registerer, rules ...Rule) *Gate {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	g := &Gate{
		rules: rules,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Authorization gate decisions by rule.",
		}, []string{"decision"}),
	}
	if reg != nil {
		reg.MustRegister(g.decisions)
	}
	return g
}

// Decide returns the decision for path under session s.
func (g *Gate) Decide(path string, s auth.Session) Decision {
	for _, r := range g.rules {
		if r.matches(path) && r.Deny(s) {
			return Decision{Rule: r.Name, Redirect: r.Redirect}
		}
	}
	return Decision{Rule: "allow"}
}

// Middleware applies Decide to every request using the session placed in
// the context by auth.Issuer.Middleware. Redirects use 307.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := auth.FromContext(r.Context())
		d := g.Decide(r.URL.Path, s)
		g.decisions.WithLabelValues(d.Rule).Inc()
		zerolog.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Uint("user_id", s.UserID).
			Str("decision", d.Rule).
			Msg("gate")
		if !d.Allowed() {
			http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
