package handlers

import (
	"net/http"

	"github.com/diewo77/go-growth/view"
	"github.com/rs/zerolog"
)

// Section is a dashboard area rendered as a shell around its API.
type Section struct {
	Path      string
	TitleCode string
	API       string
}

// Sections lists the gated dashboard areas.
var Sections = []Section{
	{Path: "/dashboard", TitleCode: "nav_dashboard", API: "/api/profile"},
	{Path: "/profile", TitleCode: "nav_profile", API: "/api/profile"},
	{Path: "/crm", TitleCode: "nav_crm", API: "/api/crm/contacts"},
	{Path: "/forms", TitleCode: "nav_forms", API: "/api/forms"},
	{Path: "/analytics", TitleCode: "nav_analytics", API: "/api/crm/stats"},
	{Path: "/workflows", TitleCode: "nav_workflows", API: "/api/workflows"},
	{Path: "/landing-pages", TitleCode: "nav_landing_pages", API: "/api/landing-pages"},
	{Path: "/admin", TitleCode: "nav_admin", API: "/api/admin/data"},
}

// Page renders a template; render failures become a plain 500.
func Page(name string, data func(r *http.Request) map[string]any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d map[string]any
		if data != nil {
			d = data(r)
		}
		if err := view.Render(w, r, http.StatusOK, name, d); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

// SectionPage renders the shell of a dashboard section.
func SectionPage(s Section) http.Handler {
	return Page("section.html", func(*http.Request) map[string]any {
		return map[string]any{"TitleCode": s.TitleCode, "Section": s.Path[1:], "API": s.API}
	})
}
