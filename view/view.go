// Package view renders the server-side page shells from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/go-growth/auth"
	"github.com/diewo77/go-growth/i18n"
)

//go:embed templates
var files embed.FS

var cache sync.Map // page name -> *template.Template

// Funcs returns the template funcs for the request's language and session.
// Templates are parsed once; these placeholders are replaced per request.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.Default
	session := auth.Anonymous
	if r != nil {
		lang = i18n.LangFrom(r.Context())
		session = auth.FromContext(r.Context())
	}
	return template.FuncMap{
		"t":          func(code string) string { return i18n.T(lang, code) },
		"lang":       func() string { return lang },
		"isLoggedIn": func() bool { return session.Authenticated() },
		"isAdmin":    func() bool { return session.IsAdmin() },
		"year":       func() int { return time.Now().Year() },
		// dict creates a map from key-value pairs for passing to sub-templates.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func load(name string) (*template.Template, error) {
	if t, ok := cache.Load(name); ok {
		return t.(*template.Template), nil
	}
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(files,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+name,
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	actual, _ := cache.LoadOrStore(name, t)
	return actual.(*template.Template), nil
}

// Render executes page name inside the layout. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := load(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := t.Funcs(Funcs(r)).Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
