// Package middleware holds the HTTP middleware chain wrapped around the router.
package middleware

import (
	"net/http"

	"github.com/diewo77/go-growth/i18n"
)

const langCookie = "lang"

// Prefs resolves the language preference (query > cookie > Accept-Language)
// and stores it in the context. A query-provided language is persisted in a
// cookie for 30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(langCookie); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if ql := r.URL.Query().Get("lang"); ql != "" && i18n.Supported(i18n.Normalize(ql)) {
			lang = i18n.Normalize(ql)
			http.SetCookie(w, &http.Cookie{Name: langCookie, Value: lang, Path: "/", MaxAge: 86400 * 30, SameSite: http.SameSiteLaxMode})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
