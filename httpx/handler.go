package httpx

import (
	"fmt"
	"net/http"

	"github.com/diewo77/go-growth/i18n"
	"github.com/diewo77/go-growth/validation"
	"github.com/rs/zerolog"
)

// HandlerFunc is an http handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn into an http.Handler. It is the only place API errors
// become responses: known errors are translated to the request language,
// anything else is logged and answered with a generic 500.
func Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				WriteError(w, r, Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()
		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	})
}

// WriteError renders err as {"error": message}.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFrom(r.Context())
	if v, ok := err.(validation.Violations); ok {
		err = Invalid("validation_failed", v)
	}
	e, ok := AsError(err)
	if !ok {
		e = Internal(err)
	}
	log := zerolog.Ctx(r.Context())
	if e.Kind == KindInternal || e.Kind == KindUpstream {
		log.Error().Err(e.Err).Str("path", r.URL.Path).Str("code", e.Code).Msg("request failed")
	} else {
		log.Debug().Str("path", r.URL.Path).Str("code", e.Code).Int("status", e.Kind.Status()).Msg("request rejected")
	}
	var details any
	if v, ok := e.Details.(validation.Violations); ok {
		translated := make(map[string]string, len(v))
		for f, c := range v {
			translated[f] = i18n.T(lang, c)
		}
		details = translated
	} else if e.Details != nil {
		details = e.Details
	}
	JSONError(w, e.Kind.Status(), i18n.T(lang, e.Code), details)
}
