package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-growth/i18n"
	"github.com/diewo77/go-growth/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, lang string, fn HandlerFunc) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if lang != "" {
		req = req.WithContext(i18n.WithLang(req.Context(), lang))
	}
	rr := httptest.NewRecorder()
	Handle(fn).ServeHTTP(rr, req)
	var body ErrorResponse
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestHandle_Success(t *testing.T) {
	rr, _ := serve(t, "", func(w http.ResponseWriter, r *http.Request) error {
		JSON(w, http.StatusCreated, map[string]string{"ok": "yes"})
		return nil
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestHandle_KnownErrorsAreTranslated(t *testing.T) {
	rr, body := serve(t, "en", func(w http.ResponseWriter, r *http.Request) error {
		return NotFound("user_not_found")
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", body.Error)

	rr, body = serve(t, "", func(w http.ResponseWriter, r *http.Request) error {
		return Unauthorized()
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Não autorizado", body.Error)
}

func TestHandle_WrappedError(t *testing.T) {
	rr, body := serve(t, "en", func(w http.ResponseWriter, r *http.Request) error {
		return errors.Join(errors.New("ctx"), BadRequest("workflow_no_actions"))
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Workflow must have at least one action", body.Error)
}

func TestHandle_Violations(t *testing.T) {
	rr, body := serve(t, "en", func(w http.ResponseWriter, r *http.Request) error {
		return validation.Violations{"email": "required"}
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing or invalid required fields", body.Error)
	assert.Equal(t, map[string]any{"email": "Required"}, body.Details)
}

func TestHandle_UnknownErrorIsGeneric(t *testing.T) {
	rr, body := serve(t, "en", func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("pq: connection refused")
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestHandle_Panic(t *testing.T) {
	rr, body := serve(t, "en", func(w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal server error", body.Error)
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, KindUpstream.Status())
	assert.Equal(t, http.StatusTooManyRequests, KindRateLimited.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}
