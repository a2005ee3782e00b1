package middleware

import (
	"net/http"
	"time"

	"github.com/diewo77/go-growth/httpx"
	"github.com/go-chi/httprate"
)

// RateLimit caps anonymous writes per client IP. The key is the connection
// address; forwarding headers are client controlled and ignored. Rejections
// use the API error format.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, r, &httpx.Error{Kind: httpx.KindRateLimited, Code: "rate_limited"})
		}),
	)
}
