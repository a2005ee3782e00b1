package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-growth/httpx"
	database "github.com/diewo77/go-growth/internal/db"
	"gorm.io/gorm"
)

// Healthz pings the database.
func Healthz(db *gorm.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
