package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	resp "github.com/fentashot/casino/internal/lib/api/response"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID takes the caller identity from the X-User-ID header. Session
// management lives in front of this service; the header is what the
// edge injects after authenticating.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("missing user identity", http.StatusUnauthorized))

			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)

	return userID
}

// Admin gates seed administration endpoints behind a shared token.
func Admin(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" || r.Header.Get("X-Admin-Token") != token {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("admin access required", http.StatusForbidden))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
