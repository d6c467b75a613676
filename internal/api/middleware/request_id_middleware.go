package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mikrobrand/mikro1/internal/constants"
)

// RequestIdMiddleware 每個request配一個id，回應header也帶上
func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), constants.RequestIDKey, requestID)
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
