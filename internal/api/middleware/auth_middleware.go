package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mikrobrand/mikro1/internal/constants"
	"github.com/mikrobrand/mikro1/internal/domain/apperr"
	"github.com/mikrobrand/mikro1/internal/service"
)

// SessionMiddleware 解析Bearer token並把SessionPayload塞進request context
// 沒帶token或token無效時不擋，由AuthMiddleware決定該route是否需要身份
func SessionMiddleware(userService service.IUserService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := userService.VerifySession(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), constants.SessionPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthMiddleware 必須有已驗證的session才放行
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessionPayload(r) == nil {
			writeAuthError(w, http.StatusUnauthorized, apperr.KindUnauthenticated, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole 角色限制，掛在AuthMiddleware之後
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := GetSessionPayload(r)
			if payload == nil {
				writeAuthError(w, http.StatusUnauthorized, apperr.KindUnauthenticated, "authentication required")
				return
			}
			if payload.Role != role {
				writeAuthError(w, http.StatusForbidden, apperr.KindForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetSessionPayload(r *http.Request) *service.SessionPayload {
	if v := r.Context().Value(constants.SessionPayloadKey); v != nil {
		if payload, ok := v.(*service.SessionPayload); ok {
			return payload
		}
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, status int, kind apperr.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": string(kind) + ": " + message,
		"code":  string(kind),
	})
}
