package middleware

import (
	"context"
	"github.com/rookgm/tiffin/internal/service"
	"net/http"
	"strings"
)

type contextKey int

const (
	contextKeyIdentity contextKey = iota
)

// authCookieName is cookie carrying operator token
const authCookieName = "auth_token"

// Auth verifies operator token from Authorization header or cookie and puts
// its subject to the request context. Requests without token pass through
// anonymously, an invalid token is rejected.
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ts.VerifyToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), payload.Subject)))
		})
	}
}

// WithIdentity returns context carrying operator identity
func WithIdentity(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, subject)
}

// IdentityFromContext extracts operator identity from context
func IdentityFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(contextKeyIdentity).(string)
	return subject, ok && subject != ""
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
