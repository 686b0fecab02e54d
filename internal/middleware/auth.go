package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/streamhub/backend/internal/auth"
	"github.com/streamhub/backend/internal/logging"
)

type authCtxKey string

const userIDKey authCtxKey = "userID"

// AccessTokenCookie is the cookie carrying the access token for
// cookie-style clients. Bearer-style clients use the Authorization header.
const AccessTokenCookie = "accessToken"

// TokenVerifier is the slice of the token service the guard needs.
type TokenVerifier interface {
	Verify(tokenString string, expectedKind auth.TokenKind) (auth.Claims, error)
}

// UserIDFromContext returns the authenticated user's id, or empty when the
// request did not pass through RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID stores an authenticated user id on the context. Exposed so tests
// can exercise protected handlers directly.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth rejects requests without a valid access token. The token is
// read from the Authorization header first, then the access-token cookie.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
					token = cookie.Value
				}
			}

			if token == "" {
				unauthorized(w, r, "access token is required")
				return
			}

			claims, err := tokens.Verify(token, auth.TokenKindAccess)
			if err != nil {
				message := "invalid access token"
				if errors.Is(err, auth.ErrTokenExpired) {
					message = "access token expired"
				}
				logging.FromContext(r.Context()).Warn("access token rejected", "error", err)
				unauthorized(w, r, message)
				return
			}

			ctx := WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusUnauthorized,
		"message":    message,
		"success":    false,
	}); err != nil {
		logging.FromContext(r.Context()).Error("encode unauthorized response", "error", err)
	}
}
