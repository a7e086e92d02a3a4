package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OperatorContextKey is the context key for the authenticated operator
	OperatorContextKey ContextKey = "operator"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the operator in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSONError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), OperatorContextKey, claims.Operator())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects operators whose role does not grant minRole.
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op, ok := GetOperatorFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !op.Role.Allows(minRole) {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetOperatorFromContext extracts the authenticated operator from context
func GetOperatorFromContext(ctx context.Context) (*domain.Operator, bool) {
	op, ok := ctx.Value(OperatorContextKey).(*domain.Operator)
	return op, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
