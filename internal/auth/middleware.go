package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// OperatorContextKey is the key for storing the Operator in request context
	OperatorContextKey ContextKey = "operator"
)

// Middleware resolves the Authorization header to an operator and injects it
// into the request context. Requests without a valid token proceed without an
// operator; role checks happen in RequireRole.
func Middleware(authService *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			operator, err := authService.Authenticate(r.Context(), authHeader)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					slog.WarnContext(r.Context(), "operator lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), OperatorContextKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperator extracts the operator from a request context.
// Returns nil if the request carried no valid token.
func GetOperator(ctx context.Context) *Operator {
	operator, ok := ctx.Value(OperatorContextKey).(*Operator)
	if !ok {
		return nil
	}
	return operator
}

// RequireRole returns a middleware that rejects requests whose operator
// cannot access the given role's surface. Missing operator yields 401,
// wrong role 403.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := GetOperator(r.Context())
			if operator == nil {
				slog.WarnContext(r.Context(), "authentication required but not provided",
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"authentication required"}`))
				return
			}
			if !operator.CanAccess(role) {
				slog.WarnContext(r.Context(), "operator lacks required role",
					"operator", operator.Name,
					"role", operator.Role,
					"required", role,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","message":"insufficient role"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
