package middleware

import (
	"context"
	"net/http"

	"medical-tourism-concierge/internal/domain/entity"
	"medical-tourism-concierge/pkg/response"

	"github.com/google/uuid"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RoleUser)(next)
}

// RequireInterpreter is a convenience middleware for interpreter-only endpoints
func RequireInterpreter(next http.Handler) http.Handler {
	return RequireRole(entity.RoleInterpreter)(next)
}

// InterpreterResolver finds the interpreter profile of a user. It returns
// nil when the user has none.
type InterpreterResolver interface {
	ResolveInterpreter(ctx context.Context, userID uuid.UUID) (*entity.Interpreter, error)
}

// RequireActiveInterpreter admits interpreters whose profile is active and
// puts the profile ID in the request context.
func RequireActiveInterpreter(resolver InterpreterResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "User not authenticated")
				return
			}

			interpreter, err := resolver.ResolveInterpreter(r.Context(), userID)
			if err != nil {
				response.InternalServerError(w, "Failed to load interpreter profile")
				return
			}
			if interpreter == nil {
				response.Forbidden(w, "Interpreter profile not found")
				return
			}
			if !interpreter.IsActive() {
				response.Forbidden(w, "Interpreter profile is not active")
				return
			}

			ctx := context.WithValue(r.Context(), InterpreterIDKey, interpreter.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
