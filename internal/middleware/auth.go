package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/coursebase/coursebase-api/internal/pkg/jwt"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
)

const (
	subjectIDKey   ctxKey = "subject_id"
	roleKey        ctxKey = "role"
	pwdChangeKey   ctxKey = "pwd_change"
)

// Auth returns middleware that validates the bearer token and stores its
// claims in the request context.
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), subjectIDKey, claims.SubjectID)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			ctx = context.WithValue(ctx, pwdChangeKey, claims.MustChangePassword)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubjectID extracts the authenticated subject ID from context.
func GetSubjectID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(subjectIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts the authenticated role from context.
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

// MustChangePassword reports whether the token was issued while the
// sponsor's forced password change was pending.
func MustChangePassword(ctx context.Context) bool {
	if v, ok := ctx.Value(pwdChangeKey).(bool); ok {
		return v
	}
	return false
}

// RequireRole returns middleware that checks the authenticated role.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireAdmin requires the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin)
}

// RequireSponsor requires the sponsor role.
func RequireSponsor() func(http.Handler) http.Handler {
	return RequireRole(jwt.RoleSponsor)
}

// RequirePasswordChanged blocks sponsor routes while a forced password
// change is pending. Mount it on every sponsor route except
// change-password and logout.
func RequirePasswordChanged() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRole(r.Context()) == jwt.RoleSponsor && MustChangePassword(r.Context()) {
				response.Error(w, http.StatusForbidden, "PASSWORD_CHANGE_REQUIRED", "You must change your password before continuing")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
