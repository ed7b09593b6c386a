package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"railgriev/models"
	"railgriev/utils"
)

type contextKey string

// RequestContextKey stores the models.RequestContext in the request context
const RequestContextKey contextKey = "request_context"

// AuthMiddleware validates session tokens and builds the RequestContext
type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireCustomer admits only customer-scoped tokens. Staff tokens are
// rejected even though they verify against the same secret.
func (m *AuthMiddleware) RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required. Expected: Bearer <token>")
			return
		}

		claims, err := utils.ValidateToken(tokenString, m.jwtSecret, utils.AudienceCustomer)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token. Please log in again.")
			return
		}
		if claims.CustomerID == 0 {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token claims.")
			return
		}

		rctx := models.RequestContext{
			CustomerID: claims.CustomerID,
			IPAddress:  r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		}
		ctx := context.WithValue(r.Context(), RequestContextKey, rctx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff admits only staff-scoped tokens, optionally restricted to the
// given roles. With no roles listed, any staff role passes.
func (m *AuthMiddleware) RequireStaff(roles ...models.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required. Expected: Bearer <token>")
				return
			}

			claims, err := utils.ValidateToken(tokenString, m.jwtSecret, utils.AudienceStaff)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token. Please log in again.")
				return
			}
			if claims.Login == "" {
				respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token claims.")
				return
			}

			role := models.StaffRole(claims.Role)
			if len(roles) > 0 {
				allowed := false
				for _, want := range roles {
					if role == want {
						allowed = true
						break
					}
				}
				if !allowed {
					respondWithError(w, http.StatusForbidden, "Forbidden", "Insufficient role for this operation.")
					return
				}
			}

			rctx := models.RequestContext{
				StaffLogin: claims.Login,
				StaffRole:  role,
				Department: claims.Department,
				Division:   claims.Division,
				IPAddress:  r.RemoteAddr,
				UserAgent:  r.UserAgent(),
			}
			ctx := context.WithValue(r.Context(), RequestContextKey, rctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestContext extracts the RequestContext set by the auth middleware
func GetRequestContext(r *http.Request) (models.RequestContext, bool) {
	rctx, ok := r.Context().Value(RequestContextKey).(models.RequestContext)
	return rctx, ok
}

// Helper function for error responses
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json := fmt.Sprintf(`{"error":"%s","message":"%s","code":%d}`, errorType, message, statusCode)
	w.Write([]byte(json))
}
