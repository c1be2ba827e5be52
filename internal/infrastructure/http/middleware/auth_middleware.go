package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/pkg/jwt"
)

// Context keys set by the auth middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeyUser   = "user"
)

// EchoAuth returns an Echo middleware that validates the JWT access token
// and sets "user_id" (uuid.UUID), "role" (string) and "user"
// (*entities.User) into the Echo context.
func EchoAuth(tokens *jwt.Manager, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil || user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyRole, string(user.Role))
			c.Set(ContextKeyUser, user)

			return next(c)
		}
	}
}

// RequireRole returns an Echo middleware that rejects users outside the
// given roles. It must run after EchoAuth.
func RequireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(*entities.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequireOfficial rejects users who may not manage agendas and meetings.
func RequireOfficial() echo.MiddlewareFunc {
	return RequireRole(entities.UserRoleOfficial, entities.UserRoleAdmin)
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}
