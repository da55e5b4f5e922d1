// middleware/auth_middleware.go
package middleware

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
)

// RequireRole checks if the authenticated user has one of the allowed roles.
// It must run after the JWT gate.
func RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := ExtractRole(c)
			if role == "" {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "Authentication failed: role not found",
				})
			}

			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}

			c.Logger().Warnf("Access denied for role %s on %s", role, c.Path())
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Access denied for your role",
			})
		}
	}
}
