package middleware

import (
	"net/http"

	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/security"
	"github.com/labstack/echo/v4"
)

// ContentTypeGuard rejects request bodies in formats no handler decodes.
func ContentTypeGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				return next(c)
			}
			if req.ContentLength == 0 {
				return next(c)
			}
			if !security.ValidateContentType(req.Header.Get(echo.HeaderContentType)) {
				return c.JSON(http.StatusUnsupportedMediaType, models.Response{
					Status:  http.StatusUnsupportedMediaType,
					Message: "Unsupported content type",
				})
			}
			return next(c)
		}
	}
}
