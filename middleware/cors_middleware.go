package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// CORS allows the given origins. A single "*" allows any origin without
// credentials.
func CORS(origins []string) echo.MiddlewareFunc {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		if o := strings.TrimSpace(origin); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{"*"}
	}
	wildcard := len(cleaned) == 1 && cleaned[0] == "*"

	return echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cleaned,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, echo.HeaderXRequestedWith,
		},
		AllowCredentials: !wildcard,
		ExposeHeaders:    []string{echo.HeaderContentLength, echo.HeaderContentType, echo.HeaderXRequestID},
		MaxAge:           86400,
	})
}
