package routes

import (
	"github.com/labstack/echo/v4"
)

// RegisterFileRoutes serves public uploads such as product images. Expense
// attachments live outside this directory.
func RegisterFileRoutes(e *echo.Echo, uploadDir string) {
	e.Static("/uploads", uploadDir)
}
