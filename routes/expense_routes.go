package routes

import (
	"github.com/HSouheill/shop_backend/controllers"
	"github.com/labstack/echo/v4"
)

func RegisterExpenseRoutes(e *echo.Echo, expenseController *controllers.ExpenseController, gates Gates) {
	expenses := e.Group("/api/expenses", gates.Auth)

	expenses.POST("", expenseController.CreateExpense)
	expenses.GET("", expenseController.GetExpenses)

	expenses.GET("/stats", expenseController.GetStats)
	expenses.GET("/stats/monthly/:year/:month", expenseController.GetMonthlyStats)
	expenses.GET("/stats/yearly/:year", expenseController.GetYearlyStats)

	expenses.GET("/:id", expenseController.GetExpense)
	expenses.PATCH("/:id", expenseController.UpdateExpense)
	expenses.DELETE("/:id", expenseController.DeleteExpense)
	expenses.POST("/:id/attachments", expenseController.UploadAttachment)
	expenses.GET("/:id/attachments/:name", expenseController.GetAttachment)
}
