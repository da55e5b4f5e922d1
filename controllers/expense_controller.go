package controllers

import (
	"net/http"
	"slices"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/services"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const expenseAttachmentDir = "expenses"

// ExpenseController serves the caller's own expenses. Every lookup is
// scoped to the token's user.
type ExpenseController struct {
	expenses *services.ExpenseService
	storage  *utils.Storage
	log      logrus.FieldLogger
}

func NewExpenseController(expenses *services.ExpenseService, storage *utils.Storage, log logrus.FieldLogger) *ExpenseController {
	return &ExpenseController{expenses: expenses, storage: storage, log: log}
}

func (ec *ExpenseController) CreateExpense(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	var req models.CreateExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, ec.log, err)
	}

	expense, err := ec.expenses.Create(c.Request().Context(), userID, req)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Expense created successfully",
		Data:    expense,
	})
}

// expenseQuery reads the list/stats filters from the query string.
func expenseQuery(c echo.Context) (models.ExpenseQuery, error) {
	var q models.ExpenseQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, apperrors.Validation("Invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return q, apperrors.Validation("Invalid query parameters: dates must be YYYY-MM-DD and enums known values")
	}
	return q, nil
}

// GetExpenses lists the caller's expenses, newest first
func (ec *ExpenseController) GetExpenses(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	q, err := expenseQuery(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	filter, err := q.Filter(userID)
	if err != nil {
		return errorResponse(c, ec.log, apperrors.Validation("Invalid date filter"))
	}

	expenses, err := ec.expenses.FindAll(c.Request().Context(), userID, filter)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expenses retrieved successfully",
		Data:    expenses,
	})
}

func (ec *ExpenseController) GetExpense(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	expense, err := ec.expenses.FindOne(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense retrieved successfully",
		Data:    expense,
	})
}

func (ec *ExpenseController) UpdateExpense(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	var req models.UpdateExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return errorResponse(c, ec.log, err)
	}

	expense, err := ec.expenses.Update(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense updated successfully",
		Data:    expense,
	})
}

func (ec *ExpenseController) DeleteExpense(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	if err := ec.expenses.Remove(c.Request().Context(), userID, c.Param("id")); err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense deleted successfully",
	})
}

// UploadAttachment stores the multipart "file" field privately and appends
// its download URL to the expense's attachments
func (ec *ExpenseController) UploadAttachment(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	expense, err := ec.expenses.FindOne(ctx, userID, id)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, ec.log, apperrors.Validation("Attachment file is required"))
	}

	name, err := ec.storage.SaveAttachment(file, expenseAttachmentDir)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	expense, err = ec.expenses.AddAttachment(ctx, userID, id, attachmentURL(expense.ID, name))
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Attachment uploaded successfully",
		Data:    expense,
	})
}

// GetAttachment streams one of the caller's stored attachments. Files of
// other users' expenses are reported as not found.
func (ec *ExpenseController) GetAttachment(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	expense, err := ec.expenses.FindOne(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	name := c.Param("name")
	if !slices.Contains(expense.Attachments, attachmentURL(expense.ID, name)) {
		return errorResponse(c, ec.log, apperrors.NotFound("Attachment %s not found", name))
	}
	path, err := ec.storage.PrivateFile(expenseAttachmentDir, name)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	return c.File(path)
}

func attachmentURL(expenseID primitive.ObjectID, name string) string {
	return "/api/expenses/" + expenseID.Hex() + "/attachments/" + name
}

// GetStats aggregates the caller's expenses between the optional startDate
// and endDate, both inclusive. Stats already break totals down by category
// and payment method, so those filters are list-only.
func (ec *ExpenseController) GetStats(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	q, err := expenseQuery(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	if q.Category != "" || q.PaymentMethod != "" {
		return errorResponse(c, ec.log, apperrors.Validation("Stats accept only startDate and endDate"))
	}
	filter, err := q.Filter(userID)
	if err != nil {
		return errorResponse(c, ec.log, apperrors.Validation("Invalid date filter"))
	}

	stats, err := ec.expenses.Stats(c.Request().Context(), userID, filter.From, filter.To)
	return ec.respondStats(c, stats, err)
}

func (ec *ExpenseController) GetMonthlyStats(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	var year, month int
	if err := echo.PathParamsBinder(c).MustInt("year", &year).MustInt("month", &month).BindError(); err != nil {
		return errorResponse(c, ec.log, apperrors.Validation("year and month must be integers"))
	}

	stats, err := ec.expenses.MonthlyStats(c.Request().Context(), userID, year, time.Month(month))
	return ec.respondStats(c, stats, err)
}

func (ec *ExpenseController) GetYearlyStats(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return errorResponse(c, ec.log, err)
	}

	var year int
	if err := echo.PathParamsBinder(c).MustInt("year", &year).BindError(); err != nil {
		return errorResponse(c, ec.log, apperrors.Validation("year must be an integer"))
	}

	stats, err := ec.expenses.YearlyStats(c.Request().Context(), userID, year)
	return ec.respondStats(c, stats, err)
}

func (ec *ExpenseController) respondStats(c echo.Context, stats models.ExpenseStats, err error) error {
	if err != nil {
		return errorResponse(c, ec.log, err)
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expense statistics retrieved successfully",
		Data:    stats,
	})
}
