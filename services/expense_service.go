package services

import (
	"context"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/HSouheill/shop_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseService manages a user's own expenses. Another user's expense
// behaves as if it did not exist.
type ExpenseService struct {
	expenses ExpenseStore
	log      logrus.FieldLogger
}

func NewExpenseService(expenses ExpenseStore, log logrus.FieldLogger) *ExpenseService {
	return &ExpenseService{expenses: expenses, log: log}
}

func (s *ExpenseService) Create(ctx context.Context, userID primitive.ObjectID, req models.CreateExpenseRequest) (models.Expense, error) {
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return models.Expense{}, apperrors.Validation("date must be formatted as YYYY-MM-DD")
	}

	expense := models.Expense{
		UserID:             userID,
		Title:              utils.SanitizeInput(req.Title),
		Description:        utils.SanitizeInput(req.Description),
		Amount:             req.Amount,
		Category:           req.Category,
		PaymentMethod:      req.PaymentMethod,
		Date:               date,
		Tags:               utils.SanitizeStringArray(req.Tags),
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
		Location:           utils.SanitizeInput(req.Location),
		Attachments:        utils.SanitizeStringArray(req.Attachments),
	}
	if err := s.expenses.Insert(ctx, &expense); err != nil {
		return models.Expense{}, err
	}

	s.log.WithFields(logrus.Fields{"expense_id": expense.ID.Hex(), "user_id": userID.Hex()}).Debug("Expense created")
	return expense, nil
}

// FindAll lists the user's expenses matching filter, newest date first.
// filter.UserID is overwritten with userID.
func (s *ExpenseService) FindAll(ctx context.Context, userID primitive.ObjectID, filter models.ExpenseFilter) ([]models.Expense, error) {
	filter.UserID = userID
	return s.expenses.FindAll(ctx, filter)
}

func (s *ExpenseService) FindOne(ctx context.Context, userID primitive.ObjectID, id string) (models.Expense, error) {
	oid, err := ParseID("Expense", id)
	if err != nil {
		return models.Expense{}, err
	}
	return s.expenses.FindOne(ctx, userID, oid)
}

func (s *ExpenseService) Update(ctx context.Context, userID primitive.ObjectID, id string, req models.UpdateExpenseRequest) (models.Expense, error) {
	oid, err := ParseID("Expense", id)
	if err != nil {
		return models.Expense{}, err
	}

	patch := models.ExpensePatch{
		Title:              utils.SanitizeOptional(req.Title),
		Description:        utils.SanitizeOptional(req.Description),
		Amount:             req.Amount,
		Category:           req.Category,
		PaymentMethod:      req.PaymentMethod,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
		Location:           utils.SanitizeOptional(req.Location),
	}
	if req.Date != nil {
		date, err := models.ParseDate(*req.Date)
		if err != nil {
			return models.Expense{}, apperrors.Validation("date must be formatted as YYYY-MM-DD")
		}
		patch.Date = &date
	}
	if req.Tags != nil {
		tags := utils.SanitizeStringArray(*req.Tags)
		patch.Tags = &tags
	}
	if req.Attachments != nil {
		attachments := utils.SanitizeStringArray(*req.Attachments)
		patch.Attachments = &attachments
	}
	return s.expenses.Update(ctx, userID, oid, patch)
}

func (s *ExpenseService) AddAttachment(ctx context.Context, userID primitive.ObjectID, id, url string) (models.Expense, error) {
	oid, err := ParseID("Expense", id)
	if err != nil {
		return models.Expense{}, err
	}
	return s.expenses.PushAttachment(ctx, userID, oid, url)
}

func (s *ExpenseService) Remove(ctx context.Context, userID primitive.ObjectID, id string) error {
	oid, err := ParseID("Expense", id)
	if err != nil {
		return err
	}
	return s.expenses.Delete(ctx, userID, oid)
}

// Stats aggregates the user's expenses dated within [start, end]. Either
// bound may be nil and each applies on its own.
func (s *ExpenseService) Stats(ctx context.Context, userID primitive.ObjectID, start, end *time.Time) (models.ExpenseStats, error) {
	expenses, err := s.expenses.FindAll(ctx, models.ExpenseFilter{UserID: userID, From: start, To: end})
	if err != nil {
		return models.ExpenseStats{}, err
	}
	return summarize(expenses), nil
}

// MonthlyStats covers the whole calendar month, leap days included.
func (s *ExpenseService) MonthlyStats(ctx context.Context, userID primitive.ObjectID, year int, month time.Month) (models.ExpenseStats, error) {
	if month < time.January || month > time.December {
		return models.ExpenseStats{}, apperrors.Validation("month must be between 1 and 12")
	}
	start, end := MonthRange(year, month)
	return s.Stats(ctx, userID, &start, &end)
}

func (s *ExpenseService) YearlyStats(ctx context.Context, userID primitive.ObjectID, year int) (models.ExpenseStats, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return s.Stats(ctx, userID, &start, &end)
}

// MonthRange returns the first instant of the month and 23:59:59 on its
// last day, in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	last := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
	return start, last
}

func summarize(expenses []models.Expense) models.ExpenseStats {
	stats := models.ExpenseStats{
		TotalExpenses:      len(expenses),
		CategoryStats:      map[models.ExpenseCategory]float64{},
		PaymentMethodStats: map[models.PaymentMethod]float64{},
	}
	if len(expenses) == 0 {
		return stats
	}

	total := decimal.Zero
	byCategory := map[models.ExpenseCategory]decimal.Decimal{}
	byMethod := map[models.PaymentMethod]decimal.Decimal{}
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.Category] = byCategory[e.Category].Add(amount)
		byMethod[e.PaymentMethod] = byMethod[e.PaymentMethod].Add(amount)
	}
	for k, v := range byCategory {
		stats.CategoryStats[k] = v.InexactFloat64()
	}
	for k, v := range byMethod {
		stats.PaymentMethodStats[k] = v.InexactFloat64()
	}
	stats.TotalAmount = total.InexactFloat64()
	stats.AverageAmount = total.Div(decimal.NewFromInt(int64(len(expenses)))).InexactFloat64()
	return stats
}
