package services

import (
	"context"
	"testing"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func addExpense(t *testing.T, f *fixture, userID primitive.ObjectID, day string, amount float64, category models.ExpenseCategory, method models.PaymentMethod) models.Expense {
	t.Helper()
	e, err := f.expenses.Create(context.Background(), userID, models.CreateExpenseRequest{
		Title:         "expense " + day,
		Amount:        amount,
		Category:      category,
		PaymentMethod: method,
		Date:          day,
	})
	require.NoError(t, err)
	return e
}

func TestExpenseStatsEmpty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.expenses.Stats(context.Background(), primitive.NewObjectID(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalExpenses)
	assert.Zero(t, stats.TotalAmount)
	assert.Zero(t, stats.AverageAmount)
	assert.NotNil(t, stats.CategoryStats)
	assert.Empty(t, stats.CategoryStats)
	assert.NotNil(t, stats.PaymentMethodStats)
	assert.Empty(t, stats.PaymentMethodStats)
}

func TestExpenseStatsAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	addExpense(t, f, userID, "2024-01-05", 10.1, models.ExpenseCategoryFood, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-01-06", 20.2, models.ExpenseCategoryFood, models.PaymentMethodCreditCard)
	addExpense(t, f, userID, "2024-01-07", -5, models.ExpenseCategoryOther, models.PaymentMethodCash)

	stats, err := f.expenses.Stats(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalExpenses)
	assert.Equal(t, 25.3, stats.TotalAmount)
	assert.Equal(t, 30.3, stats.CategoryStats[models.ExpenseCategoryFood])
	assert.Equal(t, -5.0, stats.CategoryStats[models.ExpenseCategoryOther])
	assert.Equal(t, 5.1, stats.PaymentMethodStats[models.PaymentMethodCash])
	assert.InDelta(t, 25.3/3, stats.AverageAmount, 1e-9)
}

func TestExpenseStatsBoundsAreIndependentAndInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	addExpense(t, f, userID, "2024-03-01", 1, models.ExpenseCategoryFood, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-03-10", 2, models.ExpenseCategoryFood, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-03-20", 4, models.ExpenseCategoryFood, models.PaymentMethodCash)

	from := date(2024, 3, 10)
	stats, err := f.expenses.Stats(ctx, userID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, 6.0, stats.TotalAmount)

	stats, err = f.expenses.Stats(ctx, userID, nil, &from)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stats.TotalAmount)
}

func TestMonthlyStatsLeapYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	addExpense(t, f, userID, "2024-01-31", 100, models.ExpenseCategoryBills, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-02-01", 1, models.ExpenseCategoryBills, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-02-29", 2, models.ExpenseCategoryBills, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-03-01", 100, models.ExpenseCategoryBills, models.PaymentMethodCash)

	stats, err := f.expenses.MonthlyStats(ctx, userID, 2024, time.February)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalExpenses)
	assert.Equal(t, 3.0, stats.TotalAmount)

	_, err = f.expenses.MonthlyStats(ctx, userID, 2024, 13)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2023, time.February)
	assert.Equal(t, date(2023, 2, 1), start)
	assert.Equal(t, time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC), end)

	_, end = MonthRange(2024, time.December)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestYearlyStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	addExpense(t, f, userID, "2023-12-31", 1, models.ExpenseCategoryTravel, models.PaymentMethodWallet)
	addExpense(t, f, userID, "2024-01-01", 2, models.ExpenseCategoryTravel, models.PaymentMethodWallet)
	addExpense(t, f, userID, "2024-12-31", 4, models.ExpenseCategoryTravel, models.PaymentMethodWallet)

	stats, err := f.expenses.YearlyStats(ctx, userID, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalExpenses)
	assert.Equal(t, 6.0, stats.TotalAmount)
}

func TestExpenseScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, other := primitive.NewObjectID(), primitive.NewObjectID()
	e := addExpense(t, f, owner, "2024-05-05", 12, models.ExpenseCategoryFood, models.PaymentMethodCash)

	_, err := f.expenses.FindOne(ctx, other, e.ID.Hex())
	assert.True(t, apperrors.IsNotFound(err))

	title := "hijacked"
	_, err = f.expenses.Update(ctx, other, e.ID.Hex(), models.UpdateExpenseRequest{Title: &title})
	assert.True(t, apperrors.IsNotFound(err))

	assert.True(t, apperrors.IsNotFound(f.expenses.Remove(ctx, other, e.ID.Hex())))

	stats, err := f.expenses.Stats(ctx, other, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalExpenses)

	require.NoError(t, f.expenses.Remove(ctx, owner, e.ID.Hex()))
	assert.True(t, apperrors.IsNotFound(f.expenses.Remove(ctx, owner, e.ID.Hex())))
}

func TestExpenseFindAllFiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	addExpense(t, f, userID, "2024-05-01", 1, models.ExpenseCategoryFood, models.PaymentMethodCash)
	addExpense(t, f, userID, "2024-05-03", 2, models.ExpenseCategoryFood, models.PaymentMethodUPI)
	addExpense(t, f, userID, "2024-05-02", 3, models.ExpenseCategoryHealth, models.PaymentMethodCash)

	all, err := f.expenses.FindAll(ctx, userID, models.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, date(2024, 5, 3), all[0].Date)
	assert.Equal(t, date(2024, 5, 1), all[2].Date)

	food := models.ExpenseCategoryFood
	cash := models.PaymentMethodCash
	filtered, err := f.expenses.FindAll(ctx, userID, models.ExpenseFilter{Category: &food, PaymentMethod: &cash})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 1.0, filtered[0].Amount)
}

func TestExpenseUpdatePatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	e := addExpense(t, f, userID, "2024-05-01", 1, models.ExpenseCategoryFood, models.PaymentMethodCash)

	newDate := "2024-06-15"
	updated, err := f.expenses.Update(ctx, userID, e.ID.Hex(), models.UpdateExpenseRequest{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 15), updated.Date)
	assert.Equal(t, e.Title, updated.Title)
	assert.Equal(t, e.Amount, updated.Amount)

	link := "/api/expenses/" + e.ID.Hex() + "/attachments/r.pdf"
	withFile, err := f.expenses.AddAttachment(ctx, userID, e.ID.Hex(), link)
	require.NoError(t, err)
	assert.Equal(t, []string{link}, withFile.Attachments)
}
