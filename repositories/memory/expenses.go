package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[primitive.ObjectID]models.Expense
}

func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{expenses: make(map[primitive.ObjectID]models.Expense)}
}

func (r *ExpenseRepository) Insert(_ context.Context, expense *models.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if expense.ID.IsZero() {
		expense.ID = primitive.NewObjectID()
	}
	if expense.Tags == nil {
		expense.Tags = []string{}
	}
	if expense.Attachments == nil {
		expense.Attachments = []string{}
	}
	expense.CreatedAt = now
	expense.UpdatedAt = now
	r.expenses[expense.ID] = cloneExpense(*expense)
	return nil
}

// owned returns the expense only when it belongs to userID.
func (r *ExpenseRepository) owned(userID, id primitive.ObjectID) (models.Expense, error) {
	e, ok := r.expenses[id]
	if !ok || e.UserID != userID {
		return models.Expense{}, apperrors.NotFound("Expense with ID %s not found", id.Hex())
	}
	return e, nil
}

func (r *ExpenseRepository) FindOne(_ context.Context, userID, id primitive.ObjectID) (models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, err := r.owned(userID, id)
	if err != nil {
		return models.Expense{}, err
	}
	return cloneExpense(e), nil
}

func (r *ExpenseRepository) FindAll(_ context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Expense{}
	for _, e := range r.expenses {
		if filter.Matches(e) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ExpenseRepository) Update(_ context.Context, userID, id primitive.ObjectID, patch models.ExpensePatch) (models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.owned(userID, id)
	if err != nil {
		return models.Expense{}, err
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.PaymentMethod != nil {
		e.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Tags != nil {
		e.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.IsRecurring != nil {
		e.IsRecurring = *patch.IsRecurring
	}
	if patch.RecurringFrequency != nil {
		e.RecurringFrequency = *patch.RecurringFrequency
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Attachments != nil {
		e.Attachments = append([]string{}, (*patch.Attachments)...)
	}
	e.UpdatedAt = time.Now().UTC()
	r.expenses[id] = e
	return cloneExpense(e), nil
}

func (r *ExpenseRepository) PushAttachment(_ context.Context, userID, id primitive.ObjectID, url string) (models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.owned(userID, id)
	if err != nil {
		return models.Expense{}, err
	}
	e.Attachments = append(append([]string{}, e.Attachments...), url)
	e.UpdatedAt = time.Now().UTC()
	r.expenses[id] = e
	return cloneExpense(e), nil
}

func (r *ExpenseRepository) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(userID, id); err != nil {
		return err
	}
	delete(r.expenses, id)
	return nil
}

func cloneExpense(e models.Expense) models.Expense {
	e.Tags = append([]string{}, e.Tags...)
	e.Attachments = append([]string{}, e.Attachments...)
	return e
}
