package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExpenseCategory string

const (
	ExpenseCategoryFood          ExpenseCategory = "food"
	ExpenseCategoryTransport     ExpenseCategory = "transport"
	ExpenseCategoryEntertainment ExpenseCategory = "entertainment"
	ExpenseCategoryShopping      ExpenseCategory = "shopping"
	ExpenseCategoryBills         ExpenseCategory = "bills"
	ExpenseCategoryHealth        ExpenseCategory = "health"
	ExpenseCategoryEducation     ExpenseCategory = "education"
	ExpenseCategoryTravel        ExpenseCategory = "travel"
	ExpenseCategoryOther         ExpenseCategory = "other"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodOther        PaymentMethod = "other"
)

type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Expense.Date is a calendar date stored as midnight UTC.
type Expense struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user" bson:"user"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description,omitempty" bson:"description,omitempty"`
	Amount             float64            `json:"amount" bson:"amount"`
	Category           ExpenseCategory    `json:"category" bson:"category"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod" bson:"paymentMethod"`
	Date               time.Time          `json:"date" bson:"date"`
	Tags               []string           `json:"tags" bson:"tags"`
	IsRecurring        bool               `json:"isRecurring" bson:"isRecurring"`
	RecurringFrequency RecurringFrequency `json:"recurringFrequency,omitempty" bson:"recurringFrequency,omitempty"`
	Location           string             `json:"location,omitempty" bson:"location,omitempty"`
	Attachments        []string           `json:"attachments" bson:"attachments"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateExpenseRequest struct {
	Title              string             `json:"title" validate:"required"`
	Description        string             `json:"description,omitempty"`
	Amount             float64            `json:"amount"`
	Category           ExpenseCategory    `json:"category" validate:"required,oneof=food transport entertainment shopping bills health education travel other"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod" validate:"required,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	Date               string             `json:"date" validate:"required,datetime=2006-01-02"`
	Tags               []string           `json:"tags,omitempty"`
	IsRecurring        bool               `json:"isRecurring,omitempty"`
	RecurringFrequency RecurringFrequency `json:"recurringFrequency,omitempty" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Location           string             `json:"location,omitempty"`
	Attachments        []string           `json:"attachments,omitempty"`
}

type UpdateExpenseRequest struct {
	Title              *string             `json:"title,omitempty" validate:"omitempty,min=1"`
	Description        *string             `json:"description,omitempty"`
	Amount             *float64            `json:"amount,omitempty"`
	Category           *ExpenseCategory    `json:"category,omitempty" validate:"omitempty,oneof=food transport entertainment shopping bills health education travel other"`
	PaymentMethod      *PaymentMethod      `json:"paymentMethod,omitempty" validate:"omitempty,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	Date               *string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Tags               *[]string           `json:"tags,omitempty"`
	IsRecurring        *bool               `json:"isRecurring,omitempty"`
	RecurringFrequency *RecurringFrequency `json:"recurringFrequency,omitempty" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Location           *string             `json:"location,omitempty"`
	Attachments        *[]string           `json:"attachments,omitempty"`
}

type ExpensePatch struct {
	Title              *string
	Description        *string
	Amount             *float64
	Category           *ExpenseCategory
	PaymentMethod      *PaymentMethod
	Date               *time.Time
	Tags               *[]string
	IsRecurring        *bool
	RecurringFrequency *RecurringFrequency
	Location           *string
	Attachments        *[]string
}

// ExpenseFilter is always scoped to one user. From and To are inclusive.
type ExpenseFilter struct {
	UserID        primitive.ObjectID
	Category      *ExpenseCategory
	PaymentMethod *PaymentMethod
	From          *time.Time
	To            *time.Time
}

// Matches reports whether e satisfies every criterion of f.
func (f ExpenseFilter) Matches(e Expense) bool {
	if e.UserID != f.UserID {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.PaymentMethod != nil && e.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	return true
}

type ExpenseStats struct {
	TotalExpenses      int                         `json:"totalExpenses"`
	TotalAmount        float64                     `json:"totalAmount"`
	CategoryStats      map[ExpenseCategory]float64 `json:"categoryStats"`
	PaymentMethodStats map[PaymentMethod]float64   `json:"paymentMethodStats"`
	AverageAmount      float64                     `json:"averageAmount"`
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ExpenseQuery is the query string accepted by the expense list and stats
// endpoints.
type ExpenseQuery struct {
	Category      string `query:"category" validate:"omitempty,oneof=food transport entertainment shopping bills health education travel other"`
	PaymentMethod string `query:"paymentMethod" validate:"omitempty,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	StartDate     string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// Filter converts a validated query into a filter for userID.
func (q ExpenseQuery) Filter(userID primitive.ObjectID) (ExpenseFilter, error) {
	filter := ExpenseFilter{UserID: userID}
	if q.Category != "" {
		category := ExpenseCategory(q.Category)
		filter.Category = &category
	}
	if q.PaymentMethod != "" {
		method := PaymentMethod(q.PaymentMethod)
		filter.PaymentMethod = &method
	}
	if q.StartDate != "" {
		from, err := ParseDate(q.StartDate)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		to, err := ParseDate(q.EndDate)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	return filter, nil
}
