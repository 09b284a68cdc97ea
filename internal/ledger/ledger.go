// Package ledger implements the identity-scoped expense operations. The
// caller's identity arrives pre-authenticated; every read and write is
// scoped to that owner.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"
)

// ValidationError reports the first missing or invalid input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateExpenseInput is the validated shape of an add request.
type CreateExpenseInput struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Ledger exposes create and list operations over the expense store.
type Ledger struct {
	expenses storage.ExpenseStore
	now      func() time.Time
}

// New creates a Ledger. now may be nil, in which case time.Now is used.
func New(expenses storage.ExpenseStore, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{expenses: expenses, now: now}
}

// List returns all expenses owned by userID in insertion order, oldest
// first. A user with no records gets an empty slice, never an error.
func (l *Ledger) List(userID string) ([]models.Expense, error) {
	return l.expenses.ListExpensesByUser(userID)
}

// Summary holds aggregated spending for one user.
type Summary struct {
	Total      float64                 `json:"total"`
	Count      int                     `json:"count"`
	Categories []storage.CategoryTotal `json:"categories"`
}

// Summarize aggregates the user's spending per category.
func (l *Ledger) Summarize(userID string) (*Summary, error) {
	totals, err := l.expenses.CategoryTotalsByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Categories: totals}
	for _, ct := range totals {
		summary.Total += ct.Total
		summary.Count += ct.Count
	}
	return summary, nil
}

// Add validates the input, constructs a new expense owned by userID and
// appends it to the store. The write is a single insert, so a failing
// request never leaves partial state behind.
func (l *Ledger) Add(userID string, input CreateExpenseInput) (*models.Expense, error) {
	if input.Amount == 0 {
		return nil, &ValidationError{Field: "amount", Reason: "is required"}
	}
	if input.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if input.Category == "" {
		return nil, &ValidationError{Field: "category", Reason: "is required"}
	}
	if input.Date == "" {
		return nil, &ValidationError{Field: "date", Reason: "is required"}
	}
	date, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: "must be a date in YYYY-MM-DD format"}
	}

	expense := &models.Expense{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        date,
		CreatedAt:   l.now(),
	}

	return l.expenses.CreateExpense(expense)
}
