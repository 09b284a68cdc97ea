package storage

import (
	"errors"

	"expense-ledger/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// UserStore holds user identity records. The email index is the single
// source of truth for uniqueness.
type UserStore interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// ExpenseStore holds expense records. Records are append-only; every query
// is scoped to a single owner.
type ExpenseStore interface {
	CreateExpense(expense *models.Expense) (*models.Expense, error)
	ListExpensesByUser(userID string) ([]models.Expense, error)
	CategoryTotalsByUser(userID string) ([]CategoryTotal, error)
}

// CategoryTotal holds aggregated spending for one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}
