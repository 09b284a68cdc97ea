package storage

import (
	"database/sql"
	"errors"

	"expense-ledger/internal/models"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection and implements UserStore and ExpenseStore.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations. Use ":memory:" for
// a volatile store.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	// A single connection keeps concurrent writers serialized and keeps an
	// in-memory database from vanishing between pooled connections.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			date TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser inserts a new user. The UNIQUE constraint on email makes the
// check-then-insert atomic; a duplicate email returns ErrEmailTaken.
func (db *DB) CreateUser(user *models.User) (*models.User, error) {
	_, err := db.conn.Exec(
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		user.ID, user.Email, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return db.GetUserByID(user.ID)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateExpense appends a new expense. The caller supplies id, owner and
// timestamps; owner existence is the caller's responsibility.
func (db *DB) CreateExpense(e *models.Expense) (*models.Expense, error) {
	_, err := db.conn.Exec(
		"INSERT INTO expenses (id, user_id, amount, category, description, date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.Amount, e.Category, e.Description, e.Date, e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpensesByUser retrieves all expenses owned by userID in insertion
// order, oldest first. Display ordering is the caller's concern.
func (db *DB) ListExpensesByUser(userID string) ([]models.Expense, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, amount, category, description, date, created_at FROM expenses WHERE user_id = ? ORDER BY rowid",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// CategoryTotalsByUser aggregates expenses owned by userID per category,
// largest total first.
func (db *DB) CategoryTotalsByUser(userID string) ([]CategoryTotal, error) {
	rows, err := db.conn.Query(
		"SELECT category, SUM(amount), COUNT(*) FROM expenses WHERE user_id = ? GROUP BY category ORDER BY SUM(amount) DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []CategoryTotal{}
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
