package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/ledger"
	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/token"
)

// Context key type to avoid collisions.
type contextKey string

// UserContextKey is the context key for the authenticated user.
const UserContextKey contextKey = "user"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	users  storage.UserStore
	ledger *ledger.Ledger
	gate   *auth.Gate
	signer *token.Signer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(users storage.UserStore, l *ledger.Ledger, gate *auth.Gate, signer *token.Signer) *Handlers {
	return &Handlers{users: users, ledger: l, gate: gate, signer: signer}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require a bearer token. It extracts the
// credential from the Authorization header, resolves it through the auth
// gate and stores the user in the request context.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.gate.Authenticate(bearerToken(r))
		if err != nil {
			h.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. A missing header or a different scheme yields the empty string,
// which the gate reports as a missing credential.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, credential, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(credential)
}

// credentialsRequest is the shape of register and login request bodies.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is returned by register and login.
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new user account and hands back a token for it.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeJSONError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Password is required")
		return
	}

	if _, err := h.users.GetUserByEmail(req.Email); err == nil {
		writeJSONError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		h.writeError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.users.CreateUser(&models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	tok, err := h.signer.Issue(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: tok, User: user})
}

// Login verifies an email/password pair and hands back a token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	// The same message covers unknown email and wrong password so that
	// login failures do not reveal which emails are registered.
	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tok, err := h.signer.Issue(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: tok, User: user})
}

// ListExpenses returns the authenticated user's expenses in insertion
// order, oldest first.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	expenses, err := h.ledger.List(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense records a new expense owned by the authenticated user.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var input ledger.CreateExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	expense, err := h.ledger.Add(user.ID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// Summary returns per-category spending totals for the authenticated user.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	summary, err := h.ledger.Summarize(user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Health is a liveness probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps core errors to status codes. Anything uncategorized is a
// 500 with a generic message; the detail stays in the server log.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var ve *ledger.ValidationError
	switch {
	case errors.Is(err, auth.ErrNoCredential):
		writeJSONError(w, http.StatusUnauthorized, "Access token required")
	case errors.Is(err, auth.ErrBadCredential):
		writeJSONError(w, http.StatusForbidden, "Invalid token")
	case errors.Is(err, auth.ErrUserGone):
		writeJSONError(w, http.StatusNotFound, "User not found")
	case errors.As(err, &ve):
		writeJSONError(w, http.StatusBadRequest, capitalize(ve.Error()))
	case errors.Is(err, storage.ErrEmailTaken):
		writeJSONError(w, http.StatusConflict, "Email already registered")
	default:
		log.Printf("handler error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
