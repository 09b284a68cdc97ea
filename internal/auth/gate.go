// Package auth resolves presented bearer credentials into authenticated
// users, and holds the password hashing helpers used by the login and
// registration flows.
package auth

import (
	"errors"

	"expense-ledger/internal/models"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/token"
)

var (
	// ErrNoCredential is returned when no token was presented at all.
	ErrNoCredential = errors.New("access token required")
	// ErrBadCredential is returned when the token is malformed or fails
	// signature verification.
	ErrBadCredential = errors.New("invalid token")
	// ErrUserGone is returned when the token verifies but no user exists
	// for the id it carries.
	ErrUserGone = errors.New("user not found")
)

// Gate resolves a raw credential string into a live user. Every request
// ends in exactly one of four terminal outcomes: no credential, bad
// credential, unknown user, or an authenticated user.
type Gate struct {
	signer *token.Signer
	users  storage.UserStore
}

// NewGate creates a Gate backed by the given token signer and user store.
func NewGate(signer *token.Signer, users storage.UserStore) *Gate {
	return &Gate{signer: signer, users: users}
}

// Authenticate verifies the credential and resolves it to a user. The
// credential is the bare token, already stripped of the "Bearer " scheme by
// the HTTP boundary.
func (g *Gate) Authenticate(credential string) (*models.User, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}

	userID, err := g.signer.Verify(credential)
	if err != nil {
		return nil, ErrBadCredential
	}

	user, err := g.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// A verified token for a since-removed user is reported
			// distinctly from a bad token.
			return nil, ErrUserGone
		}
		return nil, err
	}

	return user, nil
}
