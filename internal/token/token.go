// Package token issues and verifies the signed bearer tokens that prove a
// user's identity. Tokens are stateless: anyone holding the signing secret
// can verify them without a store lookup.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned when the credential is not parseable as a
	// signed token at all.
	ErrMalformed = errors.New("token is malformed")
	// ErrInvalid is returned when the token parses but its signature does
	// not check out, or it was signed with a rejected algorithm.
	ErrInvalid = errors.New("token is invalid")
)

// claims is the internal claims type used for JWT signing and parsing.
type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Signer issues and verifies HS256 tokens with a process-wide secret.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer. The secret must be non-empty.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Issue produces a signed token carrying the user id claim. Tokens carry no
// expiry: once issued they remain valid for the life of the secret.
func (s *Signer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: userID})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's form and signature and returns the user id it
// carries. It never panics on attacker-controlled input; every failure maps
// to ErrMalformed or ErrInvalid.
func (s *Signer) Verify(tokenString string) (string, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", mapJWTError(err)
	}
	if parsed.UserID == "" {
		return "", ErrInvalid
	}
	return parsed.UserID, nil
}

// mapJWTError translates jwt library errors to package errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return ErrMalformed
	}
	return ErrInvalid
}
