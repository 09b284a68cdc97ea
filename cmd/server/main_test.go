package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/handlers"
	"expense-ledger/internal/ledger"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/token"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	signer, err := token.NewSigner("test-secret")
	require.NoError(t, err)

	gate := auth.NewGate(signer, db)
	h := handlers.NewHandlers(db, ledger.New(db, nil), gate, signer)

	// Create router - this panics if a routing conflict exists
	mux := setupRouter(h)

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "Health check is public",
			method:     "GET",
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "List expenses requires auth",
			method:     "GET",
			path:       "/api/expenses",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Create expense requires auth",
			method:     "POST",
			path:       "/api/expenses",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Summary requires auth",
			method:     "GET",
			path:       "/api/expenses/summary",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Register rejects empty payload",
			method:     "POST",
			path:       "/api/auth/register",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}
