package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/handlers"
	"expense-ledger/internal/ledger"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Unable to initialize store: %v", err)
	}
	defer db.Close()

	users, err := db.UserCount()
	if err != nil {
		log.Fatalf("Unable to query store: %v", err)
	}
	log.Printf("Store ready at %s with %d registered users", cfg.DBPath, users)

	signer, err := token.NewSigner(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Unable to initialize token signer: %v", err)
	}

	gate := auth.NewGate(signer, db)
	l := ledger.New(db, nil)
	h := handlers.NewHandlers(db, l, gate, signer)

	mux := setupRouter(h)

	log.Printf("Starting server on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Logger)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mux.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Health)
		api.Post("/auth/register", h.Register)
		api.Post("/auth/login", h.Login)

		api.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Get("/expenses", h.ListExpenses)
			r.Post("/expenses", h.CreateExpense)
			r.Get("/expenses/summary", h.Summary)
		})
	})

	return mux
}
