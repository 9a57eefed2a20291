package api

import (
	"net/http"

	"pfm-server/src/handlers"
	"pfm-server/src/ledger"
	"pfm-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func NewRouter(pool *pgxpool.Pool, svc *ledger.Service, plaidClient *plaid.APIClient) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(pool))
		r.Post("/register", handlers.Register(pool))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware).Group(func(r chi.Router) {
			// User
			r.Get("/user/{user_id}", handlers.GetUser(pool))
			r.Put("/user", handlers.UpdateUser(pool))
			r.Post("/user/change-password", handlers.ChangePassword(pool))
			r.Delete("/user", handlers.DeleteUser(pool))

			// Accounts
			r.Post("/accounts", handlers.CreateAccount(svc))
			r.Get("/accounts", handlers.GetAllAccounts(svc))
			r.Get("/accounts/{account_id}", handlers.GetAccountByID(svc))
			r.Put("/accounts/{account_id}", handlers.UpdateAccount(svc))
			r.Post("/accounts/{account_id}/activate", handlers.SetAccountStatus(svc, true))
			r.Post("/accounts/{account_id}/deactivate", handlers.SetAccountStatus(svc, false))
			r.Post("/accounts/{account_id}/balance-sync", handlers.SyncAccountBalance(svc))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(svc))

			// Categories
			r.Post("/categories", handlers.CreateCategory(svc))
			r.Get("/categories", handlers.GetAllCategories(svc))
			r.Get("/categories/{category_id}", handlers.GetCategoryByID(svc))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(svc))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(svc))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(svc))
			r.Get("/transactions", handlers.GetAllTransactions(svc))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(svc))
			r.Get("/transactions/account/{account_id}", handlers.GetTransactionsByAccount(svc))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(svc))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(svc))

			// Plaid
			r.Post("/plaid/create-link-token", handlers.CreateLinkToken(plaidClient, pool))
			r.Post("/plaid/exchange-public-token", handlers.ExchangePublicToken(plaidClient, pool))
			r.Get("/plaid/items", handlers.GetPlaidItems(pool))
			r.Delete("/plaid/items/{item_id}", handlers.DeletePlaidItem(pool))
			r.Post("/plaid/balance-sync", handlers.SyncBalanceFromPlaid(plaidClient, pool, svc))
		})
	})

	return r
}
