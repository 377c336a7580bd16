package api

import (
	"net/http"

	"fintrack-server/src/config"
	"fintrack-server/src/handlers"
	"fintrack-server/src/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func NewRouter(pool *pgxpool.Pool, plaidClient *plaid.APIClient, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.DemoModeMiddleware(cfg.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Transactions
		r.Get("/transactions", handlers.GetAllTransactions(pool))
		r.Post("/transactions", handlers.CreateTransaction(pool))
		r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
		r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

		// Budgets
		r.Get("/budgets", handlers.GetAllBudgets(pool))
		r.Post("/budgets", handlers.CreateBudget(pool))

		// Debts and their ledgers
		r.Get("/debts", handlers.GetAllDebts(pool))
		r.Post("/debts", handlers.CreateDebt(pool))
		r.Put("/debts/{debt_id}", handlers.UpdateDebt(pool))
		r.Delete("/debts/{debt_id}", handlers.DeleteDebt(pool))
		r.Get("/debts/{debt_id}/transactions", handlers.GetDebtTransactions(pool))
		r.Post("/debts/{debt_id}/transactions", handlers.AppendDebtTransaction(pool))
		r.Delete("/debts/{debt_id}/transactions/{entry_id}", handlers.DeleteDebtTransaction(pool))

		// SMS ingestion
		r.Post("/sms/ingest", handlers.IngestSMS(pool))

		// Plaid
		r.Post("/plaid/create-link-token", handlers.CreateLinkToken(plaidClient, cfg))
		r.Post("/plaid/exchange-token", handlers.ExchangePublicToken(plaidClient, pool))
		r.Get("/plaid/items", handlers.GetPlaidItems(pool))
		r.Get("/plaid/transactions/{item_id}/sync", handlers.SyncTransactions(plaidClient, pool))
		r.Delete("/plaid/items/{item_id}", handlers.DeletePlaidItem(pool))
		r.Post("/plaid/webhook", handlers.PlaidWebhook(plaidClient, pool))
	})

	return r
}
