package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/sms"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Category string   `json:"category"`
			Amount   *float64 `json:"amount"`
			Month    string   `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !sms.ValidCategory(req.Category) {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		if req.Amount == nil || *req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if !util.ValidateMonth(req.Month) {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			Category: req.Category,
			Amount:   *req.Amount,
			Month:    req.Month,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to create budget: %v", err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %d for %s %s", created.ID, created.Category, created.Month)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllBudgets(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgets, err := db.GetAllBudgets(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets: %v", err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budgets)
	}
}
