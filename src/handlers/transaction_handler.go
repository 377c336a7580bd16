package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/sms"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionListCacheKey = "transactions:all"

type transactionRequest struct {
	Amount      *float64 `json:"amount"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Source      string   `json:"source"`
	Type        string   `json:"type"`
}

// validate maps the request onto a model, applying the defaults the older
// manual-entry clients rely on (source Manual, type expense).
func (req *transactionRequest) validate() (*models.Transaction, string) {
	if req.Amount == nil {
		return nil, "amount is required"
	}
	if req.Description == "" {
		return nil, "description is required"
	}
	if !sms.ValidCategory(req.Category) {
		return nil, "unknown category"
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, "date must be YYYY-MM-DD"
	}
	if req.Source == "" {
		req.Source = "Manual"
	}
	if req.Type == "" {
		req.Type = "expense"
	}
	if !util.ValidateTransactionType(req.Type) {
		return nil, "type must be income or expense"
	}
	return &models.Transaction{
		Amount:      *req.Amount,
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Source:      req.Source,
		Type:        req.Type,
	}, ""
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		transaction, problem := req.validate()
		if problem != "" {
			log.Printf("ERROR: Invalid create transaction request: %s", problem)
			http.Error(w, problem, http.StatusBadRequest)
			return
		}
		created, err := db.CreateTransaction(r.Context(), pool, transaction)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction: %v", err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllTransactionCaches()
		log.Printf("INFO: Created transaction id %d, category %s", created.ID, created.Category)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, found := cache.Cache.Get(transactionListCacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}
		transactions, err := db.GetAllTransactions(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions: %v", err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		cache.SetTransactionCache(transactionListCacheKey, transactions)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transactions)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.Atoi(transactionIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		transaction, problem := req.validate()
		if problem != "" {
			log.Printf("ERROR: Invalid update transaction request: %s", problem)
			http.Error(w, problem, http.StatusBadRequest)
			return
		}
		transaction.ID = transactionID
		updated, err := db.UpdateTransaction(r.Context(), pool, transaction)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d: %v", transactionID, err)
			http.Error(w, "failed to update transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllTransactionCaches()
		log.Printf("INFO: Updated transaction id %d", updated.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.Atoi(transactionIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		err = db.DeleteTransaction(r.Context(), pool, transactionID)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d: %v", transactionID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllTransactionCaches()
		log.Printf("INFO: Deleted transaction id %d", transactionID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}
