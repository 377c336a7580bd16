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
	"fintrack-server/src/ledger"
	"fintrack-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const debtListCacheKey = "debts:all"

func CreateDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PersonName string `json:"person_name"`
			Notes      string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create debt request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.PersonName == "" {
			http.Error(w, "person_name is required", http.StatusBadRequest)
			return
		}
		debt := &models.Debt{PersonName: req.PersonName, Notes: req.Notes}
		created, err := db.CreateDebt(r.Context(), pool, debt)
		if err != nil {
			log.Printf("ERROR: Failed to create debt for %s: %v", req.PersonName, err)
			http.Error(w, "failed to create debt", http.StatusInternalServerError)
			return
		}
		cache.ClearAllDebtCaches()
		log.Printf("INFO: Created debt id %d for %s", created.ID, created.PersonName)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllDebts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, found := cache.Cache.Get(debtListCacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}
		debts, err := db.GetAllDebts(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get debts: %v", err)
			http.Error(w, "failed to get debts", http.StatusInternalServerError)
			return
		}
		cache.SetDebtCache(debtListCacheKey, debts)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(debts)
	}
}

func UpdateDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtID, ok := debtIDParam(w, r)
		if !ok {
			return
		}
		var req struct {
			PersonName string `json:"person_name"`
			Notes      string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update debt request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.PersonName == "" {
			http.Error(w, "person_name is required", http.StatusBadRequest)
			return
		}
		// total_amount is derived from the ledger; only name and notes are
		// writable here.
		debt := &models.Debt{ID: debtID, PersonName: req.PersonName, Notes: req.Notes}
		updated, err := db.UpdateDebt(r.Context(), pool, debt)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to update debt id %d: %v", debtID, err)
			http.Error(w, "failed to update debt", http.StatusInternalServerError)
			return
		}
		cache.ClearAllDebtCaches()
		log.Printf("INFO: Updated debt id %d", updated.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteDebt(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtID, ok := debtIDParam(w, r)
		if !ok {
			return
		}
		err := db.DeleteDebtCascade(r.Context(), pool, debtID)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete debt id %d: %v", debtID, err)
			http.Error(w, "failed to delete debt", http.StatusInternalServerError)
			return
		}
		cache.ClearAllDebtCaches()
		log.Printf("INFO: Deleted debt id %d and its ledger entries", debtID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "debt deleted"})
	}
}

func GetDebtTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtID, ok := debtIDParam(w, r)
		if !ok {
			return
		}
		if _, err := db.GetDebtByID(r.Context(), pool, debtID); errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		} else if err != nil {
			log.Printf("ERROR: Failed to get debt id %d: %v", debtID, err)
			http.Error(w, "failed to get debt", http.StatusInternalServerError)
			return
		}
		entries, err := db.GetDebtTransactions(r.Context(), pool, debtID)
		if err != nil {
			log.Printf("ERROR: Failed to get ledger entries for debt id %d: %v", debtID, err)
			http.Error(w, "failed to get debt transactions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func AppendDebtTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtID, ok := debtIDParam(w, r)
		if !ok {
			return
		}
		var req struct {
			Amount      *float64         `json:"amount"`
			Description string           `json:"description"`
			Date        *time.Time       `json:"date"`
			Type        ledger.EntryType `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode append ledger entry request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount == nil {
			http.Error(w, "amount is required", http.StatusBadRequest)
			return
		}
		if req.Description == "" {
			http.Error(w, "description is required", http.StatusBadRequest)
			return
		}
		if !req.Type.Valid() {
			http.Error(w, "type must be lent, borrowed or paid", http.StatusBadRequest)
			return
		}
		date := time.Now()
		if req.Date != nil {
			date = *req.Date
		}
		entry := &models.DebtTransaction{
			DebtID:      debtID,
			Amount:      *req.Amount,
			Description: req.Description,
			Date:        date,
			Type:        req.Type,
		}
		debt, created, err := db.AppendDebtTransaction(r.Context(), pool, entry)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "debt not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to append ledger entry to debt id %d: %v", debtID, err)
			http.Error(w, "failed to append debt transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllDebtCaches()
		log.Printf("INFO: Appended %s entry id %d to debt id %d, new total %.2f",
			created.Type, created.ID, debt.ID, debt.TotalAmount)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"debt":        debt,
			"transaction": created,
		})
	}
}

func DeleteDebtTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		debtID, ok := debtIDParam(w, r)
		if !ok {
			return
		}
		entryIDStr := chi.URLParam(r, "entry_id")
		entryID, err := strconv.Atoi(entryIDStr)
		if err != nil {
			log.Printf("ERROR: Invalid ledger entry id param: %s", entryIDStr)
			http.Error(w, "invalid entry id", http.StatusBadRequest)
			return
		}
		debt, err := db.DeleteDebtTransaction(r.Context(), pool, debtID, entryID)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "debt transaction not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete ledger entry id %d from debt id %d: %v", entryID, debtID, err)
			http.Error(w, "failed to delete debt transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllDebtCaches()
		log.Printf("INFO: Deleted ledger entry id %d from debt id %d, new total %.2f", entryID, debt.ID, debt.TotalAmount)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "debt transaction deleted",
			"debt":    debt,
		})
	}
}

func debtIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	debtIDStr := chi.URLParam(r, "debt_id")
	debtID, err := strconv.Atoi(debtIDStr)
	if err != nil {
		log.Printf("ERROR: Invalid debt id param: %s", debtIDStr)
		http.Error(w, "invalid debt id", http.StatusBadRequest)
		return 0, false
	}
	return debtID, true
}
