package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/sms"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestSMS parses one raw bank SMS and upserts the resulting transaction.
// The text comes either from a JSON body {"text": ...} or a form field named
// "text" (webhook relays post forms). Parsing never fails outright; defaulted
// fields come back in a warnings array next to the stored transaction.
func IngestSMS(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := smsText(r)
		if text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		candidate := sms.Parse(text, time.Now())
		if candidate.LowConfidence() {
			log.Printf("WARN: Low confidence SMS parse: %v", candidate.Warnings)
		}

		transaction := &models.Transaction{
			Amount:      candidate.Amount,
			Date:        candidate.Date,
			Description: candidate.Description,
			Category:    candidate.Category,
			Source:      candidate.Source,
			Type:        candidate.Type,
		}
		stored, err := db.UpsertSMSTransaction(r.Context(), pool, transaction)
		if err != nil {
			log.Printf("ERROR: Failed to store SMS transaction: %v", err)
			http.Error(w, "failed to store transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllTransactionCaches()
		log.Printf("INFO: Ingested SMS transaction id %d, source %s, category %s",
			stored.ID, stored.Source, stored.Category)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"transaction": stored,
			"warnings":    candidate.Warnings,
		})
	}
}

func smsText(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ""
		}
		return req.Text
	}
	return r.PostFormValue("text")
}
