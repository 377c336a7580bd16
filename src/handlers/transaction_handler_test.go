package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func newTransactionTestRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/transactions", CreateTransaction(nil))
	r.Put("/api/transactions/{transaction_id}", UpdateTransaction(nil))
	r.Post("/api/sms/ingest", IngestSMS(nil))
	return r
}

func TestCreateTransactionValidation(t *testing.T) {
	router := newTransactionTestRouter()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing amount", `{"date":"2025-07-11","description":"lunch","category":"Food"}`, "amount is required"},
		{"missing description", `{"amount":100,"date":"2025-07-11","category":"Food"}`, "description is required"},
		{"unknown category", `{"amount":100,"date":"2025-07-11","description":"lunch","category":"Groceries"}`, "unknown category"},
		{"bad date format", `{"amount":100,"date":"11-07-2025","description":"lunch","category":"Food"}`, "date must be YYYY-MM-DD"},
		{"bad type", `{"amount":100,"date":"2025-07-11","description":"lunch","category":"Food","type":"transfer"}`, "type must be income or expense"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/transactions", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestUpdateTransactionValidation(t *testing.T) {
	router := newTransactionTestRouter()

	rec := doRequest(t, router, http.MethodPut, "/api/transactions/nope",
		`{"amount":100,"date":"2025-07-11","description":"lunch","category":"Food"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid transaction id")
}

func TestIngestSMSValidation(t *testing.T) {
	router := newTransactionTestRouter()

	t.Run("rejects empty json text", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/sms/ingest", `{"text":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "text is required")
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/sms/ingest", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
