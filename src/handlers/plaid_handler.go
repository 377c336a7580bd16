package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"fintrack-server/src/config"
	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/sms"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

func CreateLinkToken(plaidClient *plaid.APIClient, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// IN is not among the generated CountryCode constants in this SDK
		// version; the API accepts it as a plain code.
		request := plaid.NewLinkTokenCreateRequest(
			"Fintrack",
			"en",
			[]plaid.CountryCode{plaid.CountryCode("IN")},
		)
		request.SetUser(plaid.LinkTokenCreateRequestUser{
			ClientUserId: "fintrack-user",
		})
		request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
		if cfg.PlaidWebhookURL != "" {
			request.SetWebhook(cfg.PlaidWebhookURL)
		}
		resp, _, err := plaidClient.PlaidApi.LinkTokenCreate(r.Context()).LinkTokenCreateRequest(*request).Execute()
		if err != nil {
			log.Printf("ERROR: Plaid link token creation failed: %v", err)
			http.Error(w, "failed to create link token", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"link_token": resp.GetLinkToken()})
	}
}

func ExchangePublicToken(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode exchange token request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.PublicToken == "" {
			http.Error(w, "public_token is required", http.StatusBadRequest)
			return
		}

		exchangeReq := plaid.NewItemPublicTokenExchangeRequest(req.PublicToken)
		exchangeResp, _, err := plaidClient.PlaidApi.ItemPublicTokenExchange(r.Context()).ItemPublicTokenExchangeRequest(
			*exchangeReq,
		).Execute()
		if err != nil {
			log.Printf("ERROR: Plaid public token exchange failed: %v", err)
			http.Error(w, "failed to exchange public token", http.StatusBadGateway)
			return
		}

		accessToken := exchangeResp.GetAccessToken()
		itemID := exchangeResp.GetItemId()

		// Institution details are optional; the link still works without them.
		institutionName := ""
		itemReq := plaid.NewItemGetRequest(accessToken)
		if itemResp, _, err := plaidClient.PlaidApi.ItemGet(r.Context()).ItemGetRequest(*itemReq).Execute(); err != nil {
			log.Printf("WARN: Failed to fetch item details for item %s: %v", itemID, err)
		} else if name, ok := itemResp.GetItem().AdditionalProperties["institution_name"].(string); ok {
			institutionName = name
		}

		// Tokens go to the database, not process memory, so a restart does
		// not orphan linked accounts.
		if err := db.SavePlaidItem(r.Context(), pool, itemID, accessToken, institutionName); err != nil {
			log.Printf("ERROR: Failed to save plaid item %s: %v", itemID, err)
			http.Error(w, "failed to save plaid item", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Linked plaid item %s (%s)", itemID, institutionName)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"item_id": itemID,
			"message": "bank account linked",
		})
	}
}

func GetPlaidItems(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := db.GetPlaidItems(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get plaid items: %v", err)
			http.Error(w, "failed to get plaid items", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

func SyncTransactions(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "item_id")

		count, err := syncItemTransactions(r.Context(), plaidClient, pool, itemID)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "plaid item not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to sync transactions for item %s: %v", itemID, err)
			http.Error(w, "failed to sync transactions", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":      "transactions synced",
			"synced_count": count,
		})
	}
}

func DeletePlaidItem(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "item_id")
		err := db.DeletePlaidItem(r.Context(), pool, itemID)
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "plaid item not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to delete plaid item %s: %v", itemID, err)
			http.Error(w, "failed to delete plaid item", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Unlinked plaid item %s", itemID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account unlinked"})
	}
}

// PlaidWebhook handles transaction update notifications. The body is verified
// against the Plaid-Verification JWT before anything touches the database; a
// bad upstream payload is logged and rejected without corrupting local rows.
func PlaidWebhook(plaidClient *plaid.APIClient, pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		if ok, err := util.VerifyWebhook(r.Context(), plaidClient, body, r.Header); !ok {
			log.Printf("ERROR: Plaid webhook verification failed: %v", err)
			http.Error(w, "webhook verification failed", http.StatusUnauthorized)
			return
		}

		var payload struct {
			WebhookType string `json:"webhook_type"`
			WebhookCode string `json:"webhook_code"`
			ItemID      string `json:"item_id"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Printf("ERROR: Malformed plaid webhook body: %v", err)
			http.Error(w, "invalid webhook body", http.StatusBadRequest)
			return
		}

		if payload.WebhookType == "TRANSACTIONS" {
			count, err := syncItemTransactions(r.Context(), plaidClient, pool, payload.ItemID)
			if err != nil {
				// Webhook retries will re-deliver; local state stays intact.
				log.Printf("ERROR: Webhook sync failed for item %s (%s): %v",
					payload.ItemID, payload.WebhookCode, err)
				http.Error(w, "failed to process webhook", http.StatusBadGateway)
				return
			}
			log.Printf("INFO: Webhook %s synced %d transactions for item %s",
				payload.WebhookCode, count, payload.ItemID)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "webhook processed"})
	}
}

// syncItemTransactions pulls every pending page from the transactions sync
// endpoint and upserts the results keyed on their provider transaction id,
// advancing the stored cursor only after each page lands.
func syncItemTransactions(ctx context.Context, plaidClient *plaid.APIClient, pool *pgxpool.Pool, itemID string) (int, error) {
	item, err := db.GetPlaidItemByItemID(ctx, pool, itemID)
	if err != nil {
		return 0, err
	}

	synced := 0
	removed := 0
	cursor := item.SyncCursor
	for {
		request := plaid.NewTransactionsSyncRequest(item.AccessToken)
		if cursor != "" {
			request.SetCursor(cursor)
		}
		resp, _, err := plaidClient.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*request).Execute()
		if err != nil {
			return synced, err
		}

		for _, txn := range append(resp.GetAdded(), resp.GetModified()...) {
			if _, err := db.UpsertExternalTransaction(ctx, pool, plaidTransaction(txn)); err != nil {
				return synced, err
			}
			synced++
		}
		for _, retracted := range resp.GetRemoved() {
			if err := db.DeleteTransactionByExternalID(ctx, pool, retracted.GetTransactionId()); err != nil {
				return synced, err
			}
			removed++
		}

		cursor = resp.GetNextCursor()
		if err := db.UpdateSyncCursor(ctx, pool, itemID, cursor); err != nil {
			return synced, err
		}
		if !resp.GetHasMore() {
			break
		}
	}

	// A page can mutate rows without adding any, e.g. removals only; any
	// mutation invalidates cached lists.
	if synced+removed > 0 {
		cache.ClearAllTransactionCaches()
	}
	return synced, nil
}

// plaidTransaction maps a provider transaction onto the local model. Plaid
// amounts are positive for money leaving the account, which matches the local
// convention of positive expenses and negated credits. Categorization runs
// the transaction name through the same classifier the SMS path uses.
func plaidTransaction(txn plaid.Transaction) *models.Transaction {
	date, err := time.Parse("2006-01-02", txn.GetDate())
	if err != nil {
		date = time.Now()
	}
	txnType := "expense"
	if txn.GetAmount() < 0 {
		txnType = "income"
	}
	accountID := txn.GetAccountId()
	transactionID := txn.GetTransactionId()
	return &models.Transaction{
		Amount:        txn.GetAmount(),
		Date:          date,
		Description:   txn.GetName(),
		Category:      sms.Classify(txn.GetName()),
		Source:        "Plaid",
		Type:          txnType,
		AccountID:     &accountID,
		TransactionID: &transactionID,
	}
}
