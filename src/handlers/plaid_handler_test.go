package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	require.NoError(t, cache.Migrate(url))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		`TRUNCATE transactions, budgets, debt_transactions, debts, plaid_items RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

// stubPlaidClient returns a client whose every call lands on the given
// handler instead of Plaid.
func stubPlaidClient(t *testing.T, handler http.HandlerFunc) *plaid.APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	configuration := plaid.NewConfiguration()
	configuration.Servers = plaid.ServerConfigurations{{URL: srv.URL}}
	return plaid.NewAPIClient(configuration)
}

func TestSyncRemovalsOnlyPageClearsCache(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	cache.InitCache()

	require.NoError(t, db.SavePlaidItem(ctx, pool, "item-1", "access-1", "Test Bank"))

	externalID := "txn-1"
	accountID := "acc-1"
	_, err := db.UpsertExternalTransaction(ctx, pool, &models.Transaction{
		Amount:        120,
		Date:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Description:   "CAFE ORDER",
		Category:      "Food",
		Source:        "Plaid",
		Type:          "expense",
		AccountID:     &accountID,
		TransactionID: &externalID,
	})
	require.NoError(t, err)

	cacheKey := "transactions:all"
	cache.SetTransactionCache(cacheKey, []models.Transaction{})
	cache.Cache.Wait()
	_, found := cache.Cache.Get(cacheKey)
	require.True(t, found)

	// One sync page that only retracts: no added or modified rows.
	client := stubPlaidClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"accounts": [],
			"added": [],
			"modified": [],
			"removed": [{"transaction_id": "txn-1", "account_id": "acc-1"}],
			"next_cursor": "cursor-1",
			"has_more": false,
			"request_id": "req-1"
		}`))
	})

	synced, err := syncItemTransactions(ctx, client, pool, "item-1")
	require.NoError(t, err)
	assert.Zero(t, synced)

	var remaining int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE transaction_id = $1`, externalID).Scan(&remaining))
	assert.Zero(t, remaining)

	// The retraction is a write, so cached transaction lists must be gone.
	cache.Cache.Wait()
	_, found = cache.Cache.Get(cacheKey)
	assert.False(t, found)

	item, err := db.GetPlaidItemByItemID(ctx, pool, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "cursor-1", item.SyncCursor)
}

func TestPlaidTransactionMapping(t *testing.T) {
	var txn plaid.Transaction
	txn.SetAmount(450)
	txn.SetDate("2025-07-11")
	txn.SetName("SWIGGY BANGALORE")
	txn.SetAccountId("acc-1")
	txn.SetTransactionId("txn-9")

	mapped := plaidTransaction(txn)
	assert.Equal(t, 450.0, mapped.Amount)
	assert.Equal(t, "expense", mapped.Type)
	assert.Equal(t, "Food", mapped.Category)
	assert.Equal(t, "Plaid", mapped.Source)
	assert.Equal(t, time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC), mapped.Date)
	require.NotNil(t, mapped.TransactionID)
	assert.Equal(t, "txn-9", *mapped.TransactionID)

	txn.SetAmount(-900)
	txn.SetName("SALARY CREDIT")
	mapped = plaidTransaction(txn)
	assert.Equal(t, "income", mapped.Type)
	assert.Equal(t, "Other", mapped.Category)
}
