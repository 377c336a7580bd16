package db

import (
	"context"
	"errors"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, amount, date, description, category, source, type, account_id, transaction_id, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Amount, &t.Date, &t.Description, &t.Category,
		&t.Source, &t.Type, &t.AccountID, &t.TransactionID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (amount, date, description, category, source, type, account_id, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns
	return scanTransaction(pool.QueryRow(ctx, query,
		t.Amount, t.Date, t.Description, t.Category, t.Source, t.Type, t.AccountID, t.TransactionID))
}

func GetAllTransactions(ctx context.Context, pool *pgxpool.Pool) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, id DESC`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET amount = $1, date = $2, description = $3, category = $4, source = $5, type = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + transactionColumns
	return scanTransaction(pool.QueryRow(ctx, query,
		t.Amount, t.Date, t.Description, t.Category, t.Source, t.Type, t.ID))
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, transactionID int) error {
	query := `DELETE FROM transactions WHERE id = $1`
	cmd, err := pool.Exec(ctx, query, transactionID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpsertSMSTransaction stores an SMS-derived transaction keyed on
// (description, date, amount) so re-processing the same SMS never creates a
// duplicate. The key is weak: two genuinely distinct transactions with the
// same description, date and amount will collapse into one row.
func UpsertSMSTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) (*models.Transaction, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	update := `
		UPDATE transactions
		SET category = $1, source = $2, type = $3, updated_at = NOW()
		WHERE description = $4 AND date = $5::date AND amount = $6
		RETURNING ` + transactionColumns
	stored, err := scanTransaction(tx.QueryRow(ctx, update,
		t.Category, t.Source, t.Type, t.Description, t.Date, t.Amount))
	if errors.Is(err, pgx.ErrNoRows) {
		insert := `
			INSERT INTO transactions (amount, date, description, category, source, type)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + transactionColumns
		stored, err = scanTransaction(tx.QueryRow(ctx, insert,
			t.Amount, t.Date, t.Description, t.Category, t.Source, t.Type))
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// DeleteTransactionByExternalID drops a transaction the provider has
// retracted. A missing row is fine: the retraction may arrive before the
// transaction was ever synced.
func DeleteTransactionByExternalID(ctx context.Context, pool *pgxpool.Pool, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1`
	_, err := pool.Exec(ctx, query, transactionID)
	return err
}

// UpsertExternalTransaction stores an externally synced transaction keyed on
// its provider transaction_id.
func UpsertExternalTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (amount, date, description, category, source, type, account_id, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (transaction_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			type = EXCLUDED.type,
			updated_at = NOW()
		RETURNING ` + transactionColumns
	return scanTransaction(pool.QueryRow(ctx, query,
		t.Amount, t.Date, t.Description, t.Category, t.Source, t.Type, t.AccountID, t.TransactionID))
}
