package db

import (
	"context"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func SavePlaidItem(ctx context.Context, pool *pgxpool.Pool, itemID, accessToken, institutionName string) error {
	query := `
		INSERT INTO plaid_items (item_id, access_token, institution_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO UPDATE SET access_token = EXCLUDED.access_token
	`
	_, err := pool.Exec(ctx, query, itemID, accessToken, institutionName)
	return err
}

func GetPlaidItems(ctx context.Context, pool *pgxpool.Pool) ([]models.PlaidItem, error) {
	query := `SELECT id, item_id, access_token, institution_name, sync_cursor, created_at FROM plaid_items`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PlaidItem
	for rows.Next() {
		var item models.PlaidItem
		err := rows.Scan(&item.ID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func GetPlaidItemByItemID(ctx context.Context, pool *pgxpool.Pool, itemID string) (*models.PlaidItem, error) {
	query := `SELECT id, item_id, access_token, institution_name, sync_cursor, created_at FROM plaid_items WHERE item_id = $1`
	var item models.PlaidItem
	err := pool.QueryRow(ctx, query, itemID).
		Scan(&item.ID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.SyncCursor, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateSyncCursor(ctx context.Context, pool *pgxpool.Pool, itemID, cursor string) error {
	query := `UPDATE plaid_items SET sync_cursor = $1 WHERE item_id = $2`
	_, err := pool.Exec(ctx, query, cursor, itemID)
	return err
}

func DeletePlaidItem(ctx context.Context, pool *pgxpool.Pool, itemID string) error {
	query := `DELETE FROM plaid_items WHERE item_id = $1`
	cmd, err := pool.Exec(ctx, query, itemID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
