package db

import (
	"context"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (category, amount, month)
		VALUES ($1, $2, $3)
		RETURNING id, category, amount, month, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.Category, budget.Amount, budget.Month).
		Scan(&b.ID, &b.Category, &b.Amount, &b.Month, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func GetAllBudgets(ctx context.Context, pool *pgxpool.Pool) ([]models.Budget, error) {
	query := `
		SELECT id, category, amount, month, created_at, updated_at
		FROM budgets
		ORDER BY month DESC, category
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Month, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
