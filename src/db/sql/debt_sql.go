package db

import (
	"context"

	"fintrack-server/src/ledger"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const debtColumns = `id, person_name, total_amount, notes, created_at, updated_at`

func scanDebt(row pgx.Row) (*models.Debt, error) {
	var d models.Debt
	err := row.Scan(&d.ID, &d.PersonName, &d.TotalAmount, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func CreateDebt(ctx context.Context, pool *pgxpool.Pool, debt *models.Debt) (*models.Debt, error) {
	query := `
		INSERT INTO debts (person_name, notes)
		VALUES ($1, $2)
		RETURNING ` + debtColumns
	return scanDebt(pool.QueryRow(ctx, query, debt.PersonName, debt.Notes))
}

func GetAllDebts(ctx context.Context, pool *pgxpool.Pool) ([]models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts ORDER BY person_name`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *d)
	}
	return debts, rows.Err()
}

func GetDebtByID(ctx context.Context, pool *pgxpool.Pool, debtID int) (*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1`
	return scanDebt(pool.QueryRow(ctx, query, debtID))
}

// UpdateDebt changes name and notes only. total_amount is derived state and
// is never written outside the ledger functions below.
func UpdateDebt(ctx context.Context, pool *pgxpool.Pool, debt *models.Debt) (*models.Debt, error) {
	query := `
		UPDATE debts
		SET person_name = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + debtColumns
	return scanDebt(pool.QueryRow(ctx, query, debt.PersonName, debt.Notes, debt.ID))
}

// DeleteDebtCascade removes a debt and every ledger entry that references it
// in one transaction, so readers never observe orphaned entries.
func DeleteDebtCascade(ctx context.Context, pool *pgxpool.Pool, debtID int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM debt_transactions WHERE debt_id = $1`, debtID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM debts WHERE id = $1`, debtID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// AppendDebtTransaction persists a new ledger entry and moves the owning
// debt's total_amount by the entry's signed effect. Both writes happen in one
// transaction. The debt is locked first, so a missing debt surfaces as
// pgx.ErrNoRows here rather than as an FK violation on the insert, and the
// row lock serializes concurrent mutations against the same debt.
func AppendDebtTransaction(ctx context.Context, pool *pgxpool.Pool, entry *models.DebtTransaction) (*models.Debt, *models.DebtTransaction, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	var lockedID int
	if err := tx.QueryRow(ctx, `SELECT id FROM debts WHERE id = $1 FOR UPDATE`, entry.DebtID).Scan(&lockedID); err != nil {
		return nil, nil, err
	}

	insert := `
		INSERT INTO debt_transactions (debt_id, amount, description, date, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, debt_id, amount, description, date, type, created_at
	`
	var e models.DebtTransaction
	err = tx.QueryRow(ctx, insert, entry.DebtID, entry.Amount, entry.Description, entry.Date, entry.Type).
		Scan(&e.ID, &e.DebtID, &e.Amount, &e.Description, &e.Date, &e.Type, &e.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	update := `
		UPDATE debts
		SET total_amount = total_amount + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + debtColumns
	debt, err := scanDebt(tx.QueryRow(ctx, update, ledger.SignedEffect(e.Type, e.Amount), e.DebtID))
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return debt, &e, nil
}

// DeleteDebtTransaction removes one ledger entry and reverses the exact
// effect it applied when appended, using the stored row's own type and
// amount.
func DeleteDebtTransaction(ctx context.Context, pool *pgxpool.Pool, debtID, entryID int) (*models.Debt, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	del := `
		DELETE FROM debt_transactions
		WHERE id = $1 AND debt_id = $2
		RETURNING amount, type
	`
	var amount float64
	var entryType ledger.EntryType
	if err := tx.QueryRow(ctx, del, entryID, debtID).Scan(&amount, &entryType); err != nil {
		return nil, err
	}

	update := `
		UPDATE debts
		SET total_amount = total_amount - $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + debtColumns
	debt, err := scanDebt(tx.QueryRow(ctx, update, ledger.SignedEffect(entryType, amount), debtID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return debt, nil
}

func GetDebtTransactions(ctx context.Context, pool *pgxpool.Pool, debtID int) ([]models.DebtTransaction, error) {
	query := `
		SELECT id, debt_id, amount, description, date, type, created_at
		FROM debt_transactions
		WHERE debt_id = $1
		ORDER BY date DESC, id DESC
	`
	rows, err := pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DebtTransaction
	for rows.Next() {
		var e models.DebtTransaction
		err := rows.Scan(&e.ID, &e.DebtID, &e.Amount, &e.Description, &e.Date, &e.Type, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
