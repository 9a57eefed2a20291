package db

import (
	"context"
	"errors"
	"fmt"

	"pfm-server/src/ledger"
	"pfm-server/src/models"
	"pfm-server/src/money"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, user_id, date, from_type, from_id, to_type, to_id, amount_cents, description, recurrence, auto_execute, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	var amount int64
	err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.FromType, &t.FromID, &t.ToType, &t.ToID,
		&amount, &t.Description, &t.Recurrence, &t.AutoExecute, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.Amount = money.Money(amount)
	return &t, nil
}

func GetTransaction(ctx context.Context, q Querier, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(q.QueryRow(ctx, query, id))
}

func ListTransactions(ctx context.Context, q Querier, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListTransactionsByAccount matches either endpoint of the polymorphic
// reference, but only where the endpoint is tagged ACCOUNT.
func ListTransactionsByAccount(ctx context.Context, q Querier, userID, accountID int64) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ((from_type = 'ACCOUNT' AND from_id = $2) OR (to_type = 'ACCOUNT' AND to_id = $2))
		ORDER BY date DESC, id DESC
	`
	rows, err := q.Query(ctx, query, userID, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
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

func InsertTransaction(ctx context.Context, q Querier, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, date, from_type, from_id, to_type, to_id, amount_cents, description, recurrence, auto_execute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns
	return scanTransaction(q.QueryRow(ctx, query,
		t.UserID, t.Date, t.FromType, t.FromID, t.ToType, t.ToID,
		int64(t.Amount), t.Description, t.Recurrence, t.AutoExecute))
}

func UpdateTransaction(ctx context.Context, q Querier, t *models.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, from_type = $2, from_id = $3, to_type = $4, to_id = $5,
		    amount_cents = $6, description = $7, recurrence = $8, auto_execute = $9, updated_at = NOW()
		WHERE id = $10
	`
	cmd, err := q.Exec(ctx, query,
		t.Date, t.FromType, t.FromID, t.ToType, t.ToID,
		int64(t.Amount), t.Description, t.Recurrence, t.AutoExecute, t.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func DeleteTransaction(ctx context.Context, q Querier, id int64) error {
	query := `DELETE FROM transactions WHERE id = $1`
	cmd, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
