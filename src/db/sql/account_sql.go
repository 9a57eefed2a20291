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

const accountColumns = `id, user_id, name, balance_cents, goal_cents, status, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	var balance int64
	var goal *int64
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &balance, &goal, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.Balance = money.Money(balance)
	if goal != nil {
		g := money.Money(*goal)
		a.Goal = &g
	}
	return &a, nil
}

func GetAccount(ctx context.Context, q Querier, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(q.QueryRow(ctx, query, id))
}

// GetAccountByName matches non-deleted accounts only; a soft-deleted
// account does not block reuse of its name.
func GetAccountByName(ctx context.Context, q Querier, userID int64, name string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND name = $2 AND status <> 'DELETED'`
	return scanAccount(q.QueryRow(ctx, query, userID, name))
}

func ListAccounts(ctx context.Context, q Querier, userID int64) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND status <> 'DELETED'
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func InsertAccount(ctx context.Context, q Querier, a *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, balance_cents, goal_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns
	var goal *int64
	if a.Goal != nil {
		g := int64(*a.Goal)
		goal = &g
	}
	return scanAccount(q.QueryRow(ctx, query, a.UserID, a.Name, int64(a.Balance), goal, a.Status))
}

func UpdateAccount(ctx context.Context, q Querier, a *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, goal_cents = $2, updated_at = NOW()
		WHERE id = $3
	`
	var goal *int64
	if a.Goal != nil {
		g := int64(*a.Goal)
		goal = &g
	}
	cmd, err := q.Exec(ctx, query, a.Name, goal, a.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func SetAccountStatus(ctx context.Context, q Querier, id int64, status models.AccountStatus) error {
	query := `UPDATE accounts SET status = $1, updated_at = NOW() WHERE id = $2`
	cmd, err := q.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// AddToBalance is a single atomic delta statement, never a read followed
// by a write, so concurrent mutations of the same account cannot lose an
// update.
func AddToBalance(ctx context.Context, q Querier, id int64, delta int64) error {
	query := `UPDATE accounts SET balance_cents = balance_cents + $1, updated_at = NOW() WHERE id = $2`
	cmd, err := q.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
