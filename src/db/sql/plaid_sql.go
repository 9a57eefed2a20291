package db

import (
	"context"
	"errors"

	"pfm-server/src/ledger"
	"pfm-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func SavePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID int64, itemID, accessToken, institutionName string) error {
	query := `
		INSERT INTO plaid_items (user_id, item_id, access_token, institution_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id) DO NOTHING
	`
	_, err := pool.Exec(ctx, query, userID, itemID, accessToken, institutionName)
	return err
}

func GetPlaidItems(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.PlaidItem, error) {
	query := `SELECT id, user_id, item_id, access_token, institution_name, created_at FROM plaid_items WHERE user_id = $1`

	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PlaidItem
	for rows.Next() {
		var item models.PlaidItem
		err := rows.Scan(&item.ID, &item.UserID, &item.ItemID, &item.AccessToken, &item.InstitutionName, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func GetPlaidAccessToken(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64) (string, error) {
	query := `SELECT access_token FROM plaid_items WHERE user_id = $1 AND id = $2`
	var accessToken string
	err := pool.QueryRow(ctx, query, userID, itemID).Scan(&accessToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ledger.ErrNotFound
		}
		return "", err
	}
	return accessToken, nil
}

func DeletePlaidItem(ctx context.Context, pool *pgxpool.Pool, userID, itemID int64) error {
	query := `DELETE FROM plaid_items WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
