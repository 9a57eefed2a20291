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

const categoryColumns = `id, user_id, name, type, sum_cents, spending_limit, is_system, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	var sum int64
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &sum, &c.Limit, &c.System, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Sum = money.Money(sum)
	return &c, nil
}

func GetCategory(ctx context.Context, q Querier, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(q.QueryRow(ctx, query, id))
}

func GetCategoryByName(ctx context.Context, q Querier, userID int64, name string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`
	return scanCategory(q.QueryRow(ctx, query, userID, name))
}

func GetSystemCategory(ctx context.Context, q Querier, userID int64, catType models.CategoryType) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND type = $2 AND is_system`
	return scanCategory(q.QueryRow(ctx, query, userID, catType))
}

// ListCategories returns user categories only; the hidden system pair
// never shows up in listings.
func ListCategories(ctx context.Context, q Querier, userID int64) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND NOT is_system
		ORDER BY id
	`
	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func InsertCategory(ctx context.Context, q Querier, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, sum_cents, spending_limit, is_system)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	return scanCategory(q.QueryRow(ctx, query, c.UserID, c.Name, c.Type, int64(c.Sum), c.Limit, c.System))
}

func UpdateCategory(ctx context.Context, q Querier, c *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, spending_limit = $2, updated_at = NOW()
		WHERE id = $3
	`
	cmd, err := q.Exec(ctx, query, c.Name, c.Limit, c.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func DeleteCategory(ctx context.Context, q Querier, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`
	cmd, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// AddToSum mirrors AddToBalance: one atomic delta statement.
func AddToSum(ctx context.Context, q Querier, id int64, delta int64) error {
	query := `UPDATE categories SET sum_cents = sum_cents + $1, updated_at = NOW() WHERE id = $2`
	cmd, err := q.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
