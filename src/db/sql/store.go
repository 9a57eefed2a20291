package db

import (
	"context"

	"pfm-server/src/ledger"
	"pfm-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements ledger.Store over a pgx pool. Every ledger operation
// runs inside one read-committed transaction begun here.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(ledger.StoreTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// txStore adapts the free query functions below to ledger.StoreTx.
type txStore struct {
	q Querier
}

func (t *txStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return GetAccount(ctx, t.q, id)
}

func (t *txStore) GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error) {
	return GetAccountByName(ctx, t.q, userID, name)
}

func (t *txStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	return ListAccounts(ctx, t.q, userID)
}

func (t *txStore) InsertAccount(ctx context.Context, a *models.Account) (*models.Account, error) {
	return InsertAccount(ctx, t.q, a)
}

func (t *txStore) UpdateAccount(ctx context.Context, a *models.Account) error {
	return UpdateAccount(ctx, t.q, a)
}

func (t *txStore) SetAccountStatus(ctx context.Context, id int64, status models.AccountStatus) error {
	return SetAccountStatus(ctx, t.q, id, status)
}

func (t *txStore) AddToBalance(ctx context.Context, id int64, delta int64) error {
	return AddToBalance(ctx, t.q, id, delta)
}

func (t *txStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return GetCategory(ctx, t.q, id)
}

func (t *txStore) GetCategoryByName(ctx context.Context, userID int64, name string) (*models.Category, error) {
	return GetCategoryByName(ctx, t.q, userID, name)
}

func (t *txStore) GetSystemCategory(ctx context.Context, userID int64, catType models.CategoryType) (*models.Category, error) {
	return GetSystemCategory(ctx, t.q, userID, catType)
}

func (t *txStore) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	return ListCategories(ctx, t.q, userID)
}

func (t *txStore) InsertCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	return InsertCategory(ctx, t.q, c)
}

func (t *txStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	return UpdateCategory(ctx, t.q, c)
}

func (t *txStore) DeleteCategory(ctx context.Context, id int64) error {
	return DeleteCategory(ctx, t.q, id)
}

func (t *txStore) AddToSum(ctx context.Context, id int64, delta int64) error {
	return AddToSum(ctx, t.q, id, delta)
}

func (t *txStore) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return GetTransaction(ctx, t.q, id)
}

func (t *txStore) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return ListTransactions(ctx, t.q, userID)
}

func (t *txStore) ListTransactionsByAccount(ctx context.Context, userID, accountID int64) ([]models.Transaction, error) {
	return ListTransactionsByAccount(ctx, t.q, userID, accountID)
}

func (t *txStore) InsertTransaction(ctx context.Context, tr *models.Transaction) (*models.Transaction, error) {
	return InsertTransaction(ctx, t.q, tr)
}

func (t *txStore) UpdateTransaction(ctx context.Context, tr *models.Transaction) error {
	return UpdateTransaction(ctx, t.q, tr)
}

func (t *txStore) DeleteTransaction(ctx context.Context, id int64) error {
	return DeleteTransaction(ctx, t.q, id)
}
