package ledger

import (
	"context"

	"pfm-server/src/models"
)

// Store is the persistence collaborator. InTx runs fn inside one
// database transaction; if fn returns an error every write staged
// through the StoreTx rolls back.
type Store interface {
	InTx(ctx context.Context, fn func(StoreTx) error) error
}

// StoreTx is the per-entity CRUD contract the service and engine work
// against within a transaction. Lookups return ErrNotFound for missing
// ids; ownership is checked by the caller, not here.
type StoreTx interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)
	InsertAccount(ctx context.Context, a *models.Account) (*models.Account, error)
	UpdateAccount(ctx context.Context, a *models.Account) error
	SetAccountStatus(ctx context.Context, id int64, status models.AccountStatus) error
	AddToBalance(ctx context.Context, id int64, delta int64) error

	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, userID int64, name string) (*models.Category, error)
	GetSystemCategory(ctx context.Context, userID int64, catType models.CategoryType) (*models.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	InsertCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	AddToSum(ctx context.Context, id int64, delta int64) error

	GetTransaction(ctx context.Context, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, userID, accountID int64) ([]models.Transaction, error)
	InsertTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
}

// Service holds every ledger operation. The acting user is always an
// explicit parameter; there is no ambient session.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}
