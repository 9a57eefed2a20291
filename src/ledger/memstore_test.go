package ledger

import (
	"context"
	"sort"
	"time"

	"pfm-server/src/models"
	"pfm-server/src/money"
)

// memStore is an in-memory Store for exercising the service without a
// database. InTx snapshots the state up front and restores it when fn
// fails, matching the rollback the real store gets from Postgres.
type memStore struct {
	accounts     map[int64]*models.Account
	categories   map[int64]*models.Category
	transactions map[int64]*models.Transaction
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     make(map[int64]*models.Account),
		categories:   make(map[int64]*models.Category),
		transactions: make(map[int64]*models.Transaction),
	}
}

func (m *memStore) snapshot() (map[int64]*models.Account, map[int64]*models.Category, map[int64]*models.Transaction, int64) {
	accounts := make(map[int64]*models.Account, len(m.accounts))
	for id, a := range m.accounts {
		cp := *a
		accounts[id] = &cp
	}
	categories := make(map[int64]*models.Category, len(m.categories))
	for id, c := range m.categories {
		cp := *c
		categories[id] = &cp
	}
	transactions := make(map[int64]*models.Transaction, len(m.transactions))
	for id, t := range m.transactions {
		cp := *t
		transactions[id] = &cp
	}
	return accounts, categories, transactions, m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(StoreTx) error) error {
	accounts, categories, transactions, nextID := m.snapshot()
	if err := fn(&memTx{store: m}); err != nil {
		m.accounts = accounts
		m.categories = categories
		m.transactions = transactions
		m.nextID = nextID
		return err
	}
	return nil
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// memTx hands out copies the way row scans do, so callers never mutate
// stored state except through the write methods.
type memTx struct {
	store *memStore
}

func (tx *memTx) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	a, ok := tx.store.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (tx *memTx) GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error) {
	for _, a := range tx.store.accounts {
		if a.UserID == userID && a.Name == name && a.Status != models.AccountDeleted {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *memTx) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	var out []models.Account
	for _, a := range tx.store.accounts {
		if a.UserID == userID && a.Status != models.AccountDeleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) InsertAccount(ctx context.Context, a *models.Account) (*models.Account, error) {
	cp := *a
	cp.ID = tx.store.id()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	tx.store.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (tx *memTx) UpdateAccount(ctx context.Context, a *models.Account) error {
	existing, ok := tx.store.accounts[a.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = a.Name
	existing.Goal = a.Goal
	existing.UpdatedAt = time.Now()
	return nil
}

func (tx *memTx) SetAccountStatus(ctx context.Context, id int64, status models.AccountStatus) error {
	a, ok := tx.store.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (tx *memTx) AddToBalance(ctx context.Context, id int64, delta int64) error {
	a, ok := tx.store.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.Balance += money.Money(delta)
	a.UpdatedAt = time.Now()
	return nil
}

func (tx *memTx) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, ok := tx.store.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (tx *memTx) GetCategoryByName(ctx context.Context, userID int64, name string) (*models.Category, error) {
	for _, c := range tx.store.categories {
		if c.UserID == userID && c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *memTx) GetSystemCategory(ctx context.Context, userID int64, catType models.CategoryType) (*models.Category, error) {
	for _, c := range tx.store.categories {
		if c.UserID == userID && c.Type == catType && c.System {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *memTx) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	var out []models.Category
	for _, c := range tx.store.categories {
		if c.UserID == userID && !c.System {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) InsertCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	cp := *c
	cp.ID = tx.store.id()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	tx.store.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (tx *memTx) UpdateCategory(ctx context.Context, c *models.Category) error {
	existing, ok := tx.store.categories[c.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = c.Name
	existing.Limit = c.Limit
	existing.UpdatedAt = time.Now()
	return nil
}

func (tx *memTx) DeleteCategory(ctx context.Context, id int64) error {
	if _, ok := tx.store.categories[id]; !ok {
		return ErrNotFound
	}
	delete(tx.store.categories, id)
	return nil
}

func (tx *memTx) AddToSum(ctx context.Context, id int64, delta int64) error {
	c, ok := tx.store.categories[id]
	if !ok {
		return ErrNotFound
	}
	c.Sum += money.Money(delta)
	c.UpdatedAt = time.Now()
	return nil
}

func (tx *memTx) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	t, ok := tx.store.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (tx *memTx) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range tx.store.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (tx *memTx) ListTransactionsByAccount(ctx context.Context, userID, accountID int64) ([]models.Transaction, error) {
	all, err := tx.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, t := range all {
		fromHit := t.FromType == models.EntityAccount && t.FromID == accountID
		toHit := t.ToType == models.EntityAccount && t.ToID == accountID
		if fromHit || toHit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (tx *memTx) InsertTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	cp := *t
	cp.ID = tx.store.id()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	tx.store.transactions[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (tx *memTx) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	if _, ok := tx.store.transactions[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	cp.UpdatedAt = time.Now()
	tx.store.transactions[t.ID] = &cp
	return nil
}

func (tx *memTx) DeleteTransaction(ctx context.Context, id int64) error {
	if _, ok := tx.store.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(tx.store.transactions, id)
	return nil
}
