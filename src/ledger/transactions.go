package ledger

import (
	"context"
	"fmt"
	"time"

	"pfm-server/src/models"
	"pfm-server/src/money"
)

// CreateTransaction validates the request, applies its effect to the
// referenced balances/sums, and persists the row — all in one database
// transaction, so a failure at any step leaves no partial state.
func (s *Service) CreateTransaction(ctx context.Context, actor int64, req *models.TransactionRequest) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		if err := validateTransaction(ctx, st, actor, req); err != nil {
			return err
		}
		t := transactionFromRequest(actor, req)
		if err := apply(ctx, st, t); err != nil {
			return err
		}
		created, err := st.InsertTransaction(ctx, t)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateTransaction validates the new values BEFORE reversing the old
// effect. Reversing first would lose the old effect when the new data
// turns out invalid, silently corrupting the ledger.
func (s *Service) UpdateTransaction(ctx context.Context, actor, id int64, req *models.TransactionRequest) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		existing, err := st.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != actor {
			return fmt.Errorf("%w: transaction %d", ErrForbidden, id)
		}
		if err := validateTransaction(ctx, st, actor, req); err != nil {
			return err
		}
		if err := reverse(ctx, st, existing); err != nil {
			return err
		}
		updated := transactionFromRequest(actor, req)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if err := apply(ctx, st, updated); err != nil {
			return err
		}
		if err := st.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		out = updated
		return nil
	})
	return out, err
}

// DeleteTransaction reverses the effect and removes the row, returning
// the pre-deletion snapshot. Unlike accounts this is a hard delete.
func (s *Service) DeleteTransaction(ctx context.Context, actor, id int64) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		existing, err := st.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if existing.UserID != actor {
			return fmt.Errorf("%w: transaction %d", ErrForbidden, id)
		}
		if err := reverse(ctx, st, existing); err != nil {
			return err
		}
		if err := st.DeleteTransaction(ctx, id); err != nil {
			return err
		}
		out = existing
		return nil
	})
	return out, err
}

func (s *Service) GetTransaction(ctx context.Context, actor, id int64) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		t, err := st.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if t.UserID != actor {
			return fmt.Errorf("%w: transaction %d", ErrForbidden, id)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *Service) ListTransactions(ctx context.Context, actor int64) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		list, err := st.ListTransactions(ctx, actor)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

func (s *Service) ListTransactionsByAccount(ctx context.Context, actor, accountID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		a, err := st.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if a.UserID != actor {
			return fmt.Errorf("%w: account %d", ErrForbidden, accountID)
		}
		list, err := st.ListTransactionsByAccount(ctx, actor, accountID)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

// ApplyBalanceSync reconciles an account to an externally observed
// balance by synthesizing an income or expense transaction against the
// owner's system category. A zero delta creates nothing and returns nil.
func (s *Service) ApplyBalanceSync(ctx context.Context, actor, accountID int64, newBalance money.Money) (*models.Transaction, error) {
	var out *models.Transaction
	err := s.store.InTx(ctx, func(st StoreTx) error {
		a, err := st.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if a.UserID != actor {
			return fmt.Errorf("%w: account %d", ErrForbidden, accountID)
		}

		delta := newBalance - a.Balance
		if delta == 0 {
			return nil
		}

		req := &models.TransactionRequest{
			Date:        time.Now(),
			Description: "Balance sync adjustment",
		}
		if delta > 0 {
			sys, err := st.GetSystemCategory(ctx, actor, models.CategoryIncome)
			if err != nil {
				return err
			}
			req.FromType = models.EntityCategory
			req.FromID = sys.ID
			req.ToType = models.EntityAccount
			req.ToID = accountID
			req.Amount = delta
		} else {
			sys, err := st.GetSystemCategory(ctx, actor, models.CategoryExpenses)
			if err != nil {
				return err
			}
			req.FromType = models.EntityAccount
			req.FromID = accountID
			req.ToType = models.EntityCategory
			req.ToID = sys.ID
			req.Amount = -delta
		}

		if err := validateTransaction(ctx, st, actor, req); err != nil {
			return err
		}
		t := transactionFromRequest(actor, req)
		if err := apply(ctx, st, t); err != nil {
			return err
		}
		created, err := st.InsertTransaction(ctx, t)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

func transactionFromRequest(actor int64, req *models.TransactionRequest) *models.Transaction {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}
	return &models.Transaction{
		UserID:      actor,
		Date:        date,
		FromType:    req.FromType,
		FromID:      req.FromID,
		ToType:      req.ToType,
		ToID:        req.ToID,
		Amount:      req.Amount,
		Description: req.Description,
		Recurrence:  req.Recurrence,
		AutoExecute: req.AutoExecute,
	}
}
