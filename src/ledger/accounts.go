package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pfm-server/src/models"
	"pfm-server/src/util"
)

// CreateAccount creates an ACTIVATED account. The name must not collide
// with another non-deleted account of the same owner (exact match).
func (s *Service) CreateAccount(ctx context.Context, actor int64, req *models.AccountRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if !util.ValidateResourceName(name) {
		return nil, fmt.Errorf("%w: account name must be 1-100 characters", ErrInvalidData)
	}
	var out *models.Account
	err := s.store.InTx(ctx, func(st StoreTx) error {
		if err := checkAccountName(ctx, st, actor, name, 0); err != nil {
			return err
		}
		created, err := st.InsertAccount(ctx, &models.Account{
			UserID:  actor,
			Name:    name,
			Balance: req.Balance,
			Goal:    req.Goal,
			Status:  models.AccountActivated,
		})
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateAccount renames an account and/or changes its goal. The balance
// is never set here; only the engine mutates balances.
func (s *Service) UpdateAccount(ctx context.Context, actor, id int64, req *models.AccountRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if !util.ValidateResourceName(name) {
		return nil, fmt.Errorf("%w: account name must be 1-100 characters", ErrInvalidData)
	}
	var out *models.Account
	err := s.store.InTx(ctx, func(st StoreTx) error {
		a, err := s.ownedAccount(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if a.Status == models.AccountDeleted {
			return fmt.Errorf("%w: account %d is deleted", ErrStateConflict, id)
		}
		if err := checkAccountName(ctx, st, actor, name, id); err != nil {
			return err
		}
		a.Name = name
		a.Goal = req.Goal
		if err := st.UpdateAccount(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

func (s *Service) GetAccount(ctx context.Context, actor, id int64) (*models.Account, error) {
	var out *models.Account
	err := s.store.InTx(ctx, func(st StoreTx) error {
		a, err := s.ownedAccount(ctx, st, actor, id)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// ListAccounts returns the actor's accounts, soft-deleted rows excluded.
func (s *Service) ListAccounts(ctx context.Context, actor int64) ([]models.Account, error) {
	var out []models.Account
	err := s.store.InTx(ctx, func(st StoreTx) error {
		list, err := st.ListAccounts(ctx, actor)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

func (s *Service) ActivateAccount(ctx context.Context, actor, id int64) error {
	return s.setAccountStatus(ctx, actor, id, models.AccountActivated)
}

func (s *Service) DeactivateAccount(ctx context.Context, actor, id int64) error {
	return s.setAccountStatus(ctx, actor, id, models.AccountDeactivated)
}

func (s *Service) setAccountStatus(ctx context.Context, actor, id int64, status models.AccountStatus) error {
	return s.store.InTx(ctx, func(st StoreTx) error {
		a, err := s.ownedAccount(ctx, st, actor, id)
		if err != nil {
			return err
		}
		// DELETED is terminal.
		if a.Status == models.AccountDeleted {
			return fmt.Errorf("%w: account %d is deleted", ErrStateConflict, id)
		}
		return st.SetAccountStatus(ctx, id, status)
	})
}

// DeleteAccount soft-deletes. Only a zero-balance account may be
// deleted; the row stays behind so past transactions keep resolving.
func (s *Service) DeleteAccount(ctx context.Context, actor, id int64) error {
	return s.store.InTx(ctx, func(st StoreTx) error {
		a, err := s.ownedAccount(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if a.Status == models.AccountDeleted {
			return fmt.Errorf("%w: account %d is already deleted", ErrStateConflict, id)
		}
		if a.Balance != 0 {
			return fmt.Errorf("%w: account %d has a nonzero balance", ErrStateConflict, id)
		}
		return st.SetAccountStatus(ctx, id, models.AccountDeleted)
	})
}

func (s *Service) ownedAccount(ctx context.Context, st StoreTx, actor, id int64) (*models.Account, error) {
	a, err := st.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != actor {
		return nil, fmt.Errorf("%w: account %d", ErrForbidden, id)
	}
	return a, nil
}

// checkAccountName enforces per-owner uniqueness against non-deleted
// accounts. selfID skips the account being renamed.
func checkAccountName(ctx context.Context, st StoreTx, actor int64, name string, selfID int64) error {
	existing, err := st.GetAccountByName(ctx, actor, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: account %q", ErrNameConflict, name)
	}
	return nil
}
