package ledger

import (
	"context"
	"errors"
	"fmt"

	"pfm-server/src/models"
)

// validateTransaction is the gate every proposed transaction passes
// before any balance or sum is touched. Rules, in order:
//
//  1. amount must be positive
//  2. the (from, to) type pair must be one of the three legal shapes
//  3. both endpoints must exist and belong to actor
//  4. accounts must be ACTIVATED to participate
//  5. income must draw from an INCOME category
//  6. expense must sink into an EXPENSES category
//  7. a transfer requires the source balance to cover the amount
//
// The expense shape deliberately has no balance floor: an expense may
// drive an account negative.
func validateTransaction(ctx context.Context, st StoreTx, actor int64, req *models.TransactionRequest) error {
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidData)
	}

	shape := shapeOf(req.FromType, req.ToType)
	if shape == ShapeInvalid {
		return fmt.Errorf("%w: illegal from-to pair %s -> %s", ErrInvalidData, req.FromType, req.ToType)
	}

	switch shape {
	case ShapeIncome:
		cat, err := resolveCategory(ctx, st, actor, req.FromID)
		if err != nil {
			return err
		}
		if cat.Type != models.CategoryIncome {
			return fmt.Errorf("%w: income must come from an INCOME category", ErrInvalidData)
		}
		if _, err := resolveAccount(ctx, st, actor, req.ToID); err != nil {
			return err
		}

	case ShapeExpense:
		if _, err := resolveAccount(ctx, st, actor, req.FromID); err != nil {
			return err
		}
		cat, err := resolveCategory(ctx, st, actor, req.ToID)
		if err != nil {
			return err
		}
		if cat.Type != models.CategoryExpenses {
			return fmt.Errorf("%w: expense must go to an EXPENSES category", ErrInvalidData)
		}

	case ShapeTransfer:
		from, err := resolveAccount(ctx, st, actor, req.FromID)
		if err != nil {
			return err
		}
		if _, err := resolveAccount(ctx, st, actor, req.ToID); err != nil {
			return err
		}
		if from.Balance < req.Amount {
			return fmt.Errorf("%w: insufficient funds for transfer", ErrInvalidData)
		}
	}

	return nil
}

// resolveAccount loads an account endpoint and enforces ownership and
// activation. A missing account is a gate failure, not a bare NotFound.
func resolveAccount(ctx context.Context, st StoreTx, actor, id int64) (*models.Account, error) {
	a, err := st.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: account %d does not exist", ErrInvalidData, id)
		}
		return nil, err
	}
	if a.UserID != actor {
		return nil, fmt.Errorf("%w: account %d", ErrForbidden, id)
	}
	if a.Status != models.AccountActivated {
		return nil, fmt.Errorf("%w: account %d is not activated", ErrInvalidData, id)
	}
	return a, nil
}

func resolveCategory(ctx context.Context, st StoreTx, actor, id int64) (*models.Category, error) {
	c, err := st.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", ErrInvalidData, id)
		}
		return nil, err
	}
	if c.UserID != actor {
		return nil, fmt.Errorf("%w: category %d", ErrForbidden, id)
	}
	return c, nil
}
