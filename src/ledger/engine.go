package ledger

import (
	"context"
	"fmt"

	"pfm-server/src/models"
)

// effect is one signed delta against one endpoint. Account refs hit the
// balance, category refs hit the period sum.
type effect struct {
	entityType models.EntityType
	entityID   int64
	delta      int64
}

// effects expands a transaction into its per-endpoint deltas. dir is +1
// to apply and -1 to reverse, so reverse(apply(t)) is an exact inverse.
func effects(t *models.Transaction, dir int64) []effect {
	amt := int64(t.Amount) * dir
	switch shapeOf(t.FromType, t.ToType) {
	case ShapeIncome:
		return []effect{
			{models.EntityAccount, t.ToID, amt},
			{models.EntityCategory, t.FromID, amt},
		}
	case ShapeExpense:
		return []effect{
			{models.EntityAccount, t.FromID, -amt},
			{models.EntityCategory, t.ToID, amt},
		}
	case ShapeTransfer:
		return []effect{
			{models.EntityAccount, t.FromID, -amt},
			{models.EntityAccount, t.ToID, amt},
		}
	}
	return nil
}

// applyEffects writes a transaction's deltas through the store. The
// gate has already run; this is blind dispatch, no re-validation.
func applyEffects(ctx context.Context, st StoreTx, t *models.Transaction, dir int64) error {
	for _, e := range effects(t, dir) {
		var err error
		switch e.entityType {
		case models.EntityAccount:
			err = st.AddToBalance(ctx, e.entityID, e.delta)
		case models.EntityCategory:
			err = st.AddToSum(ctx, e.entityID, e.delta)
		default:
			err = fmt.Errorf("%w: unknown entity type %s", ErrInvalidData, e.entityType)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, st StoreTx, t *models.Transaction) error {
	return applyEffects(ctx, st, t, 1)
}

func reverse(ctx context.Context, st StoreTx, t *models.Transaction) error {
	return applyEffects(ctx, st, t, -1)
}
