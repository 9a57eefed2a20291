package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pfm-server/src/models"
	"pfm-server/src/util"
)

func (s *Service) CreateCategory(ctx context.Context, actor int64, req *models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if err := checkCategoryRequest(name, req.Type); err != nil {
		return nil, err
	}
	var out *models.Category
	err := s.store.InTx(ctx, func(st StoreTx) error {
		if err := checkCategoryName(ctx, st, actor, name, 0); err != nil {
			return err
		}
		created, err := st.InsertCategory(ctx, &models.Category{
			UserID: actor,
			Name:   name,
			Type:   req.Type,
			Limit:  req.Limit,
		})
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateCategory renames a category and/or changes its limit. The type
// is fixed at creation; the period sum only moves through the engine.
func (s *Service) UpdateCategory(ctx context.Context, actor, id int64, req *models.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if !util.ValidateResourceName(name) {
		return nil, fmt.Errorf("%w: category name must be 1-100 characters", ErrInvalidData)
	}
	var out *models.Category
	err := s.store.InTx(ctx, func(st StoreTx) error {
		c, err := s.ownedCategory(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if c.System {
			return fmt.Errorf("%w: system categories cannot be modified", ErrStateConflict)
		}
		if err := checkCategoryName(ctx, st, actor, name, id); err != nil {
			return err
		}
		c.Name = name
		c.Limit = req.Limit
		if err := st.UpdateCategory(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Service) GetCategory(ctx context.Context, actor, id int64) (*models.Category, error) {
	var out *models.Category
	err := s.store.InTx(ctx, func(st StoreTx) error {
		c, err := s.ownedCategory(ctx, st, actor, id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// ListCategories returns the actor's categories with the hidden system
// pair filtered out.
func (s *Service) ListCategories(ctx context.Context, actor int64) ([]models.Category, error) {
	var out []models.Category
	err := s.store.InTx(ctx, func(st StoreTx) error {
		list, err := st.ListCategories(ctx, actor)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	return out, err
}

// DeleteCategory hard-deletes a user category. There is no balance-zero
// requirement here, unlike accounts. System categories never go away.
func (s *Service) DeleteCategory(ctx context.Context, actor, id int64) error {
	return s.store.InTx(ctx, func(st StoreTx) error {
		c, err := s.ownedCategory(ctx, st, actor, id)
		if err != nil {
			return err
		}
		if c.System {
			return fmt.Errorf("%w: system categories cannot be deleted", ErrStateConflict)
		}
		return st.DeleteCategory(ctx, id)
	})
}

func (s *Service) ownedCategory(ctx context.Context, st StoreTx, actor, id int64) (*models.Category, error) {
	c, err := st.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actor {
		return nil, fmt.Errorf("%w: category %d", ErrForbidden, id)
	}
	return c, nil
}

func checkCategoryRequest(name string, catType models.CategoryType) error {
	if !util.ValidateResourceName(name) {
		return fmt.Errorf("%w: category name must be 1-100 characters", ErrInvalidData)
	}
	if name == models.SystemIncomeName || name == models.SystemExpensesName {
		return fmt.Errorf("%w: category name %q is reserved", ErrInvalidData, name)
	}
	if catType != models.CategoryIncome && catType != models.CategoryExpenses {
		return fmt.Errorf("%w: category type must be INCOME or EXPENSES", ErrInvalidData)
	}
	return nil
}

// checkCategoryName enforces per-owner uniqueness across all of the
// owner's categories, system rows included.
func checkCategoryName(ctx context.Context, st StoreTx, actor int64, name string, selfID int64) error {
	existing, err := st.GetCategoryByName(ctx, actor, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: category %q", ErrNameConflict, name)
	}
	return nil
}
