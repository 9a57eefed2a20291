package ledger

import (
	"context"
	"strings"
	"testing"

	"pfm-server/src/models"
	"pfm-server/src/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LedgerSuite exercises the service against an in-memory store. Every
// test starts with two users, each carrying the hidden system category
// pair they would get at registration.
type LedgerSuite struct {
	suite.Suite
	store *memStore
	svc   *Service
	ctx   context.Context

	// user 1 fixtures
	checking models.Account
	savings  models.Account
	salary   models.Category
	food     models.Category

	// user 2 fixture
	otherAccount models.Account
}

func (s *LedgerSuite) SetupTest() {
	s.store = newMemStore()
	s.svc = NewService(s.store)
	s.ctx = context.Background()

	s.seedSystemCategories(1)
	s.seedSystemCategories(2)

	s.checking = s.mustCreateAccount(1, "Checking", "100.00")
	s.savings = s.mustCreateAccount(1, "Savings", "50.00")
	s.salary = s.mustCreateCategory(1, "Salary", models.CategoryIncome)
	s.food = s.mustCreateCategory(1, "Food", models.CategoryExpenses)

	s.otherAccount = s.mustCreateAccount(2, "Other Checking", "500.00")
}

func (s *LedgerSuite) seedSystemCategories(userID int64) {
	err := s.store.InTx(s.ctx, func(st StoreTx) error {
		for _, c := range []models.Category{
			{UserID: userID, Name: models.SystemIncomeName, Type: models.CategoryIncome, System: true},
			{UserID: userID, Name: models.SystemExpensesName, Type: models.CategoryExpenses, System: true},
		} {
			if _, err := st.InsertCategory(s.ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(s.T(), err)
}

func (s *LedgerSuite) mustCreateAccount(userID int64, name, balance string) models.Account {
	amount, err := money.Parse(balance)
	require.NoError(s.T(), err)
	a, err := s.svc.CreateAccount(s.ctx, userID, &models.AccountRequest{
		Name:    name,
		Balance: amount,
	})
	require.NoError(s.T(), err)
	return *a
}

func (s *LedgerSuite) mustCreateCategory(userID int64, name string, catType models.CategoryType) models.Category {
	c, err := s.svc.CreateCategory(s.ctx, userID, &models.CategoryRequest{
		Name: name,
		Type: catType,
	})
	require.NoError(s.T(), err)
	return *c
}

func (s *LedgerSuite) accountBalance(id int64) money.Money {
	var out money.Money
	err := s.store.InTx(s.ctx, func(st StoreTx) error {
		a, err := st.GetAccount(s.ctx, id)
		if err != nil {
			return err
		}
		out = a.Balance
		return nil
	})
	require.NoError(s.T(), err)
	return out
}

func (s *LedgerSuite) categorySum(id int64) money.Money {
	var out money.Money
	err := s.store.InTx(s.ctx, func(st StoreTx) error {
		c, err := st.GetCategory(s.ctx, id)
		if err != nil {
			return err
		}
		out = c.Sum
		return nil
	})
	require.NoError(s.T(), err)
	return out
}

func cents(v int64) money.Money {
	return money.Money(v)
}

func incomeReq(categoryID, accountID int64, amount money.Money) *models.TransactionRequest {
	return &models.TransactionRequest{
		FromType: models.EntityCategory,
		FromID:   categoryID,
		ToType:   models.EntityAccount,
		ToID:     accountID,
		Amount:   amount,
	}
}

func expenseReq(accountID, categoryID int64, amount money.Money) *models.TransactionRequest {
	return &models.TransactionRequest{
		FromType: models.EntityAccount,
		FromID:   accountID,
		ToType:   models.EntityCategory,
		ToID:     categoryID,
		Amount:   amount,
	}
}

func transferReq(fromID, toID int64, amount money.Money) *models.TransactionRequest {
	return &models.TransactionRequest{
		FromType: models.EntityAccount,
		FromID:   fromID,
		ToType:   models.EntityAccount,
		ToID:     toID,
		Amount:   amount,
	}
}

func (s *LedgerSuite) TestShapeTable() {
	cases := []struct {
		from, to models.EntityType
		want     Shape
	}{
		{models.EntityCategory, models.EntityAccount, ShapeIncome},
		{models.EntityAccount, models.EntityCategory, ShapeExpense},
		{models.EntityAccount, models.EntityAccount, ShapeTransfer},
		{models.EntityCategory, models.EntityCategory, ShapeInvalid},
		{"", models.EntityAccount, ShapeInvalid},
		{models.EntityAccount, "BOGUS", ShapeInvalid},
	}
	for _, tc := range cases {
		assert.Equal(s.T(), tc.want, shapeOf(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func (s *LedgerSuite) TestIncomeIncreasesBalanceAndSum() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, s.checking.ID, cents(2500)))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), txn)
	assert.NotZero(s.T(), txn.ID)

	assert.Equal(s.T(), cents(12500), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(2500), s.categorySum(s.salary.ID))
}

func (s *LedgerSuite) TestExpenseMayDriveBalanceNegative() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.food.ID, cents(15000)))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), cents(-5000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(15000), s.categorySum(s.food.ID))
}

func (s *LedgerSuite) TestTransferMovesFunds() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(4000)))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), cents(6000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(9000), s.accountBalance(s.savings.ID))
}

func (s *LedgerSuite) TestTransferRequiresSufficientFunds() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(10001)))
	require.ErrorIs(s.T(), err, ErrInvalidData)

	assert.Equal(s.T(), cents(10000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(5000), s.accountBalance(s.savings.ID))
}

func (s *LedgerSuite) TestTransferOfExactBalanceSucceeds() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(10000)))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cents(0), s.accountBalance(s.checking.ID))
}

func (s *LedgerSuite) TestRejectsNonPositiveAmount() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, s.checking.ID, cents(0)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	_, err = s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, s.checking.ID, cents(-100)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestRejectsIllegalShape() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, &models.TransactionRequest{
		FromType: models.EntityCategory,
		FromID:   s.salary.ID,
		ToType:   models.EntityCategory,
		ToID:     s.food.ID,
		Amount:   cents(100),
	})
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestRejectsWrongCategoryDirection() {
	// expense into an INCOME category
	_, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.salary.ID, cents(100)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	// income out of an EXPENSES category
	_, err = s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.food.ID, s.checking.ID, cents(100)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestRejectsMissingEndpoint() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, 9999, cents(100)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestRejectsForeignEndpoint() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.otherAccount.ID, cents(100)))
	require.ErrorIs(s.T(), err, ErrForbidden)

	assert.Equal(s.T(), cents(10000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(50000), s.accountBalance(s.otherAccount.ID))
}

func (s *LedgerSuite) TestRejectsDeactivatedAccount() {
	require.NoError(s.T(), s.svc.DeactivateAccount(s.ctx, 1, s.savings.ID))

	_, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(100)))
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestUpdateReversesOldAndAppliesNew() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.food.ID, cents(3000)))
	require.NoError(s.T(), err)

	updated, err := s.svc.UpdateTransaction(s.ctx, 1, txn.ID, expenseReq(s.savings.ID, s.food.ID, cents(1000)))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), txn.ID, updated.ID)

	assert.Equal(s.T(), cents(10000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(4000), s.accountBalance(s.savings.ID))
	assert.Equal(s.T(), cents(1000), s.categorySum(s.food.ID))
}

func (s *LedgerSuite) TestUpdateWithInvalidDataLeavesStateUntouched() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(2000)))
	require.NoError(s.T(), err)

	// new values flunk the gate: transfer into a category
	_, err = s.svc.UpdateTransaction(s.ctx, 1, txn.ID, &models.TransactionRequest{
		FromType: models.EntityAccount,
		FromID:   s.checking.ID,
		ToType:   models.EntityCategory,
		ToID:     s.salary.ID,
		Amount:   cents(2000),
	})
	require.ErrorIs(s.T(), err, ErrInvalidData)

	// the old effect is still in place and the row is unchanged
	assert.Equal(s.T(), cents(8000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(7000), s.accountBalance(s.savings.ID))

	kept, err := s.svc.GetTransaction(s.ctx, 1, txn.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cents(2000), kept.Amount)
	assert.Equal(s.T(), s.savings.ID, kept.ToID)
}

func (s *LedgerSuite) TestDeleteUndoesEffectAndReturnsSnapshot() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, s.checking.ID, cents(5000)))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cents(15000), s.accountBalance(s.checking.ID))

	snapshot, err := s.svc.DeleteTransaction(s.ctx, 1, txn.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), txn.ID, snapshot.ID)
	assert.Equal(s.T(), cents(5000), snapshot.Amount)

	assert.Equal(s.T(), cents(10000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(0), s.categorySum(s.salary.ID))

	_, err = s.svc.GetTransaction(s.ctx, 1, txn.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *LedgerSuite) TestDeleteWorksOnDeactivatedEndpoint() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(2000)))
	require.NoError(s.T(), err)

	// deactivation blocks new transactions, not reversal of old ones
	require.NoError(s.T(), s.svc.DeactivateAccount(s.ctx, 1, s.savings.ID))

	_, err = s.svc.DeleteTransaction(s.ctx, 1, txn.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cents(10000), s.accountBalance(s.checking.ID))
	assert.Equal(s.T(), cents(5000), s.accountBalance(s.savings.ID))
}

func (s *LedgerSuite) TestTransactionOwnershipIsolation() {
	txn, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.food.ID, cents(100)))
	require.NoError(s.T(), err)

	_, err = s.svc.GetTransaction(s.ctx, 2, txn.ID)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	_, err = s.svc.UpdateTransaction(s.ctx, 2, txn.ID, expenseReq(s.checking.ID, s.food.ID, cents(200)))
	assert.ErrorIs(s.T(), err, ErrForbidden)

	_, err = s.svc.DeleteTransaction(s.ctx, 2, txn.ID)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	list, err := s.svc.ListTransactions(s.ctx, 2)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *LedgerSuite) TestListTransactionsByAccount() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.food.ID, cents(100)))
	require.NoError(s.T(), err)
	_, err = s.svc.CreateTransaction(s.ctx, 1, transferReq(s.savings.ID, s.checking.ID, cents(200)))
	require.NoError(s.T(), err)
	_, err = s.svc.CreateTransaction(s.ctx, 1, incomeReq(s.salary.ID, s.savings.ID, cents(300)))
	require.NoError(s.T(), err)

	list, err := s.svc.ListTransactionsByAccount(s.ctx, 1, s.checking.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 2)

	_, err = s.svc.ListTransactionsByAccount(s.ctx, 2, s.checking.ID)
	assert.ErrorIs(s.T(), err, ErrForbidden)
}

func (s *LedgerSuite) TestBalanceSyncUpward() {
	txn, err := s.svc.ApplyBalanceSync(s.ctx, 1, s.checking.ID, cents(12345))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), txn)

	assert.Equal(s.T(), models.EntityCategory, txn.FromType)
	assert.Equal(s.T(), models.EntityAccount, txn.ToType)
	assert.Equal(s.T(), cents(2345), txn.Amount)
	assert.Equal(s.T(), cents(12345), s.accountBalance(s.checking.ID))
}

func (s *LedgerSuite) TestBalanceSyncDownward() {
	txn, err := s.svc.ApplyBalanceSync(s.ctx, 1, s.checking.ID, cents(4000))
	require.NoError(s.T(), err)
	require.NotNil(s.T(), txn)

	assert.Equal(s.T(), models.EntityAccount, txn.FromType)
	assert.Equal(s.T(), models.EntityCategory, txn.ToType)
	assert.Equal(s.T(), cents(6000), txn.Amount)
	assert.Equal(s.T(), cents(4000), s.accountBalance(s.checking.ID))
}

func (s *LedgerSuite) TestBalanceSyncNoOpOnZeroDelta() {
	txn, err := s.svc.ApplyBalanceSync(s.ctx, 1, s.checking.ID, cents(10000))
	require.NoError(s.T(), err)
	assert.Nil(s.T(), txn)

	list, err := s.svc.ListTransactions(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)
}

func (s *LedgerSuite) TestBalanceSyncForeignAccount() {
	_, err := s.svc.ApplyBalanceSync(s.ctx, 1, s.otherAccount.ID, cents(100))
	assert.ErrorIs(s.T(), err, ErrForbidden)
}

func (s *LedgerSuite) TestAccountNameConflict() {
	_, err := s.svc.CreateAccount(s.ctx, 1, &models.AccountRequest{Name: "Checking"})
	assert.ErrorIs(s.T(), err, ErrNameConflict)

	// same name is fine under a different owner
	_, err = s.svc.CreateAccount(s.ctx, 2, &models.AccountRequest{Name: "Checking"})
	assert.NoError(s.T(), err)

	// renaming to itself is not a conflict
	_, err = s.svc.UpdateAccount(s.ctx, 1, s.checking.ID, &models.AccountRequest{Name: "Checking"})
	assert.NoError(s.T(), err)
}

func (s *LedgerSuite) TestDeleteAccountRequiresZeroBalance() {
	err := s.svc.DeleteAccount(s.ctx, 1, s.checking.ID)
	require.ErrorIs(s.T(), err, ErrStateConflict)

	_, err = s.svc.CreateTransaction(s.ctx, 1, transferReq(s.checking.ID, s.savings.ID, cents(10000)))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.DeleteAccount(s.ctx, 1, s.checking.ID))

	// DELETED is terminal
	err = s.svc.ActivateAccount(s.ctx, 1, s.checking.ID)
	assert.ErrorIs(s.T(), err, ErrStateConflict)
	err = s.svc.DeleteAccount(s.ctx, 1, s.checking.ID)
	assert.ErrorIs(s.T(), err, ErrStateConflict)

	// gone from listings, name is reusable
	list, err := s.svc.ListAccounts(s.ctx, 1)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
	_, err = s.svc.CreateAccount(s.ctx, 1, &models.AccountRequest{Name: "Checking"})
	assert.NoError(s.T(), err)
}

func (s *LedgerSuite) TestSystemCategoriesAreProtected() {
	var sysIncome models.Category
	err := s.store.InTx(s.ctx, func(st StoreTx) error {
		c, err := st.GetSystemCategory(s.ctx, 1, models.CategoryIncome)
		if err != nil {
			return err
		}
		sysIncome = *c
		return nil
	})
	require.NoError(s.T(), err)

	_, err = s.svc.UpdateCategory(s.ctx, 1, sysIncome.ID, &models.CategoryRequest{Name: "Renamed"})
	assert.ErrorIs(s.T(), err, ErrStateConflict)

	err = s.svc.DeleteCategory(s.ctx, 1, sysIncome.ID)
	assert.ErrorIs(s.T(), err, ErrStateConflict)

	list, err := s.svc.ListCategories(s.ctx, 1)
	require.NoError(s.T(), err)
	for _, c := range list {
		assert.False(s.T(), c.System)
		assert.NotEqual(s.T(), models.SystemIncomeName, c.Name)
		assert.NotEqual(s.T(), models.SystemExpensesName, c.Name)
	}
}

func (s *LedgerSuite) TestRejectsOverlongNames() {
	long := strings.Repeat("x", 101)

	_, err := s.svc.CreateAccount(s.ctx, 1, &models.AccountRequest{Name: long})
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	_, err = s.svc.UpdateAccount(s.ctx, 1, s.checking.ID, &models.AccountRequest{Name: long})
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	_, err = s.svc.CreateCategory(s.ctx, 1, &models.CategoryRequest{Name: long, Type: models.CategoryIncome})
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	_, err = s.svc.UpdateCategory(s.ctx, 1, s.food.ID, &models.CategoryRequest{Name: long})
	assert.ErrorIs(s.T(), err, ErrInvalidData)

	// exactly 100 characters is still legal
	_, err = s.svc.CreateAccount(s.ctx, 1, &models.AccountRequest{Name: strings.Repeat("y", 100)})
	assert.NoError(s.T(), err)
}

func (s *LedgerSuite) TestReservedCategoryNames() {
	_, err := s.svc.CreateCategory(s.ctx, 1, &models.CategoryRequest{
		Name: models.SystemIncomeName,
		Type: models.CategoryIncome,
	})
	assert.ErrorIs(s.T(), err, ErrInvalidData)
}

func (s *LedgerSuite) TestCategoryDeleteIsUnconditional() {
	_, err := s.svc.CreateTransaction(s.ctx, 1, expenseReq(s.checking.ID, s.food.ID, cents(4200)))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), cents(4200), s.categorySum(s.food.ID))

	// nonzero sum does not block deletion, unlike account balances
	require.NoError(s.T(), s.svc.DeleteCategory(s.ctx, 1, s.food.ID))

	_, err = s.svc.GetCategory(s.ctx, 1, s.food.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}
