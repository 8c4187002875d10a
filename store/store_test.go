package store

import (
	"context"
	"errors"
	"testing"

	"budget/models"
	"budget/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollbackOnError(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "a@x.com", "10")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx *Store) error {
		require.NoError(t, tx.SetUserBalance(ctx, u.ID, decimal.NewFromInt(99)))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, testutil.Balance(t, db, u.ID).Equal(decimal.NewFromInt(10)))
}

func TestWithinTx_Commit(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "a@x.com", "10")
	c := testutil.CreateCategory(t, db, u.ID, "salary", models.TypeIncome)

	err := s.WithinTx(ctx, func(tx *Store) error {
		if err := tx.SetUserBalance(ctx, u.ID, decimal.NewFromInt(15)); err != nil {
			return err
		}
		return tx.CreateTransaction(ctx, &models.Transaction{
			Amount: decimal.NewFromInt(5), Type: models.TypeIncome, Date: "2024-01-02",
			CategoryID: c.ID, UserID: u.ID,
		})
	})
	require.NoError(t, err)
	assert.True(t, testutil.Balance(t, db, u.ID).Equal(decimal.NewFromInt(15)))

	list, err := s.ListTransactions(ctx, u.ID, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "salary", list[0].CategoryName)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "a@x.com", "10")

	assert.Panics(t, func() {
		_ = s.WithinTx(ctx, func(tx *Store) error {
			_ = tx.SetUserBalance(ctx, u.ID, decimal.NewFromInt(1))
			panic("unexpected")
		})
	})
	assert.True(t, testutil.Balance(t, db, u.ID).Equal(decimal.NewFromInt(10)))
}

func TestWithinTx_MockRollback(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	s := New(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `balance`").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.WithinTx(ctx, func(tx *Store) error {
		return tx.SetUserBalance(ctx, 1, decimal.NewFromInt(5))
	})
	assert.EqualError(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCategory_Cascade(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "a@x.com", "0")
	food := testutil.CreateCategory(t, db, u.ID, "food", models.TypeExpense)
	other := testutil.CreateCategory(t, db, u.ID, "rent", models.TypeExpense)
	testutil.CreateTransaction(t, db, food, "10", "2024-01-01")
	testutil.CreateTransaction(t, db, food, "30", "2024-01-02")
	testutil.CreateTransaction(t, db, other, "7", "2024-01-03")

	total, err := s.CategoryTotal(ctx, food.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(40)), total.String())

	require.NoError(t, s.DeleteCategory(ctx, u.ID, food.ID))

	list, err := s.ListTransactions(ctx, u.ID, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].CategoryID)

	assert.ErrorIs(t, s.DeleteCategory(ctx, u.ID, food.ID), ErrNotFound)
}

func TestCategoryTotal_Exact(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	u := testutil.CreateUser(t, db, "a@x.com", "0")
	c := testutil.CreateCategory(t, db, u.ID, "food", models.TypeExpense)
	for i := 0; i < 10; i++ {
		testutil.CreateTransaction(t, db, c, "0.10", "2024-01-01")
	}
	testutil.CreateTransaction(t, db, c, "0.20", "2024-01-02")

	total, err := s.CategoryTotal(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.2", total.String())

	empty := testutil.CreateCategory(t, db, u.ID, "rent", models.TypeExpense)
	total, err = s.CategoryTotal(context.Background(), empty.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestCategory_Ownership(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice@x.com", "0")
	bob := testutil.CreateUser(t, db, "bob@x.com", "0")
	c := testutil.CreateCategory(t, db, alice.ID, "food", models.TypeExpense)

	_, err := s.CategoryByID(ctx, bob.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, bob.ID, c.ID), ErrNotFound)

	got, err := s.CategoryByID(ctx, alice.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "food", got.Name)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice@x.com", "0")
	bob := testutil.CreateUser(t, db, "bob@x.com", "0")

	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "food", IconName: "food", Type: models.TypeExpense, UserID: alice.ID}))
	err := s.CreateCategory(ctx, &models.Category{Name: "food", IconName: "food", Type: models.TypeExpense, UserID: alice.ID})
	assert.ErrorIs(t, err, ErrDuplicate)

	// 不同用户可以使用相同名称
	require.NoError(t, s.CreateCategory(ctx, &models.Category{Name: "food", IconName: "food", Type: models.TypeExpense, UserID: bob.ID}))
}

func TestCreateCategory_TypeCheck(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	u := testutil.CreateUser(t, db, "a@x.com", "0")

	err := s.CreateCategory(context.Background(), &models.Category{Name: "misc", IconName: "other", Type: models.TypeOther, UserID: u.ID})
	assert.Error(t, err)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Name: "a", Email: "a@x.com", PasswordHash: "h"}))
	err := s.CreateUser(ctx, &models.User{Name: "b", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestListTransactions_Filter(t *testing.T) {
	db := testutil.NewSQLite(t)
	s := New(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "a@x.com", "0")
	food := testutil.CreateCategory(t, db, u.ID, "food", models.TypeExpense)
	salary := testutil.CreateCategory(t, db, u.ID, "salary", models.TypeIncome)
	testutil.CreateTransaction(t, db, food, "1", "2024-01-01")
	testutil.CreateTransaction(t, db, food, "2", "2024-02-01")
	testutil.CreateTransaction(t, db, salary, "3", "2024-03-01")

	all, err := s.ListTransactions(ctx, u.ID, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-03-01", all[0].Date)

	limited, err := s.ListTransactions(ctx, u.ID, TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	expenses, err := s.ListTransactions(ctx, u.ID, TransactionFilter{Type: models.TypeExpense, From: "2024-01-15"})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "2024-02-01", expenses[0].Date)

	byCat, err := s.ListTransactions(ctx, u.ID, TransactionFilter{CategoryID: salary.ID, To: "2024-12-31"})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, models.TypeIncome, byCat[0].Type)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(errors.New("UNIQUE constraint failed: categories.name")), ErrDuplicate)
	other := errors.New("other")
	assert.Equal(t, other, translate(other))
}
