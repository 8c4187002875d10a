// Package testutil 提供测试用的 SQLite 数据库和数据构造函数
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"budget/config"
	"budget/database"
	"budget/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewSQLite 在临时目录创建已迁移的 SQLite 数据库，测试结束自动关闭
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "budget.db"),
		},
		Log: config.LogConfig{Level: "silent"},
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// NewMockDB 返回基于 sqlmock 的 gorm 连接（MySQL 方言）
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB, mock
}

// CreateUser 直接写入一个用户，balance 为初始余额
func CreateUser(t *testing.T, db *gorm.DB, email string, balance string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         "tester",
		Email:        email,
		PasswordHash: "x",
		Balance:      decimal.RequireFromString(balance),
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateCategory 直接写入一个类别
func CreateCategory(t *testing.T, db *gorm.DB, userID uint, name, categoryType string) *models.Category {
	t.Helper()

	c := &models.Category{
		Name:     name,
		IconName: models.DefaultIconName,
		Type:     categoryType,
		UserID:   userID,
	}
	require.NoError(t, db.Omit("User").Create(c).Error)
	return c
}

// CreateTransaction 绕过账本直接写入交易，不修改余额
func CreateTransaction(t *testing.T, db *gorm.DB, c *models.Category, amount, date string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Amount:     decimal.RequireFromString(amount),
		Type:       c.Type,
		Date:       date,
		CategoryID: c.ID,
		UserID:     c.UserID,
	}
	require.NoError(t, db.Omit("Category", "User").Create(tx).Error, fmt.Sprintf("create %s %s", amount, date))
	return tx
}

// Balance 读取用户余额
func Balance(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()

	var u models.User
	require.NoError(t, db.Take(&u, userID).Error)
	return u.Balance
}
