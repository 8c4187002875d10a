// Package store 封装用户、类别、交易三张表的读写，
// 并提供 WithinTx 作为多步写操作的原子执行单元。
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("store: 记录不存在")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("store: 记录已存在")
)

// Store 数据访问层
// 同一个 Store 既可以直接使用，也可以在 WithinTx 回调里以事务方式使用
type Store struct {
	db *gorm.DB
}

// New 创建 Store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 返回底层连接，仅供健康检查等场景使用
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithinTx 在一个数据库事务中执行 fn
// fn 返回 nil 时提交；返回错误或 panic 时回滚，错误原样返回
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate 把驱动层错误转换为 store 的哨兵错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return ErrDuplicate
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return ErrDuplicate
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
