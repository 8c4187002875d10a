package store

import (
	"context"

	"budget/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// CreateUser 创建用户，邮箱重复返回 ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(u).Error)
}

// UserByID 按 ID 查询用户
func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UserByEmail 按邮箱查询用户
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UserBalance 读取用户当前余额
func (s *Store) UserBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var u models.User
	err := s.conn(ctx).Select("id", "balance").Where("id = ?", userID).Take(&u).Error
	if err != nil {
		return decimal.Zero, translate(err)
	}
	return u.Balance, nil
}

// SetUserBalance 写入用户余额
func (s *Store) SetUserBalance(ctx context.Context, userID uint, balance decimal.Decimal) error {
	return translate(s.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", balance).Error)
}

// UpdateUserProfile 修改用户名称和邮箱，邮箱重复返回 ErrDuplicate
func (s *Store) UpdateUserProfile(ctx context.Context, userID uint, name, email string) error {
	res := s.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"name": name, "email": email})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserPassword 修改密码哈希
func (s *Store) UpdateUserPassword(ctx context.Context, userID uint, passwordHash string) error {
	return translate(s.conn(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error)
}
