package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User 用户模型
// Balance 是冗余存储的当前余额，只允许账本服务修改
type User struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:50;not null"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string          `json:"-" gorm:"column:password_hash;size:255;not null"`
	Balance      decimal.Decimal `json:"balance" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
