package models

import (
	"time"
)

// 类别/交易类型
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
	// TypeOther 仅用于默认类别配置，不会写入数据库
	TypeOther = "other"
)

// DefaultIconName 未指定图标时使用的图标
const DefaultIconName = "other"

// IsLedgerType 判断是否为可持久化的类型（income / expense）
func IsLedgerType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Category 收支类别
// Type 创建后不可修改，交易创建时从所属类别复制
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_name_user"`
	IconName  string    `json:"icon_name" gorm:"size:50;not null;default:other"`
	Type      string    `json:"type" gorm:"size:10;not null;index;check:type IN ('income','expense')"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_categories_name_user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string {
	return "categories"
}
