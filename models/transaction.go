package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 交易日期的标准格式
const DateLayout = "2006-01-02"

// Transaction 收支记录
// Type 与 CategoryID 创建后不可修改；可修改的只有 Amount、Note、Date
type Transaction struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Type       string          `json:"type" gorm:"size:10;not null;index;check:type IN ('income','expense')"`
	Note       *string         `json:"note"`
	Date       string          `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	CategoryID uint            `json:"category_id" gorm:"not null;index"`
	UserID     uint            `json:"user_id" gorm:"not null;index"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Category   Category        `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	User       User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// NoteValue 返回备注内容，空备注返回空字符串
func (t *Transaction) NoteValue() string {
	if t.Note == nil {
		return ""
	}
	return *t.Note
}

// TransactionWithCategory 带类别名称与图标的交易，用于列表展示
type TransactionWithCategory struct {
	ID           uint            `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	Note         *string         `json:"note"`
	Date         string          `json:"date"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	CategoryIcon string          `json:"category_icon"`
}
