package store

import (
	"context"

	"budget/models"

	"github.com/shopspring/decimal"
)

// DatedAmount 一条交易的日期、金额和所属类别，供按日、按月汇总使用
type DatedAmount struct {
	Date         string
	Amount       decimal.Decimal
	Type         string
	CategoryID   uint
	CategoryName string
	CategoryIcon string
}

// SumByType 汇总用户某一类型交易的金额
func (s *Store) SumByType(ctx context.Context, userID uint, txType string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.conn(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ?", userID, txType).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translate(err)
	}
	return total.Round(2), nil
}

// CategoryTotals 按类别汇总用户某一类型的交易金额，金额从大到小
func (s *Store) CategoryTotals(ctx context.Context, userID uint, categoryType string) ([]models.CategoryTotal, error) {
	var list []models.CategoryTotal
	err := s.conn(ctx).Table("transactions AS t").
		Select("c.id AS category_id, c.name AS name, c.icon_name AS icon_name, SUM(t.amount) AS total").
		Joins("JOIN categories AS c ON c.id = t.category_id").
		Where("t.user_id = ? AND c.user_id = ? AND c.type = ?", userID, userID, categoryType).
		Group("c.id, c.name, c.icon_name").
		Order("total DESC, c.name ASC").
		Scan(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	// SQLite 以浮点数累加，统一保留两位小数
	for i := range list {
		list[i].Total = list[i].Total.Round(2)
	}
	return list, nil
}

// DatedAmounts 返回用户全部交易的日期、金额和类别，类型取自所属类别
func (s *Store) DatedAmounts(ctx context.Context, userID uint) ([]DatedAmount, error) {
	var list []DatedAmount
	err := s.conn(ctx).Table("transactions AS t").
		Select("t.date AS date, t.amount AS amount, c.type AS type, " +
			"c.id AS category_id, c.name AS category_name, c.icon_name AS category_icon").
		Joins("JOIN categories AS c ON c.id = t.category_id").
		Where("t.user_id = ?", userID).
		Order("t.date ASC").
		Scan(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}
