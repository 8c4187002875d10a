package store

import (
	"context"

	"budget/models"

	"gorm.io/gorm/clause"
)

// TransactionFilter 交易列表筛选条件，零值表示不筛选
type TransactionFilter struct {
	Type       string
	CategoryID uint
	From       string // YYYY-MM-DD，含当天
	To         string // YYYY-MM-DD，含当天
	Limit      int
}

// TransactionByID 查询属于 userID 的交易
func (s *Store) TransactionByID(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListTransactions 按日期倒序列出交易，附带类别名称和图标
func (s *Store) ListTransactions(ctx context.Context, userID uint, f TransactionFilter) ([]models.TransactionWithCategory, error) {
	q := s.conn(ctx).Table("transactions AS t").
		Select("t.id, t.amount, t.type, t.note, t.date, t.category_id, " +
			"c.name AS category_name, c.icon_name AS category_icon").
		Joins("JOIN categories AS c ON c.id = t.category_id").
		Where("t.user_id = ?", userID)

	if f.Type != "" {
		q = q.Where("t.type = ?", f.Type)
	}
	if f.CategoryID != 0 {
		q = q.Where("t.category_id = ?", f.CategoryID)
	}
	if f.From != "" {
		q = q.Where("t.date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("t.date <= ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var list []models.TransactionWithCategory
	if err := q.Order("t.date DESC, t.id DESC").Scan(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// CreateTransaction 插入交易记录
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(t).Error)
}

// UpdateTransaction 只更新金额、备注和日期
func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.conn(ctx).Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", t.ID, t.UserID).
		Updates(map[string]interface{}{
			"amount": t.Amount,
			"note":   t.Note,
			"date":   t.Date,
		}).Error)
}

// DeleteTransaction 删除交易记录
func (s *Store) DeleteTransaction(ctx context.Context, userID, id uint) error {
	res := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
