package store

import (
	"context"

	"budget/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// CategoryByID 查询属于 userID 的类别
func (s *Store) CategoryByID(ctx context.Context, userID, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListCategories 列出用户的类别，categoryType 为空时返回全部
func (s *Store) ListCategories(ctx context.Context, userID uint, categoryType string) ([]models.Category, error) {
	q := s.conn(ctx).Where("user_id = ?", userID)
	if categoryType != "" {
		q = q.Where("type = ?", categoryType)
	}
	var list []models.Category
	if err := q.Order("name ASC").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// CreateCategory 新建类别，同一用户下名称重复返回 ErrDuplicate
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(c).Error)
}

// CreateCategories 批量新建类别
func (s *Store) CreateCategories(ctx context.Context, list []models.Category) error {
	if len(list) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Omit(clause.Associations).Create(&list).Error)
}

// UpdateCategory 只更新名称和图标，类型不可修改
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res := s.conn(ctx).Model(&models.Category{}).
		Where("id = ? AND user_id = ?", c.ID, c.UserID).
		Updates(map[string]interface{}{"name": c.Name, "icon_name": c.IconName})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory 删除类别，其下交易由外键级联删除
func (s *Store) DeleteCategory(ctx context.Context, userID, id uint) error {
	res := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryTotal 计算类别下所有交易金额之和
// 逐条累加 decimal，结果与余额使用同一精度
func (s *Store) CategoryTotal(ctx context.Context, categoryID uint) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := s.conn(ctx).Model(&models.Transaction{}).
		Where("category_id = ?", categoryID).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, translate(err)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
