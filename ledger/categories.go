package ledger

import (
	"context"
	"errors"
	"strings"

	"budget/models"
	"budget/store"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest 新建类别请求
type CreateCategoryRequest struct {
	Name     string
	IconName string
	Type     string
}

// UpdateCategoryRequest 修改类别请求，类型不可修改
type UpdateCategoryRequest struct {
	ID       uint
	Name     string
	IconName string
}

// CreateCategory 新建类别，不影响余额
func (s *Service) CreateCategory(ctx context.Context, userID uint, req CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("类别名称不能为空")
	}
	if !models.IsLedgerType(req.Type) {
		return nil, validation("类别类型必须是 income 或 expense")
	}
	icon := strings.TrimSpace(req.IconName)
	if icon == "" {
		icon = models.DefaultIconName
	}

	c := &models.Category{Name: name, IconName: icon, Type: req.Type, UserID: userID}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateCategory
		}
		return nil, persistence(err)
	}
	return c, nil
}

// UpdateCategory 修改类别名称和图标，不影响余额
func (s *Service) UpdateCategory(ctx context.Context, userID uint, req UpdateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("类别名称不能为空")
	}

	c, err := s.store.CategoryByID(ctx, userID, req.ID)
	if err != nil {
		return nil, wrapRead(err)
	}
	c.Name = name
	if icon := strings.TrimSpace(req.IconName); icon != "" {
		c.IconName = icon
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateCategory
		}
		return nil, wrapRead(err)
	}
	return c, nil
}

// DeleteCategory 删除类别及其全部交易，余额按类别合计一次性调整
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	c, err := s.store.CategoryByID(ctx, userID, categoryID)
	if err != nil {
		return wrapRead(err)
	}
	total, err := s.store.CategoryTotal(ctx, c.ID)
	if err != nil {
		return persistence(err)
	}
	balance, err := s.store.UserBalance(ctx, userID)
	if err != nil {
		return wrapRead(err)
	}

	var newBalance decimal.Decimal
	switch c.Type {
	case models.TypeIncome:
		newBalance = balance.Sub(total)
		if newBalance.IsNegative() {
			return insufficient(balance)
		}
	default:
		newBalance = balance.Add(total)
	}

	if err := s.apply(ctx, userID, newBalance, func(tx *store.Store) error {
		return tx.DeleteCategory(ctx, userID, c.ID)
	}); err != nil {
		return err
	}

	s.log.Info().Uint("user_id", userID).Uint("category_id", c.ID).
		Str("total", total.String()).Msg("删除类别")
	return nil
}

// ListCategories 列出用户类别，categoryType 为空时返回全部
func (s *Service) ListCategories(ctx context.Context, userID uint, categoryType string) ([]models.Category, error) {
	if categoryType != "" && !models.IsLedgerType(categoryType) {
		return nil, validation("未知的类别类型: %q", categoryType)
	}
	list, err := s.store.ListCategories(ctx, userID, categoryType)
	if err != nil {
		return nil, persistence(err)
	}
	if list == nil {
		list = []models.Category{}
	}
	return list, nil
}

// GetCategory 查询单个类别
func (s *Service) GetCategory(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	c, err := s.store.CategoryByID(ctx, userID, categoryID)
	if err != nil {
		return nil, wrapRead(err)
	}
	return c, nil
}
