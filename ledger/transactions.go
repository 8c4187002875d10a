package ledger

import (
	"context"

	"budget/models"
	"budget/store"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest 新建交易请求
// Type 可以为空，由类别决定；非空时必须与类别类型一致
type CreateTransactionRequest struct {
	Amount     decimal.Decimal
	Type       string
	Note       *string
	Date       string
	CategoryID uint
}

// UpdateTransactionRequest 修改交易请求，只有金额、备注和日期会被修改
// Type 非空时必须与原交易类型一致；Date 为空时保留原日期
type UpdateTransactionRequest struct {
	ID     uint
	Amount decimal.Decimal
	Type   string
	Note   *string
	Date   string
}

// CreateTransaction 新建交易并更新余额
func (s *Service) CreateTransaction(ctx context.Context, userID uint, req CreateTransactionRequest) (*models.Transaction, error) {
	if !validAmount(req.Amount) {
		return nil, ErrInvalidAmount
	}
	date, err := s.normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	category, err := s.store.CategoryByID(ctx, userID, req.CategoryID)
	if err != nil {
		return nil, wrapRead(err)
	}
	if req.Type != "" && req.Type != category.Type {
		return nil, validation("交易类型 %q 与类别类型 %q 不一致", req.Type, category.Type)
	}

	balance, err := s.store.UserBalance(ctx, userID)
	if err != nil {
		return nil, wrapRead(err)
	}

	var newBalance decimal.Decimal
	switch category.Type {
	case models.TypeExpense:
		if req.Amount.GreaterThan(balance) {
			return nil, insufficient(balance)
		}
		newBalance = balance.Sub(req.Amount)
	default:
		newBalance = balance.Add(req.Amount)
	}

	t := &models.Transaction{
		Amount:     req.Amount,
		Type:       category.Type,
		Note:       trimNote(req.Note),
		Date:       date,
		CategoryID: category.ID,
		UserID:     userID,
	}
	err = s.apply(ctx, userID, newBalance, func(tx *store.Store) error {
		return tx.CreateTransaction(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Uint("user_id", userID).Uint("transaction_id", t.ID).
		Str("type", t.Type).Str("amount", t.Amount.String()).Msg("新建交易")
	return t, nil
}

// UpdateTransaction 修改交易金额、备注和日期，按差额调整余额
//
// 收入和支出使用同一个上限：delta <= 当前余额。
// 收入 newBalance = balance + delta；支出 newBalance = balance - delta。
func (s *Service) UpdateTransaction(ctx context.Context, userID uint, req UpdateTransactionRequest) (*models.Transaction, error) {
	if !validAmount(req.Amount) {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	t, err := s.store.TransactionByID(ctx, userID, req.ID)
	if err != nil {
		return nil, wrapRead(err)
	}
	if req.Type != "" && req.Type != t.Type {
		return nil, validation("交易类型不可修改")
	}

	date := t.Date
	if req.Date != "" {
		if date, err = s.normalizeDate(req.Date); err != nil {
			return nil, err
		}
	}

	balance, err := s.store.UserBalance(ctx, userID)
	if err != nil {
		return nil, wrapRead(err)
	}

	delta := req.Amount.Sub(t.Amount)
	if delta.GreaterThan(balance) {
		return nil, insufficient(balance)
	}
	newBalance := balance.Add(delta)
	if t.Type == models.TypeExpense {
		newBalance = balance.Sub(delta)
	}

	t.Amount = req.Amount
	t.Note = trimNote(req.Note)
	t.Date = date
	err = s.apply(ctx, userID, newBalance, func(tx *store.Store) error {
		return tx.UpdateTransaction(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTransaction 删除交易并回退其对余额的影响
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	t, err := s.store.TransactionByID(ctx, userID, transactionID)
	if err != nil {
		return wrapRead(err)
	}
	balance, err := s.store.UserBalance(ctx, userID)
	if err != nil {
		return wrapRead(err)
	}

	var newBalance decimal.Decimal
	switch t.Type {
	case models.TypeIncome:
		if t.Amount.GreaterThan(balance) {
			return insufficient(balance)
		}
		newBalance = balance.Sub(t.Amount)
	default:
		newBalance = balance.Add(t.Amount)
	}

	return s.apply(ctx, userID, newBalance, func(tx *store.Store) error {
		return tx.DeleteTransaction(ctx, userID, t.ID)
	})
}

// GetTransaction 查询单条交易
func (s *Service) GetTransaction(ctx context.Context, userID, transactionID uint) (*models.Transaction, error) {
	t, err := s.store.TransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, wrapRead(err)
	}
	return t, nil
}

// ListTransactions 按日期倒序列出交易及其类别信息
func (s *Service) ListTransactions(ctx context.Context, userID uint, f store.TransactionFilter) ([]models.TransactionWithCategory, error) {
	if f.Type != "" && !models.IsLedgerType(f.Type) {
		return nil, validation("未知的交易类型: %q", f.Type)
	}
	for _, d := range []*string{&f.From, &f.To} {
		if *d == "" {
			continue
		}
		day, err := s.normalizeDate(*d)
		if err != nil {
			return nil, err
		}
		*d = day
	}

	list, err := s.store.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, persistence(err)
	}
	if list == nil {
		list = []models.TransactionWithCategory{}
	}
	return list, nil
}
