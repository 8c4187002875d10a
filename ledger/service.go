// Package ledger 维护用户余额与交易、类别之间的一致性。
//
// 每个写操作分两步：先在事务外读取当前状态并校验，再在一个数据库事务内
// 依次写入新余额和实体变更。同一用户的写操作在进程内串行执行。
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"budget/models"
	"budget/stats"
	"budget/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service 账本服务
type Service struct {
	store *store.Store
	log   zerolog.Logger
	locks userLocks
	now   func() time.Time
}

// NewService 创建账本服务
func NewService(s *store.Store, log zerolog.Logger) *Service {
	return &Service{
		store: s,
		log:   log.With().Str("component", "ledger").Logger(),
		now:   time.Now,
	}
}

// Balance 返回用户当前余额
func (s *Service) Balance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	balance, err := s.store.UserBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, wrapRead(err)
	}
	return balance, nil
}

// apply 在一个事务内写入新余额并执行实体写操作
func (s *Service) apply(ctx context.Context, userID uint, balance decimal.Decimal, write func(tx *store.Store) error) error {
	err := s.store.WithinTx(ctx, func(tx *store.Store) error {
		if err := tx.SetUserBalance(ctx, userID, balance); err != nil {
			return err
		}
		return write(tx)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrDuplicateCategory
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error().Err(err).Uint("user_id", userID).Msg("账本写入失败，已回滚")
		return persistence(err)
	}
	return nil
}

// wrapRead 转换校验阶段的读取错误
func wrapRead(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return persistence(err)
}

// normalizeDate 空日期取当天，其余必须是可识别的日期
func (s *Service) normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().Format(models.DateLayout), nil
	}
	day, ok := stats.NormalizeDate(date)
	if !ok {
		return "", validation("日期格式错误: %q", date)
	}
	return day, nil
}

// validAmount 金额必须为正数，且精确到分
func validAmount(a decimal.Decimal) bool {
	return a.IsPositive() && a.Equal(a.Round(2))
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	v := strings.TrimSpace(*note)
	if v == "" {
		return nil
	}
	return &v
}
