package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// 账本操作的错误类型，调用方用 errors.Is 判断
var (
	ErrNotFound            = errors.New("记录不存在")
	ErrInvalidAmount       = errors.New("金额必须大于0且最多两位小数")
	ErrInsufficientBalance = errors.New("余额不足")
	ErrDuplicateCategory   = errors.New("类别名称已存在")
	ErrValidation          = errors.New("参数错误")
	ErrPersistence         = errors.New("保存失败")
)

// InsufficientBalanceError 余额不足，携带当前余额用于展示
type InsufficientBalanceError struct {
	Balance decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("余额不足，当前余额: %s", e.Balance.StringFixed(2))
}

// Is 使 errors.Is(err, ErrInsufficientBalance) 成立
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

func insufficient(balance decimal.Decimal) error {
	return &InsufficientBalanceError{Balance: balance}
}

func validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// Kind 错误分类，供接口层映射状态码
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindInvalidAmount
	KindInsufficientBalance
	KindDuplicate
	KindValidation
	KindPersistence
)

// KindOf 返回 err 的分类，未知错误归为 KindPersistence
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrDuplicateCategory):
		return KindDuplicate
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindPersistence
	}
}
