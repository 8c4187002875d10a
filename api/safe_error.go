package api

import (
	"errors"
	"net/http"

	"budget/config"
	"budget/ledger"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondLedgerError 把账本错误映射为 HTTP 响应
func respondLedgerError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch ledger.KindOf(err) {
	case ledger.KindNotFound:
		NotFound(c, "记录不存在")
	case ledger.KindInvalidAmount:
		BadRequest(c, ledger.ErrInvalidAmount.Error())
	case ledger.KindInsufficientBalance:
		var ib *ledger.InsufficientBalanceError
		if errors.As(err, &ib) {
			ErrorWithData(c, http.StatusUnprocessableEntity, ib.Error(), gin.H{"balance": ib.Balance})
			return
		}
		Error(c, http.StatusUnprocessableEntity, ledger.ErrInsufficientBalance.Error())
	case ledger.KindDuplicate:
		Error(c, http.StatusConflict, ledger.ErrDuplicateCategory.Error())
	case ledger.KindValidation:
		BadRequest(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, "保存失败"))
	}
}
