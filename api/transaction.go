package api

import (
	"budget/ledger"
	"budget/middleware"
	"budget/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxListLimit 列表接口单次返回的最大条数
const maxListLimit = 1000

// TransactionHandler 交易处理器
type TransactionHandler struct {
	ledger      *ledger.Service
	recentLimit int
}

// NewTransactionHandler 创建交易处理器，recentLimit 为列表默认条数
func NewTransactionHandler(l *ledger.Service, recentLimit int) *TransactionHandler {
	return &TransactionHandler{ledger: l, recentLimit: recentLimit}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"99.99"`
	Type       string          `json:"type" binding:"omitempty,oneof=income expense" example:"expense"`
	Note       *string         `json:"note" example:"午餐"`
	Date       string          `json:"date" example:"2024-01-15"`
	CategoryID uint            `json:"category_id" binding:"required" example:"1"`
}

// UpdateTransactionRequest 更新交易请求，只能修改金额、备注和日期
type UpdateTransactionRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"99.99"`
	Type   string          `json:"type" binding:"omitempty,oneof=income expense" example:"expense"`
	Note   *string         `json:"note" example:"午餐"`
	Date   string          `json:"date" example:"2024-01-15"`
}

// ListTransactionsQuery 交易列表查询参数
type ListTransactionsQuery struct {
	Type       string `form:"type" binding:"omitempty,oneof=income expense"`
	CategoryID uint   `form:"category_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	Limit      int    `form:"limit"`
}

// Create 创建交易
// @Summary 创建交易
// @Description 创建收入或支出记录，类型取自类别；支出金额不能超过当前余额
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "类别不存在"
// @Failure 422 {object} Response "余额不足"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	t, err := h.ledger.CreateTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), ledger.CreateTransactionRequest{
		Amount:     req.Amount,
		Type:       req.Type,
		Note:       req.Note,
		Date:       req.Date,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "创建成功", t)
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 按日期倒序返回交易及类别名称、图标，默认返回最近若干条
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型 income / expense"
// @Param category_id query int false "类别ID"
// @Param from query string false "开始日期 (2024-01-01)"
// @Param to query string false "结束日期 (2024-12-31)"
// @Param limit query int false "返回条数"
// @Success 200 {object} Response{data=[]models.TransactionWithCategory} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if q.Limit <= 0 {
		q.Limit = h.recentLimit
	}
	if q.Limit > maxListLimit {
		q.Limit = maxListLimit
	}

	list, err := h.ledger.ListTransactions(c.Request.Context(), middleware.GetCurrentUserID(c), store.TransactionFilter{
		Type:       q.Type,
		CategoryID: q.CategoryID,
		From:       q.From,
		To:         q.To,
		Limit:      q.Limit,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	Success(c, list)
}

// Get 获取交易详情
// @Summary 获取交易详情
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.ledger.GetTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	Success(c, t)
}

// Update 更新交易
// @Summary 更新交易
// @Description 修改金额、备注和日期，余额按差额调整
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "交易不存在"
// @Failure 422 {object} Response "余额不足"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	t, err := h.ledger.UpdateTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), ledger.UpdateTransactionRequest{
		ID:     id,
		Amount: req.Amount,
		Type:   req.Type,
		Note:   req.Note,
		Date:   req.Date,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", t)
}

// Delete 删除交易
// @Summary 删除交易
// @Description 删除交易并回退其对余额的影响；删除收入时金额不能超过当前余额
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "交易不存在"
// @Failure 422 {object} Response "余额不足"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteTransaction(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", gin.H{"id": id})
}
