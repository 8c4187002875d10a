package api

import (
	"budget/ledger"
	"budget/middleware"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别处理器
type CategoryHandler struct {
	ledger *ledger.Service
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(l *ledger.Service) *CategoryHandler {
	return &CategoryHandler{ledger: l}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"餐饮"`
	IconName string `json:"icon_name" binding:"max=50" example:"food"`
	Type     string `json:"type" binding:"required,oneof=income expense" example:"expense"`
}

// UpdateCategoryRequest 更新类别请求，类型不可修改
type UpdateCategoryRequest struct {
	Name     string `json:"name" binding:"required,max=50" example:"餐饮"`
	IconName string `json:"icon_name" binding:"max=50" example:"food"`
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 获取当前用户的收支类别，可按类型筛选
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type query string false "类型 income / expense"
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.ledger.ListCategories(c.Request.Context(), middleware.GetCurrentUserID(c), c.Query("type"))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	Success(c, list)
}

// Get 获取单个类别
// @Summary 获取类别详情
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cat, err := h.ledger.GetCategory(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	Success(c, cat)
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建收支类别，同一用户下名称唯一
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "类别名称已存在"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := h.ledger.CreateCategory(c.Request.Context(), middleware.GetCurrentUserID(c), ledger.CreateCategoryRequest{
		Name:     req.Name,
		IconName: req.IconName,
		Type:     req.Type,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "创建成功", cat)
}

// Update 更新类别
// @Summary 更新类别
// @Description 只修改名称和图标，不影响余额
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body UpdateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Failure 409 {object} Response "类别名称已存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := h.ledger.UpdateCategory(c.Request.Context(), middleware.GetCurrentUserID(c), ledger.UpdateCategoryRequest{
		ID:       id,
		Name:     req.Name,
		IconName: req.IconName,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", cat)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除类别及其全部交易，余额按类别合计调整；收入类别合计超过余额时拒绝
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Failure 422 {object} Response "余额不足"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteCategory(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondLedgerError(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}
