package api

import (
	"errors"
	"net/http"
	"time"

	"budget/middleware"
	"budget/models"
	"budget/service"
	"budget/stats"
	"budget/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StatisticsHandler 统计处理器
type StatisticsHandler struct {
	stats    *stats.Service
	accounts *service.AccountService
	email    *service.EmailService
	log      zerolog.Logger
	now      func() time.Time
}

// NewStatisticsHandler 创建统计处理器
func NewStatisticsHandler(s *stats.Service, accounts *service.AccountService, email *service.EmailService, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{stats: s, accounts: accounts, email: email, log: log, now: time.Now}
}

// DailyResponse 按日统计响应
type DailyResponse struct {
	Month string              `json:"month"`
	Days  []models.DailyTotal `json:"days"`
}

// MonthlyReportRequest 月度汇总邮件请求
type MonthlyReportRequest struct {
	Month string `json:"month" example:"2024-01"`
}

// Summary 收支汇总
// @Summary 收支汇总
// @Description 返回总收入、总支出和当前余额
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.BalanceSummary} "获取成功"
// @Router /api/v1/statistics/summary [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	sum, err := h.stats.Summary(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		h.statsError(c, err)
		return
	}
	Success(c, sum)
}

// Categories 按类别汇总
// @Summary 按类别汇总
// @Description 按类别汇总某一类型的金额，金额从大到小
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param type query string true "类型 income / expense"
// @Success 200 {object} Response{data=[]models.CategoryTotal} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/statistics/categories [get]
func (h *StatisticsHandler) Categories(c *gin.Context) {
	typ := c.Query("type")
	if !models.IsLedgerType(typ) {
		BadRequest(c, "type 必须是 income 或 expense")
		return
	}
	list, err := h.stats.CategoryTotals(c.Request.Context(), middleware.GetCurrentUserID(c), typ)
	if err != nil {
		h.statsError(c, err)
		return
	}
	Success(c, list)
}

// Daily 按日汇总
// @Summary 按日汇总
// @Description 统计指定月份每天的收入与支出，默认当前月份
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param month query string false "月份 (2024-01)"
// @Success 200 {object} Response{data=DailyResponse} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/statistics/daily [get]
func (h *StatisticsHandler) Daily(c *gin.Context) {
	month, ok := h.parseMonth(c, c.Query("month"))
	if !ok {
		return
	}
	days, err := h.stats.DailyTotals(c.Request.Context(), middleware.GetCurrentUserID(c), month)
	if err != nil {
		h.statsError(c, err)
		return
	}
	Success(c, DailyResponse{Month: month.Format("2006-01"), Days: days})
}

// SendMonthlyReport 发送月度汇总邮件
// @Summary 发送月度汇总邮件
// @Description 把指定月份的收支汇总发送到当前用户邮箱，默认当前月份
// @Tags 统计
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MonthlyReportRequest false "月份"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/v1/statistics/email [post]
func (h *StatisticsHandler) SendMonthlyReport(c *gin.Context) {
	if h.email == nil || !h.email.Enabled() {
		Error(c, http.StatusServiceUnavailable, service.ErrEmailDisabled.Error())
		return
	}

	var req MonthlyReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, SafeErrorMessage(err, "参数错误"))
			return
		}
	}
	month, ok := h.parseMonth(c, req.Month)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetCurrentUserID(c)
	user, err := h.accounts.Profile(ctx, userID)
	if err != nil {
		h.statsError(c, err)
		return
	}

	sum, err := h.stats.MonthSummary(ctx, userID, month)
	if err != nil {
		h.statsError(c, err)
		return
	}
	report := &service.MonthlyReport{Month: month, Summary: *sum}

	if err := h.email.SendMonthlyReport(user.Email, user.Name, report); err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("月度汇总邮件发送失败")
		InternalError(c, SafeErrorMessage(err, "发送邮件失败"))
		return
	}
	SuccessWithMessage(c, "发送成功", gin.H{"email": user.Email, "month": month.Format("2006-01")})
}

func (h *StatisticsHandler) parseMonth(c *gin.Context, s string) (time.Time, bool) {
	if s == "" {
		now := h.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	}
	month, err := time.Parse("2006-01", s)
	if err != nil {
		BadRequest(c, "月份格式错误，应为: 2006-01")
		return time.Time{}, false
	}
	return month, true
}

func (h *StatisticsHandler) statsError(c *gin.Context, err error) {
	_ = c.Error(err)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, service.ErrUserNotFound) {
		NotFound(c, "用户不存在")
		return
	}
	InternalError(c, SafeErrorMessage(err, "查询统计数据失败"))
}
