package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"budget/ledger"
	"budget/middleware"
	"budget/models"
	"budget/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	ledger *ledger.Service
}

// NewExportHandler 创建导出处理器
func NewExportHandler(l *ledger.Service) *ExportHandler {
	return &ExportHandler{ledger: l}
}

// ExportResult JSON 导出结果
type ExportResult struct {
	From         string                           `json:"from"`
	To           string                           `json:"to"`
	TotalCount   int                              `json:"total_count"`
	TotalIncome  decimal.Decimal                  `json:"total_income"`
	TotalExpense decimal.Decimal                  `json:"total_expense"`
	Transactions []models.TransactionWithCategory `json:"transactions"`
}

var exportHeaders = []string{"ID", "日期", "类型", "类别", "金额", "备注"}

// load 按 from / to 查询全部交易，两个参数都可以省略
func (h *ExportHandler) load(c *gin.Context) ([]models.TransactionWithCategory, bool) {
	list, err := h.ledger.ListTransactions(c.Request.Context(), middleware.GetCurrentUserID(c), store.TransactionFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	})
	if err != nil {
		respondLedgerError(c, err)
		return nil, false
	}
	return list, true
}

func exportRow(t models.TransactionWithCategory) []string {
	note := ""
	if t.Note != nil {
		note = *t.Note
	}
	return []string{
		strconv.FormatUint(uint64(t.ID), 10),
		t.Date,
		typeLabel(t.Type),
		t.CategoryName,
		t.Amount.StringFixed(2),
		note,
	}
}

func typeLabel(t string) string {
	if t == models.TypeIncome {
		return "收入"
	}
	return "支出"
}

func exportFilename(c *gin.Context, ext string) string {
	from, to := c.Query("from"), c.Query("to")
	if from == "" {
		from = "all"
	}
	if to == "" {
		to = "now"
	}
	return fmt.Sprintf("transactions_%s_%s.%s", from, to, ext)
}

// ExportCSV 导出交易为 CSV
// @Summary 导出交易为 CSV
// @Description 按日期范围导出交易记录为 CSV 文件，日期范围可省略
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param from query string false "开始日期 (2024-01-01)"
// @Param to query string false "结束日期 (2024-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	list, ok := h.load(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// 添加 BOM 以支持 Excel 中文显示
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for _, t := range list {
		if err := writer.Write(exportRow(t)); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(c, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportJSON 导出交易为 JSON
// @Summary 导出交易为 JSON
// @Description 按日期范围导出交易记录及收支合计
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始日期 (2024-01-01)"
// @Param to query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=ExportResult} "导出成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/json [get]
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	list, ok := h.load(c)
	if !ok {
		return
	}

	result := ExportResult{
		From:         c.Query("from"),
		To:           c.Query("to"),
		TotalCount:   len(list),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Transactions: list,
	}
	for _, t := range list {
		if t.Type == models.TypeIncome {
			result.TotalIncome = result.TotalIncome.Add(t.Amount)
		} else {
			result.TotalExpense = result.TotalExpense.Add(t.Amount)
		}
	}
	Success(c, result)
}

// ExportExcel 导出交易为 Excel
// @Summary 导出交易为 Excel
// @Description 按日期范围导出交易记录为 xlsx 文件
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "开始日期 (2024-01-01)"
// @Param to query string false "结束日期 (2024-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	list, ok := h.load(c)
	if !ok {
		return
	}

	buf, err := buildWorkbook(list)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "生成 Excel 失败"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(c, "xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

const exportSheet = "交易记录"

func buildWorkbook(list []models.TransactionWithCategory) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}

	widths := []float64{10, 14, 8, 16, 14, 30}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, w); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	income, expense := decimal.Zero, decimal.Zero
	for i, t := range list {
		row := i + 2
		amount, _ := t.Amount.Float64()
		note := ""
		if t.Note != nil {
			note = *t.Note
		}
		values := []interface{}{t.ID, t.Date, typeLabel(t.Type), t.CategoryName, amount, note}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		if t.Type == models.TypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}

	last := len(list) + 1
	if len(list) > 0 {
		end, _ := excelize.CoordinatesToCellName(6, last)
		if err := f.SetCellStyle(exportSheet, "A2", end, dataStyle); err != nil {
			return nil, err
		}
	}

	// 合计行
	incomeF, _ := income.Float64()
	expenseF, _ := expense.Float64()
	summary := []interface{}{"合计", "", "收入", incomeF, "支出", expenseF}
	cell, _ := excelize.CoordinatesToCellName(1, last+2)
	if err := f.SetSheetRow(exportSheet, cell, &summary); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
