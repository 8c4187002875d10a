package models

import "github.com/shopspring/decimal"

// CategoryTotal 按类别汇总的金额
type CategoryTotal struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	IconName   string          `json:"icon_name"`
	Total      decimal.Decimal `json:"total"`
}

// DailyTotal 某一天的收入与支出合计
type DailyTotal struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BalanceSummary 收支汇总
type BalanceSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// MonthSummary 某个自然月的收支汇总，Balance 为当前余额
type MonthSummary struct {
	Month        string          `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Incomes      []CategoryTotal `json:"incomes"`
	Expenses     []CategoryTotal `json:"expenses"`
	Days         []DailyTotal    `json:"days"`
}
