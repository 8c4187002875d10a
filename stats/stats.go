// Package stats 提供只读的收支汇总查询，不修改任何数据
package stats

import (
	"context"
	"sort"
	"time"

	"budget/models"
	"budget/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Service 统计服务
type Service struct {
	store *store.Store
}

// NewService 创建统计服务
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// TotalIncome 用户全部收入之和
func (s *Service) TotalIncome(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.store.SumByType(ctx, userID, models.TypeIncome)
}

// TotalExpense 用户全部支出之和
func (s *Service) TotalExpense(ctx context.Context, userID uint) (decimal.Decimal, error) {
	return s.store.SumByType(ctx, userID, models.TypeExpense)
}

// Summary 返回总收入、总支出和当前余额
// 三个查询互不依赖，并发执行
func (s *Service) Summary(ctx context.Context, userID uint) (*models.BalanceSummary, error) {
	var sum models.BalanceSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.TotalIncome(gctx, userID)
		sum.TotalIncome = v
		return err
	})
	g.Go(func() error {
		v, err := s.TotalExpense(gctx, userID)
		sum.TotalExpense = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.UserBalance(gctx, userID)
		sum.Balance = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}

// CategoryTotals 按类别汇总某一类型的金额，金额从大到小
func (s *Service) CategoryTotals(ctx context.Context, userID uint, categoryType string) ([]models.CategoryTotal, error) {
	list, err := s.store.CategoryTotals(ctx, userID, categoryType)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.CategoryTotal{}
	}
	return list, nil
}

// DailyTotals 统计 month 所在自然月每天的收入与支出，按日期升序
// 两种日期格式归并到同一天；无法解析的日期直接跳过
func (s *Service) DailyTotals(ctx context.Context, userID uint, month time.Time) ([]models.DailyTotal, error) {
	rows, err := s.store.DatedAmounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return groupByDay(rows, month), nil
}

// MonthSummary 汇总 month 所在自然月的收入、支出、类别合计和每日明细
func (s *Service) MonthSummary(ctx context.Context, userID uint, month time.Time) (*models.MonthSummary, error) {
	var (
		rows    []store.DatedAmount
		balance decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rows, err = s.store.DatedAmounts(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		balance, err = s.store.UserBalance(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows = inMonth(rows, month)
	sum := &models.MonthSummary{
		Month:        month.Format("2006-01"),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Balance:      balance,
		Incomes:      groupByCategory(rows, models.TypeIncome),
		Expenses:     groupByCategory(rows, models.TypeExpense),
		Days:         groupByDay(rows, month),
	}
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(r.Amount)
		case models.TypeExpense:
			sum.TotalExpense = sum.TotalExpense.Add(r.Amount)
		}
	}
	return sum, nil
}

// inMonth 保留落在 month 内的记录，日期统一为 YYYY-MM-DD
func inMonth(rows []store.DatedAmount, month time.Time) []store.DatedAmount {
	prefix := month.Format("2006-01")
	kept := make([]store.DatedAmount, 0, len(rows))
	for _, r := range rows {
		day, ok := NormalizeDate(r.Date)
		if !ok || day[:7] != prefix {
			continue
		}
		r.Date = day
		kept = append(kept, r)
	}
	return kept
}

// groupByCategory 与 CategoryTotals 排序一致：金额降序，同额按名称升序
func groupByCategory(rows []store.DatedAmount, categoryType string) []models.CategoryTotal {
	idx := make(map[uint]int)
	list := []models.CategoryTotal{}
	for _, r := range rows {
		if r.Type != categoryType {
			continue
		}
		i, ok := idx[r.CategoryID]
		if !ok {
			i = len(list)
			idx[r.CategoryID] = i
			list = append(list, models.CategoryTotal{
				CategoryID: r.CategoryID,
				Name:       r.CategoryName,
				IconName:   r.CategoryIcon,
				Total:      decimal.Zero,
			})
		}
		list[i].Total = list[i].Total.Add(r.Amount)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if c := list[i].Total.Cmp(list[j].Total); c != 0 {
			return c > 0
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func groupByDay(rows []store.DatedAmount, month time.Time) []models.DailyTotal {
	days := make(map[string]*models.DailyTotal)
	for _, r := range inMonth(rows, month) {
		day := r.Date
		d, ok := days[day]
		if !ok {
			d = &models.DailyTotal{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			days[day] = d
		}
		switch r.Type {
		case models.TypeIncome:
			d.Income = d.Income.Add(r.Amount)
		case models.TypeExpense:
			d.Expense = d.Expense.Add(r.Amount)
		}
	}

	list := make([]models.DailyTotal, 0, len(days))
	for _, d := range days {
		list = append(list, *d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list
}
