package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const recentDescriptionLength = 60

// Overview is the dashboard headline
type Overview struct {
	TotalBalance       decimal.Decimal      `json:"totalBalance"`
	AccountCount       int64                `json:"accountCount"`
	Month              MonthlySummary       `json:"month"`
	Goals              GoalSummary          `json:"goals"`
	RecentTransactions []domain.Transaction `json:"recentTransactions"`
}

// PeriodSummary compares a range with the one before it
type PeriodSummary struct {
	Range         utils.DateRange `json:"range"`
	Current       Totals          `json:"current"`
	Previous      Totals          `json:"previous"`
	IncomeChange  float64         `json:"incomeChange"`  // Percent
	ExpenseChange float64         `json:"expenseChange"` // Percent
}

// TrendPoint is one month of the trend series
type TrendPoint struct {
	Period  string          `json:"period"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategoryStat is the share of one category in a range
type CategoryStat struct {
	CategoryID uint                `json:"categoryId"`
	Name       string              `json:"name"`
	Icon       string              `json:"icon"`
	Type       domain.CategoryType `json:"type"`
	Amount     decimal.Decimal     `json:"amount"`
	Count      int64               `json:"count"`
	Percent    float64             `json:"percent"`
}

// CalendarDay holds the activity of one day
type CalendarDay struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int             `json:"count"`
}

// Calendar is a month of daily activity
type Calendar struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Days         []CalendarDay   `json:"days"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

// StatisticsService computes read-only aggregates for dashboards
type StatisticsService struct {
	db           *gorm.DB
	accounts     *AccountService
	goals        *GoalService
	transactions *TransactionService
}

// NewStatisticsService creates a statistics service
func NewStatisticsService(db *gorm.DB, accounts *AccountService, goals *GoalService, transactions *TransactionService) *StatisticsService {
	return &StatisticsService{db: db, accounts: accounts, goals: goals, transactions: transactions}
}

// Overview gathers balances, the current month, goals and recent activity concurrently
func (s *StatisticsService) Overview(ctx context.Context, userID uint, now time.Time) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, count, err := s.accounts.TotalBalance(gctx, userID)
		out.TotalBalance, out.AccountCount = total, count
		return err
	})
	g.Go(func() error {
		month, err := s.transactions.MonthlySummary(gctx, userID, now.Year(), now.Month())
		if err == nil {
			out.Month = *month
		}
		return err
	})
	g.Go(func() error {
		goals, err := s.goals.Summary(gctx, userID)
		out.Goals = goals
		return err
	})
	g.Go(func() error {
		recent, _, err := s.transactions.List(gctx, userID, TransactionFilter{Page: utils.Page{Page: 1, PageSize: 5}})
		for i := range recent {
			recent[i].Description = utils.TruncateText(recent[i].Description, recentDescriptionLength)
		}
		out.RecentTransactions = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	return &out, nil
}

// Summary totals r and the range before it
func (s *StatisticsService) Summary(ctx context.Context, userID uint, r utils.DateRange) (*PeriodSummary, error) {
	current, err := sumByType(s.db.WithContext(ctx), userID, r)
	if err != nil {
		return nil, err
	}
	out := &PeriodSummary{Range: r, Current: current}
	if r.IsZero() {
		return out, nil
	}
	previous, err := sumByType(s.db.WithContext(ctx), userID, r.Previous())
	if err != nil {
		return nil, err
	}
	out.Previous = previous
	out.IncomeChange = change(current.Income, previous.Income)
	out.ExpenseChange = change(current.Expense, previous.Expense)
	return out, nil
}

// Trend returns months monthly points ending with the month of end, oldest first
func (s *StatisticsService) Trend(ctx context.Context, userID uint, end time.Time, months int) ([]TrendPoint, error) {
	last := utils.MonthStart(end.Year(), end.Month())
	first := last.AddDate(0, -(months - 1), 0)
	txs, err := s.load(ctx, userID, utils.DateRange{From: first, To: last.AddDate(0, 1, 0)})
	if err != nil {
		return nil, err
	}
	points := make([]TrendPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		points[i] = TrendPoint{Period: key, Income: decimal.Zero, Expense: decimal.Zero}
		index[key] = i
	}
	for _, t := range txs {
		i, ok := index[t.Date.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		if t.Type == domain.CategoryTypeIncome {
			points[i].Income = points[i].Income.Add(t.Amount)
		} else {
			points[i].Expense = points[i].Expense.Add(t.Amount)
		}
	}
	for i := range points {
		points[i].Net = points[i].Income.Sub(points[i].Expense)
	}
	return points, nil
}

// ByCategory breaks one transaction type down by category, largest first
func (s *StatisticsService) ByCategory(ctx context.Context, userID uint, typ domain.CategoryType, r utils.DateRange) ([]CategoryStat, error) {
	if !typ.Valid() {
		return nil, ErrInvalidCategoryType
	}
	var rows []struct {
		CategoryID uint
		Name       string
		Icon       string
		Total      decimal.Decimal
		TxCount    int64
	}
	q := s.db.WithContext(ctx).Table("transactions AS t").
		Select("t.category_id, c.name, c.icon, COALESCE(SUM(t.amount), 0) AS total, COUNT(*) AS tx_count").
		Joins("JOIN categories AS c ON c.id = t.category_id").
		Where("t.user_id = ? AND t.type = ?", userID, typ)
	if err := withinRange(q, "t.date", r).Group("t.category_id, c.name, c.icon").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate by category: %w", err)
	}
	grand := decimal.Zero
	for _, row := range rows {
		grand = grand.Add(row.Total)
	}
	stats := make([]CategoryStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, CategoryStat{
			CategoryID: row.CategoryID,
			Name:       row.Name,
			Icon:       row.Icon,
			Type:       typ,
			Amount:     row.Total,
			Count:      row.TxCount,
			Percent:    domain.Percent(row.Total, grand),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if c := stats[i].Amount.Cmp(stats[j].Amount); c != 0 {
			return c > 0
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}

// Calendar returns per-day totals for the days of the month that have activity
func (s *StatisticsService) Calendar(ctx context.Context, userID uint, year int, month time.Month) (*Calendar, error) {
	from := utils.MonthStart(year, month)
	txs, err := s.load(ctx, userID, utils.DateRange{From: from, To: from.AddDate(0, 1, 0)})
	if err != nil {
		return nil, err
	}
	cal := &Calendar{Year: year, Month: int(month), Days: []CalendarDay{}, TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	byDay := map[string]*CalendarDay{}
	for _, t := range txs {
		key := t.Date.UTC().Format(utils.DateLayout)
		day, ok := byDay[key]
		if !ok {
			day = &CalendarDay{Date: key, Income: decimal.Zero, Expense: decimal.Zero}
			byDay[key] = day
		}
		day.Count++
		if t.Type == domain.CategoryTypeIncome {
			day.Income = day.Income.Add(t.Amount)
			cal.TotalIncome = cal.TotalIncome.Add(t.Amount)
		} else {
			day.Expense = day.Expense.Add(t.Amount)
			cal.TotalExpense = cal.TotalExpense.Add(t.Amount)
		}
	}
	for _, day := range byDay {
		cal.Days = append(cal.Days, *day)
	}
	sort.Slice(cal.Days, func(i, j int) bool { return cal.Days[i].Date < cal.Days[j].Date })
	return cal, nil
}

// load fetches the fields aggregation needs for transactions in r
func (s *StatisticsService) load(ctx context.Context, userID uint, r utils.DateRange) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	q := s.db.WithContext(ctx).Select("id", "type", "amount", "date", "category_id").Where("user_id = ?", userID)
	if err := withinRange(q, "date", r).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// change is the percentage change from previous to current
func change(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	return domain.Percent(current.Sub(previous), previous)
}
