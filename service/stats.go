package service

import (
	"sort"
	"time"

	"budget/models"
)

// Summary 收支汇总
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

// CategoryStat 按类别汇总
type CategoryStat struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

// PeriodSummary 某一时间段的收支汇总
type PeriodSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// TrendPoint 月度支出趋势中的一个点
type TrendPoint struct {
	Month   string  `json:"month"` // 如 "Mar 2024"
	Expense float64 `json:"expense"`
}

// Summarize 计算总收入、总支出与结余（结余 = 收入 − 支出）
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case models.TypeIncome:
			s.TotalIncome += t.Amount
		case models.TypeExpense:
			s.TotalExpense += t.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// RecentTransactions 按日期倒序取最近 limit 条
func RecentTransactions(txs []models.Transaction, limit int) []models.Transaction {
	sorted := make([]models.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// groupByCategory 按类别名分组汇总，类别缺失计入 Unknown
// 分组顺序保持首次出现顺序，再按金额降序稳定排序，金额相同时先出现的在前
func groupByCategory(txs []models.Transaction, txType string) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat
	for _, t := range txs {
		if t.Type != txType {
			continue
		}
		name := t.CategoryName()
		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, CategoryStat{Category: name})
		}
		stats[i].Amount += t.Amount
		stats[i].Count++
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Amount > stats[j].Amount
	})
	return stats
}

// ExpensesByCategory 支出按类别分组汇总，金额降序
func ExpensesByCategory(txs []models.Transaction) []CategoryStat {
	return groupByCategory(txs, models.TypeExpense)
}

// TopCategories 支出类别排行，取前 n 个
func TopCategories(txs []models.Transaction, n int) []CategoryStat {
	stats := groupByCategory(txs, models.TypeExpense)
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// MonthlySummary 统计 now 所在自然月的收支
func MonthlySummary(txs []models.Transaction, now time.Time) PeriodSummary {
	var s PeriodSummary
	for _, t := range txs {
		if t.Date.Year() != now.Year() || t.Date.Month() != now.Month() {
			continue
		}
		switch t.Type {
		case models.TypeIncome:
			s.Income += t.Amount
		case models.TypeExpense:
			s.Expense += t.Amount
		}
	}
	return s
}

// YearlySummary 统计 now 所在自然年的收支
func YearlySummary(txs []models.Transaction, now time.Time) PeriodSummary {
	var s PeriodSummary
	for _, t := range txs {
		if t.Date.Year() != now.Year() {
			continue
		}
		switch t.Type {
		case models.TypeIncome:
			s.Income += t.Amount
		case models.TypeExpense:
			s.Expense += t.Amount
		}
	}
	return s
}

// MonthlyTrend 以 now 所在月为终点的最近 months 个自然月支出趋势，最早的月份在前
func MonthlyTrend(txs []models.Transaction, now time.Time, months int) []TrendPoint {
	points := make([]TrendPoint, 0, months)
	// 从当月 1 日回退，避免月末日期在 AddDate 归一化时跳月
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := months - 1; i >= 0; i-- {
		monthDate := current.AddDate(0, -i, 0)
		var expense float64
		for _, t := range txs {
			if t.Type == models.TypeExpense &&
				t.Date.Year() == monthDate.Year() &&
				t.Date.Month() == monthDate.Month() {
				expense += t.Amount
			}
		}
		points = append(points, TrendPoint{
			Month:   monthDate.Format("Jan 2006"),
			Expense: expense,
		})
	}
	return points
}
