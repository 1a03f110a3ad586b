// Package analytics computes read-only numeric summaries over a user's
// expense and income records: totals, category group-bys and windowed
// comparisons. All functions are pure, take the record set plus a
// reference time, and are safe to run concurrently.
package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// MonthlyComparison contrasts net savings of the current calendar month
// (first of month up to now) against the full prior month.
type MonthlyComparison struct {
	CurrentMonthSavings  core.Money `json:"currentMonthSavings"`
	LastMonthSavings     core.Money `json:"lastMonthSavings"`
	SavingsDifference    core.Money `json:"savingsDifference"`
	SavingsChangePercent float64    `json:"savingsChangePercent"`
	Trend                string     `json:"trend"`
}

// WeekTotal is one labeled week in the four-week spending trend.
type WeekTotal struct {
	Week   string     `json:"week"`
	Amount core.Money `json:"amount"`
}

// PlaceStat aggregates spending at one place.
type PlaceStat struct {
	Place     string     `json:"place"`
	AvgAmount core.Money `json:"avgAmount"`
	Count     int        `json:"count"`
}

const (
	TrendUp   = "up"
	TrendDown = "down"
)

// SumExpenses returns the total of all expense amounts; empty input is 0.
func SumExpenses(expenses []core.Expense) core.Money {
	var total core.Money
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// SumIncomes returns the total of all income amounts; empty input is 0.
func SumIncomes(incomes []core.Income) core.Money {
	var total core.Money
	for _, i := range incomes {
		total = total.Add(i.Amount)
	}
	return total
}

// MonthStart returns midnight on the first day of t's calendar month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight on the Sunday of t's week.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// inWindow reports whether ts falls in [from, until). A zero until means
// the window is open-ended.
func inWindow(ts, from, until time.Time) bool {
	if ts.Before(from) {
		return false
	}
	return until.IsZero() || ts.Before(until)
}

func sumExpensesBetween(expenses []core.Expense, from, until time.Time) core.Money {
	var total core.Money
	for _, e := range expenses {
		if inWindow(e.Date, from, until) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func sumIncomesBetween(incomes []core.Income, from, until time.Time) core.Money {
	var total core.Money
	for _, i := range incomes {
		if inWindow(i.Date, from, until) {
			total = total.Add(i.Amount)
		}
	}
	return total
}

// CompareMonths computes savings for the running month and the full prior
// month. SavingsChangePercent is rounded to two decimals and defined as 0
// when the prior month's savings are exactly zero; that choice conflates
// "no prior data" with "no change" but callers rely on it.
func CompareMonths(expenses []core.Expense, incomes []core.Income, now time.Time) MonthlyComparison {
	currentStart := MonthStart(now)
	lastStart := currentStart.AddDate(0, -1, 0)

	current := sumIncomesBetween(incomes, currentStart, time.Time{}).
		Sub(sumExpensesBetween(expenses, currentStart, time.Time{}))
	last := sumIncomesBetween(incomes, lastStart, currentStart).
		Sub(sumExpensesBetween(expenses, lastStart, currentStart))

	diff := current.Sub(last)

	var pct float64
	if last.Cents != 0 {
		pct, _ = diff.Decimal().
			Div(last.Decimal()).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			Float64()
	}

	trend := TrendUp
	if diff.Cents < 0 {
		trend = TrendDown
	}

	return MonthlyComparison{
		CurrentMonthSavings:  current,
		LastMonthSavings:     last,
		SavingsDifference:    diff,
		SavingsChangePercent: pct,
		Trend:                trend,
	}
}

// CategorySpending groups all expenses by category. Categories with no
// spending are omitted rather than zero-filled.
func CategorySpending(expenses []core.Expense) map[core.ExpenseCategory]core.Money {
	return CategorySpendingBetween(expenses, time.Time{}, time.Time{})
}

// CategorySpendingBetween groups expenses in [from, until) by category.
// Zero bounds leave the window open on that side.
func CategorySpendingBetween(expenses []core.Expense, from, until time.Time) map[core.ExpenseCategory]core.Money {
	totals := make(map[core.ExpenseCategory]core.Money)
	for _, e := range expenses {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !until.IsZero() && !e.Date.Before(until) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// WeeklyTrend sums spending for the four weeks ending with the current
// one, oldest first. It always returns exactly four entries labeled
// "Week 1" through "Week 4" regardless of data sparsity.
func WeeklyTrend(expenses []core.Expense, now time.Time) []WeekTotal {
	weeks := make([]WeekTotal, 0, 4)
	for i := 3; i >= 0; i-- {
		start := WeekStart(now).AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)
		weeks = append(weeks, WeekTotal{
			Week:   "Week " + strconv.Itoa(4-i),
			Amount: sumExpensesBetween(expenses, start, end),
		})
	}
	return weeks
}

// CheapestPlaces groups expenses by non-empty place, computing the
// average amount and visit count per place, sorted by average ascending.
// Ties break on place name so output order is deterministic.
func CheapestPlaces(expenses []core.Expense) []PlaceStat {
	type acc struct {
		total core.Money
		count int
	}
	byPlace := make(map[string]*acc)
	for _, e := range expenses {
		if e.Place == "" {
			continue
		}
		a, ok := byPlace[e.Place]
		if !ok {
			a = &acc{}
			byPlace[e.Place] = a
		}
		a.total = a.total.Add(e.Amount)
		a.count++
	}

	stats := make([]PlaceStat, 0, len(byPlace))
	for place, a := range byPlace {
		avg := a.total.Decimal().Div(decimal.NewFromInt(int64(a.count)))
		stats = append(stats, PlaceStat{
			Place:     place,
			AvgAmount: core.NewMoney(avg),
			Count:     a.count,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AvgAmount.Cents != stats[j].AvgAmount.Cents {
			return stats[i].AvgAmount.Cents < stats[j].AvgAmount.Cents
		}
		return stats[i].Place < stats[j].Place
	})
	return stats
}

// Weights applied to the three full months preceding the current one,
// most recent first.
var forecastWeights = []decimal.Decimal{
	decimal.NewFromFloat(0.5),
	decimal.NewFromFloat(0.3),
	decimal.NewFromFloat(0.2),
}

// PredictSavings produces a weighted savings forecast from the three full
// calendar months before the current one. This is a linear extrapolation,
// not a statistical model; when any of the three months holds no record
// at all the forecast is 0.
func PredictSavings(expenses []core.Expense, incomes []core.Income, now time.Time) core.Money {
	currentStart := MonthStart(now)

	forecast := decimal.Zero
	for i := 1; i <= 3; i++ {
		from := currentStart.AddDate(0, -i, 0)
		until := currentStart.AddDate(0, -i+1, 0)

		if !hasRecords(expenses, incomes, from, until) {
			return core.Money{}
		}

		savings := sumIncomesBetween(incomes, from, until).
			Sub(sumExpensesBetween(expenses, from, until))
		forecast = forecast.Add(savings.Decimal().Mul(forecastWeights[i-1]))
	}
	return core.NewMoney(forecast)
}

func hasRecords(expenses []core.Expense, incomes []core.Income, from, until time.Time) bool {
	for _, e := range expenses {
		if inWindow(e.Date, from, until) {
			return true
		}
	}
	for _, i := range incomes {
		if inWindow(i.Date, from, until) {
			return true
		}
	}
	return false
}

// SavingsRate returns (income − expenses) / income × 100 as a decimal
// percentage. The second return is false when income is zero, in which
// case no rate is defined.
func SavingsRate(income, expenses core.Money) (decimal.Decimal, bool) {
	if income.Cents == 0 {
		return decimal.Zero, false
	}
	rate := income.Sub(expenses).Decimal().
		Div(income.Decimal()).
		Mul(decimal.NewFromInt(100))
	return rate, true
}
