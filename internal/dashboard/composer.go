// Package dashboard assembles the composite summary payload served at
// /api/dashboard by orchestrating the aggregation engine over a user's
// records.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Summary is the full dashboard payload. It is recomputed on every read;
// nothing here is cached or persisted.
type Summary struct {
	TotalIncome          core.Money                          `json:"totalIncome"`
	TotalExpenses        core.Money                          `json:"totalExpenses"`
	TotalSavings         core.Money                          `json:"totalSavings"`
	SavingsRate          string                              `json:"savingsRate"`
	MonthlyComparison    analytics.MonthlyComparison         `json:"monthlyComparison"`
	CategoryWiseSpending map[core.ExpenseCategory]core.Money `json:"categoryWiseSpending"`
	WeeklyTrend          []analytics.WeekTotal               `json:"weeklyTrend"`
	CheapestPlaces       []analytics.PlaceStat               `json:"cheapestPlaces"`
	SavingsProjection    core.Money                          `json:"savingsProjection"`
}

// Composer fetches a user's records once per request and fans the
// sub-aggregations out over them.
type Composer struct {
	expenses store.ExpenseStore
	incomes  store.IncomeStore
}

func NewComposer(expenses store.ExpenseStore, incomes store.IncomeStore) *Composer {
	return &Composer{expenses: expenses, incomes: incomes}
}

// Compose builds the dashboard summary for userID anchored at now. Any
// store failure aborts the whole computation; there is no partial payload.
func (c *Composer) Compose(ctx context.Context, userID int64, now time.Time) (Summary, error) {
	var (
		expenses []core.Expense
		incomes  []core.Income
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = c.expenses.ListExpenses(gctx, userID)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		incomes, err = c.incomes.ListIncomes(gctx, userID)
		if err != nil {
			return fmt.Errorf("list incomes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var s Summary
	s.TotalIncome = analytics.SumIncomes(incomes)
	s.TotalExpenses = analytics.SumExpenses(expenses)
	s.TotalSavings = s.TotalIncome.Sub(s.TotalExpenses)
	if rate, ok := analytics.SavingsRate(s.TotalIncome, s.TotalExpenses); ok {
		s.SavingsRate = rate.StringFixed(2)
	} else {
		s.SavingsRate = "0.00"
	}

	// The aggregations are pure and independent; each goroutine writes a
	// distinct field.
	var agg errgroup.Group
	agg.Go(func() error {
		s.MonthlyComparison = analytics.CompareMonths(expenses, incomes, now)
		return nil
	})
	agg.Go(func() error {
		s.CategoryWiseSpending = analytics.CategorySpending(expenses)
		return nil
	})
	agg.Go(func() error {
		s.WeeklyTrend = analytics.WeeklyTrend(expenses, now)
		return nil
	})
	agg.Go(func() error {
		s.CheapestPlaces = analytics.CheapestPlaces(expenses)
		return nil
	})
	agg.Go(func() error {
		s.SavingsProjection = analytics.PredictSavings(expenses, incomes, now)
		return nil
	})
	_ = agg.Wait()

	return s, nil
}
