// Package advisor evaluates a fixed, ordered rule list against a user's
// current aggregates and budget, producing advisory messages. Rules are
// independent: all matching rules fire and none suppresses another. A rule
// whose input is absent (no budget, no income, no baseline month) is
// skipped silently; the evaluator never fails from missing optional data.
package advisor

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

// Advisory types, from most to least urgent.
const (
	TypeWarning = "warning"
	TypeAlert   = "alert"
	TypeCaution = "caution"
	TypeAdvice  = "advice"
	TypeSuccess = "success"
	TypeTip     = "tip"
)

// Advisory is one recommendation with a severity tag.
type Advisory struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Context is the read-only input shared by all rules.
type Context struct {
	CurrentByCategory map[core.ExpenseCategory]core.Money
	LastByCategory    map[core.ExpenseCategory]core.Money
	Budget            map[core.ExpenseCategory]core.Money
	TotalIncome       core.Money
	TotalExpenses     core.Money
	Places            []analytics.PlaceStat
}

// rule pairs a name with an evaluator over the shared context.
type rule struct {
	name string
	eval func(Context) []Advisory
}

// rules is evaluated in order; output preserves rule order.
var rules = []rule{
	{"category-increase", categoryIncreaseRule},
	{"budget", budgetRule},
	{"savings-rate", savingsRateRule},
	{"cheapest-place", cheapestPlaceRule},
}

// Evaluate runs every rule against ctx and concatenates their advisories.
func Evaluate(ctx Context) []Advisory {
	out := make([]Advisory, 0, 4)
	for _, r := range rules {
		out = append(out, r.eval(ctx)...)
	}
	return out
}

// categoryIncreaseThreshold is the month-over-month percent growth above
// which a category triggers a warning.
var categoryIncreaseThreshold = decimal.NewFromInt(20)

// categoryIncreaseRule warns when a category's current-month spending grew
// more than 20% over the prior month. Categories without a prior-month
// baseline are skipped.
func categoryIncreaseRule(ctx Context) []Advisory {
	var out []Advisory
	for _, cat := range sortedCategories(ctx.CurrentByCategory) {
		current := ctx.CurrentByCategory[cat]
		last, ok := ctx.LastByCategory[cat]
		if !ok || last.Cents <= 0 {
			continue
		}
		increase := current.Sub(last).Decimal().
			Div(last.Decimal()).
			Mul(decimal.NewFromInt(100))
		if increase.GreaterThan(categoryIncreaseThreshold) {
			out = append(out, Advisory{
				Type: TypeWarning,
				Message: fmt.Sprintf("You spent %s%% more on %s this month (%s vs %s)",
					increase.Round(0), cat, current, last),
			})
		}
	}
	return out
}

// budgetUsedRatio is the share of a category budget at which a caution
// (rather than an alert) fires.
var budgetUsedRatio = decimal.NewFromFloat(0.8)

// budgetRule emits one alert per over-budget category, or one caution when
// more than 80% of the budget is used. Exactly one of the two can fire for
// a category.
func budgetRule(ctx Context) []Advisory {
	var out []Advisory
	for _, cat := range sortedCategories(ctx.Budget) {
		budget := ctx.Budget[cat]
		spent := ctx.CurrentByCategory[cat] // zero value when no spending
		switch {
		case spent.Cents > budget.Cents:
			out = append(out, Advisory{
				Type: TypeAlert,
				Message: fmt.Sprintf("Budget exceeded for %s: %s over budget",
					cat, spent.Sub(budget)),
			})
		case spent.Decimal().GreaterThan(budget.Decimal().Mul(budgetUsedRatio)):
			out = append(out, Advisory{
				Type: TypeCaution,
				Message: fmt.Sprintf("%s budget 80%% used: %s remaining",
					cat, budget.Sub(spent)),
			})
		}
	}
	return out
}

// savingsRateRule advises below 10% savings rate and congratulates above
// 30%. Rates in [10, 30] deliberately produce no message, and the rule is
// skipped entirely when no income is recorded.
func savingsRateRule(ctx Context) []Advisory {
	rate, ok := analytics.SavingsRate(ctx.TotalIncome, ctx.TotalExpenses)
	if !ok {
		return nil
	}
	switch {
	case rate.LessThan(decimal.NewFromInt(10)):
		return []Advisory{{
			Type: TypeAdvice,
			Message: fmt.Sprintf("Your savings rate is %s%%. Try to save at least 20%% of your income.",
				rate.StringFixed(1)),
		}}
	case rate.GreaterThan(decimal.NewFromInt(30)):
		return []Advisory{{
			Type: TypeSuccess,
			Message: fmt.Sprintf("Great job! Your savings rate is %s%% - well above the 20%% goal!",
				rate.StringFixed(1)),
		}}
	}
	return nil
}

// cheapestPlaceRule tips the lowest-average-cost place when any expense
// carries a place at all.
func cheapestPlaceRule(ctx Context) []Advisory {
	if len(ctx.Places) == 0 {
		return nil
	}
	best := ctx.Places[0]
	return []Advisory{{
		Type: TypeTip,
		Message: fmt.Sprintf("You save most at %s (avg %s). Consider shopping there more often!",
			best.Place, best.AvgAmount),
	}}
}

// sortedCategories keeps per-category rule output deterministic.
func sortedCategories(m map[core.ExpenseCategory]core.Money) []core.ExpenseCategory {
	cats := make([]core.ExpenseCategory, 0, len(m))
	for c := range m {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// BuildContext assembles the rule context from a user's raw records and
// configured budget, anchored at now.
func BuildContext(expenses []core.Expense, incomes []core.Income, budget map[core.ExpenseCategory]core.Money, now time.Time) Context {
	currentStart := analytics.MonthStart(now)
	lastStart := currentStart.AddDate(0, -1, 0)

	return Context{
		CurrentByCategory: analytics.CategorySpendingBetween(expenses, currentStart, time.Time{}),
		LastByCategory:    analytics.CategorySpendingBetween(expenses, lastStart, currentStart),
		Budget:            budget,
		TotalIncome:       analytics.SumIncomes(incomes),
		TotalExpenses:     analytics.SumExpenses(expenses),
		Places:            analytics.CheapestPlaces(expenses),
	}
}
