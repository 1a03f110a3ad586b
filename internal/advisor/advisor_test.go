package advisor

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/core"
)

func money(cents int64) core.Money { return core.Money{Cents: cents} }

func advisoriesOfType(advisories []Advisory, typ string) []Advisory {
	var out []Advisory
	for _, a := range advisories {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

func TestCategoryIncreaseRule(t *testing.T) {
	ctx := Context{
		CurrentByCategory: map[core.ExpenseCategory]core.Money{
			core.CategoryFood:   money(15000), // +50% over last month
			core.CategoryTravel: money(11000), // +10%, below threshold
		},
		LastByCategory: map[core.ExpenseCategory]core.Money{
			core.CategoryFood:   money(10000),
			core.CategoryTravel: money(10000),
		},
	}

	got := advisoriesOfType(Evaluate(ctx), TypeWarning)
	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0].Message, "50% more on Food") {
		t.Errorf("unexpected message: %q", got[0].Message)
	}
}

func TestCategoryIncreaseSkipsWithoutBaseline(t *testing.T) {
	ctx := Context{
		CurrentByCategory: map[core.ExpenseCategory]core.Money{
			core.CategoryFood: money(99900),
		},
		// No prior-month spending at all.
		LastByCategory: map[core.ExpenseCategory]core.Money{},
	}
	if got := advisoriesOfType(Evaluate(ctx), TypeWarning); len(got) != 0 {
		t.Errorf("expected no warnings without a baseline, got %v", got)
	}
}

func TestBudgetRuleCaution(t *testing.T) {
	// 850 spent of a 1000 budget: over 80%, not over budget.
	ctx := Context{
		CurrentByCategory: map[core.ExpenseCategory]core.Money{core.CategoryFood: money(85000)},
		Budget:            map[core.ExpenseCategory]core.Money{core.CategoryFood: money(100000)},
	}

	advisories := Evaluate(ctx)
	cautions := advisoriesOfType(advisories, TypeCaution)
	if len(cautions) != 1 {
		t.Fatalf("expected exactly 1 caution, got %d: %v", len(cautions), advisories)
	}
	if !strings.Contains(cautions[0].Message, "150.00 remaining") {
		t.Errorf("unexpected message: %q", cautions[0].Message)
	}
	if alerts := advisoriesOfType(advisories, TypeAlert); len(alerts) != 0 {
		t.Errorf("caution and alert must not both fire: %v", alerts)
	}
}

func TestBudgetRuleAlert(t *testing.T) {
	// 1050 spent of a 1000 budget: alert with the overage amount.
	ctx := Context{
		CurrentByCategory: map[core.ExpenseCategory]core.Money{core.CategoryFood: money(105000)},
		Budget:            map[core.ExpenseCategory]core.Money{core.CategoryFood: money(100000)},
	}

	advisories := Evaluate(ctx)
	alerts := advisoriesOfType(advisories, TypeAlert)
	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert, got %d: %v", len(alerts), advisories)
	}
	if !strings.Contains(alerts[0].Message, "50.00 over budget") {
		t.Errorf("unexpected message: %q", alerts[0].Message)
	}
	if cautions := advisoriesOfType(advisories, TypeCaution); len(cautions) != 0 {
		t.Errorf("caution and alert must not both fire: %v", cautions)
	}
}

func TestBudgetRuleExactlyAtBudget(t *testing.T) {
	// Spending exactly the budget is not over budget, but it is over 80%.
	ctx := Context{
		CurrentByCategory: map[core.ExpenseCategory]core.Money{core.CategoryFood: money(100000)},
		Budget:            map[core.ExpenseCategory]core.Money{core.CategoryFood: money(100000)},
	}
	advisories := Evaluate(ctx)
	if len(advisoriesOfType(advisories, TypeAlert)) != 0 {
		t.Error("spending equal to budget must not alert")
	}
	if len(advisoriesOfType(advisories, TypeCaution)) != 1 {
		t.Errorf("spending equal to budget should caution: %v", advisories)
	}
}

func TestSavingsRateRule(t *testing.T) {
	tests := []struct {
		name     string
		income   int64
		expenses int64
		wantType string // "" means silent
	}{
		{"low rate advises", 100000, 95000, TypeAdvice},
		{"high rate congratulates", 100000, 30000, TypeSuccess},
		{"middle band is silent", 100000, 80000, ""},
		{"boundary 10 is silent", 100000, 90000, ""},
		{"boundary 30 is silent", 100000, 70000, ""},
		{"no income is silent", 0, 50000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Context{TotalIncome: money(tt.income), TotalExpenses: money(tt.expenses)}
			got := Evaluate(ctx)
			if tt.wantType == "" {
				if len(got) != 0 {
					t.Errorf("expected silence, got %v", got)
				}
				return
			}
			if len(got) != 1 || got[0].Type != tt.wantType {
				t.Errorf("expected one %s advisory, got %v", tt.wantType, got)
			}
		})
	}
}

func TestCheapestPlaceRule(t *testing.T) {
	ctx := Context{
		Places: []analytics.PlaceStat{
			{Place: "Aldi", AvgAmount: money(1500), Count: 2},
			{Place: "Harrods", AvgAmount: money(5000), Count: 1},
		},
	}
	tips := advisoriesOfType(Evaluate(ctx), TypeTip)
	if len(tips) != 1 {
		t.Fatalf("expected 1 tip, got %v", tips)
	}
	if !strings.Contains(tips[0].Message, "Aldi") {
		t.Errorf("tip should name the cheapest place: %q", tips[0].Message)
	}
}

func TestEvaluateEmptyContext(t *testing.T) {
	if got := Evaluate(Context{}); len(got) != 0 {
		t.Errorf("empty context should yield no advisories, got %v", got)
	}
}

func TestBuildContext(t *testing.T) {
	now := time.Date(2025, time.June, 13, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		{UserID: 1, Amount: money(10000), Category: core.CategoryFood, Date: now.AddDate(0, 0, -1)},
		{UserID: 1, Amount: money(5000), Category: core.CategoryFood, Date: now.AddDate(0, -1, 0)},
	}
	incomes := []core.Income{
		{UserID: 1, Amount: money(200000), Source: core.SourceSalary, Date: now},
	}

	ctx := BuildContext(expenses, incomes, nil, now)
	if ctx.CurrentByCategory[core.CategoryFood].Cents != 10000 {
		t.Errorf("current Food = %d, want 10000", ctx.CurrentByCategory[core.CategoryFood].Cents)
	}
	if ctx.LastByCategory[core.CategoryFood].Cents != 5000 {
		t.Errorf("last Food = %d, want 5000", ctx.LastByCategory[core.CategoryFood].Cents)
	}
	if ctx.TotalIncome.Cents != 200000 {
		t.Errorf("TotalIncome = %d, want 200000", ctx.TotalIncome.Cents)
	}
	if ctx.TotalExpenses.Cents != 15000 {
		t.Errorf("TotalExpenses = %d, want 15000", ctx.TotalExpenses.Cents)
	}
}
