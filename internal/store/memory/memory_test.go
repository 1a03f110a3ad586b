package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestExpenseCRUD(t *testing.T) {
	st := New()
	ctx := context.Background()

	e := core.Expense{UserID: 1, Amount: core.Money{Cents: 1500}, Category: core.CategoryFood, Date: time.Now()}
	if err := st.CreateExpense(ctx, &e); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("CreateExpense must assign an ID")
	}

	got, err := st.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got.Amount.Cents != 1500 {
		t.Errorf("Amount = %d, want 1500", got.Amount.Cents)
	}

	got.Amount = core.Money{Cents: 2000}
	if err := st.UpdateExpense(ctx, got); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	updated, _ := st.GetExpense(ctx, e.ID)
	if updated.Amount.Cents != 2000 {
		t.Errorf("update not persisted: %d", updated.Amount.Cents)
	}

	if err := st.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if _, err := st.GetExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetExpense after delete = %v, want ErrNotFound", err)
	}
	if err := st.DeleteExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestListExpensesScopedAndOrdered(t *testing.T) {
	st := New()
	ctx := context.Background()
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		e := core.Expense{UserID: 1, Amount: core.Money{Cents: int64(100 * (i + 1))}, Category: core.CategoryFood, Date: base.AddDate(0, 0, i)}
		if err := st.CreateExpense(ctx, &e); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}
	other := core.Expense{UserID: 2, Amount: core.Money{Cents: 999}, Category: core.CategoryTravel, Date: base}
	if err := st.CreateExpense(ctx, &other); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	list, err := st.ListExpenses(ctx, 1)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 expenses for user 1, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date) {
			t.Errorf("expenses not sorted newest first: %v before %v", list[i-1].Date, list[i].Date)
		}
	}
}

func TestGoalCRUD(t *testing.T) {
	st := New()
	ctx := context.Background()

	g := core.SavingsGoal{
		UserID:       1,
		Title:        "New laptop",
		TargetAmount: core.Money{Cents: 150000},
		Deadline:     time.Now().AddDate(0, 6, 0),
		Category:     core.GoalGadget,
		Icon:         core.DefaultGoalIcon,
	}
	if err := st.CreateGoal(ctx, &g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	g.CurrentAmount = core.Money{Cents: 150000}
	g.IsCompleted = true
	if err := st.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	got, err := st.GetGoal(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if !got.IsCompleted {
		t.Error("completion flag not persisted")
	}
}

func TestListUnpaidBills(t *testing.T) {
	st := New()
	ctx := context.Background()

	paid := core.BillReminder{UserID: 1, Title: "Rent", Amount: core.Money{Cents: 100000}, Category: core.BillRent, DueDay: 1, IsPaid: true}
	unpaid := core.BillReminder{UserID: 2, Title: "Internet", Amount: core.Money{Cents: 4000}, Category: core.BillInternet, DueDay: 15}
	for _, b := range []*core.BillReminder{&paid, &unpaid} {
		if err := st.CreateBill(ctx, b); err != nil {
			t.Fatalf("CreateBill: %v", err)
		}
	}

	got, err := st.ListUnpaidBills(ctx)
	if err != nil {
		t.Fatalf("ListUnpaidBills: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Internet" {
		t.Errorf("ListUnpaidBills = %v, want just the unpaid bill", got)
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	st := New()
	ctx := context.Background()

	u := core.User{Username: "alice", PasswordHash: "x"}
	if err := st.CreateUser(ctx, &u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := core.User{Username: "ALICE", PasswordHash: "y"}
	if err := st.CreateUser(ctx, &dup); !errors.Is(err, core.ErrUsernameTaken) {
		t.Errorf("CreateUser duplicate = %v, want ErrUsernameTaken", err)
	}
}

func TestUpdateUserBudget(t *testing.T) {
	st := New()
	ctx := context.Background()

	u := core.User{Username: "bob", PasswordHash: "x"}
	if err := st.CreateUser(ctx, &u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	budget := map[core.ExpenseCategory]core.Money{core.CategoryFood: {Cents: 50000}}
	if err := st.UpdateUserBudget(ctx, u.ID, budget); err != nil {
		t.Fatalf("UpdateUserBudget: %v", err)
	}

	// Mutating the caller's map must not affect the stored copy.
	budget[core.CategoryFood] = core.Money{Cents: 1}

	got, err := st.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Budget[core.CategoryFood].Cents != 50000 {
		t.Errorf("budget = %d, want 50000", got.Budget[core.CategoryFood].Cents)
	}

	if err := st.UpdateUserBudget(ctx, 999, budget); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateUserBudget for missing user = %v, want ErrNotFound", err)
	}
}
