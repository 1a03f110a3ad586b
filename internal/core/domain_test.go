package core

import (
	"errors"
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		UserID:   1,
		Amount:   Money{Cents: 2500},
		Category: CategoryFood,
		Date:     time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"unknown category", func(e *Expense) { e.Category = "Gambling" }, ErrInvalidCategory},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("zero amount allowed", func(t *testing.T) {
		e := valid
		e.Amount = Money{}
		if err := e.Validate(); err != nil {
			t.Errorf("zero amount should be valid: %v", err)
		}
	})
}

func TestIncomeValidate(t *testing.T) {
	valid := Income{UserID: 1, Amount: Money{Cents: 500000}, Source: SourceSalary, Date: time.Now()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}

	i := valid
	i.Source = "Lottery"
	if err := i.Validate(); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("unknown source: Validate() = %v, want %v", err, ErrInvalidSource)
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	valid := SavingsGoal{
		UserID:       1,
		Title:        "Bali trip",
		TargetAmount: Money{Cents: 1000000},
		Deadline:     time.Now().AddDate(1, 0, 0),
		Category:     GoalVacation,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*SavingsGoal)
		wantErr error
	}{
		{"blank title", func(g *SavingsGoal) { g.Title = "   " }, ErrEmptyTitle},
		{"negative target", func(g *SavingsGoal) { g.TargetAmount = Money{Cents: -1} }, ErrInvalidAmount},
		{"unknown category", func(g *SavingsGoal) { g.Category = "Yacht" }, ErrInvalidCategory},
		{"missing deadline", func(g *SavingsGoal) { g.Deadline = time.Time{} }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			if err := g.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBillReminderValidate(t *testing.T) {
	valid := BillReminder{
		UserID:   1,
		Title:    "Rent",
		Amount:   Money{Cents: 120000},
		Category: BillRent,
		DueDay:   1,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid bill rejected: %v", err)
	}

	for _, day := range []int{0, -3, 32} {
		b := valid
		b.DueDay = day
		if err := b.Validate(); !errors.Is(err, ErrInvalidDueDay) {
			t.Errorf("DueDay=%d: Validate() = %v, want %v", day, err, ErrInvalidDueDay)
		}
	}

	// Boundary days are valid.
	for _, day := range []int{1, 31} {
		b := valid
		b.DueDay = day
		if err := b.Validate(); err != nil {
			t.Errorf("DueDay=%d should be valid: %v", day, err)
		}
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Username: "alice", Budget: map[ExpenseCategory]Money{CategoryFood: {Cents: 50000}}}
	if err := u.Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	u.Budget["Gambling"] = Money{Cents: 100}
	if err := u.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("bad budget category: Validate() = %v, want %v", err, ErrInvalidCategory)
	}

	empty := User{Username: "  "}
	if err := empty.Validate(); !errors.Is(err, ErrEmptyUsername) {
		t.Errorf("blank username: Validate() = %v, want %v", err, ErrEmptyUsername)
	}
}

func TestOwnedBy(t *testing.T) {
	e := Expense{UserID: 7}
	if !e.OwnedBy(7) {
		t.Error("owner should pass ownership check")
	}
	if e.OwnedBy(8) {
		t.Error("non-owner should fail ownership check")
	}
}
