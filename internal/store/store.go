// Package store defines the persistence interface over which the
// analytics and transport layers operate. Implementations live in the
// memory, sqlite and postgres subpackages and are selected through the
// backend factory.
package store

import (
	"context"

	"fintrack/internal/core"
)

// ExpenseStore persists expense records.
type ExpenseStore interface {
	// CreateExpense stores e and fills in its assigned ID.
	CreateExpense(ctx context.Context, e *core.Expense) error
	// GetExpense returns core.ErrNotFound when the id is absent.
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	// ListExpenses returns all expenses owned by userID, newest first.
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// IncomeStore persists income records.
type IncomeStore interface {
	CreateIncome(ctx context.Context, i *core.Income) error
	GetIncome(ctx context.Context, id int64) (core.Income, error)
	ListIncomes(ctx context.Context, userID int64) ([]core.Income, error)
	UpdateIncome(ctx context.Context, i core.Income) error
	DeleteIncome(ctx context.Context, id int64) error
}

// GoalStore persists savings goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g *core.SavingsGoal) error
	GetGoal(ctx context.Context, id int64) (core.SavingsGoal, error)
	// ListGoals returns all goals owned by userID, earliest deadline first.
	ListGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error)
	UpdateGoal(ctx context.Context, g core.SavingsGoal) error
	DeleteGoal(ctx context.Context, id int64) error
}

// BillStore persists bill reminders.
type BillStore interface {
	CreateBill(ctx context.Context, b *core.BillReminder) error
	GetBill(ctx context.Context, id int64) (core.BillReminder, error)
	// ListBills returns all reminders owned by userID, by due day ascending.
	ListBills(ctx context.Context, userID int64) ([]core.BillReminder, error)
	// ListUnpaidBills returns every unpaid reminder across all users; the
	// reminder worker scans these.
	ListUnpaidBills(ctx context.Context) ([]core.BillReminder, error)
	UpdateBill(ctx context.Context, b core.BillReminder) error
	DeleteBill(ctx context.Context, id int64) error
}

// UserStore persists users and their budget maps.
type UserStore interface {
	CreateUser(ctx context.Context, u *core.User) error
	GetUser(ctx context.Context, id int64) (core.User, error)
	GetUserByUsername(ctx context.Context, username string) (core.User, error)
	UpdateUserBudget(ctx context.Context, userID int64, budget map[core.ExpenseCategory]core.Money) error
}

// Store is the full persistence surface the application needs.
type Store interface {
	ExpenseStore
	IncomeStore
	GoalStore
	BillStore
	UserStore

	Close() error
}
