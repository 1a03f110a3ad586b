package http

import (
	"time"

	"fintrack/internal/core"
)

// Response shapes for the JSON API. Amounts render as plain numbers with
// two decimals via core.Money's marshaller.

type expenseResponse struct {
	ID          int64                `json:"id"`
	Amount      core.Money           `json:"amount"`
	Category    core.ExpenseCategory `json:"category"`
	Place       string               `json:"place,omitempty"`
	Description string               `json:"description,omitempty"`
	Date        time.Time            `json:"date"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Place:       e.Place,
		Description: e.Description,
		Date:        e.Date,
	}
}

type incomeResponse struct {
	ID          int64             `json:"id"`
	Amount      core.Money        `json:"amount"`
	Source      core.IncomeSource `json:"source"`
	Description string            `json:"description,omitempty"`
	Date        time.Time         `json:"date"`
}

func toIncomeResponse(i core.Income) incomeResponse {
	return incomeResponse{
		ID:          i.ID,
		Amount:      i.Amount,
		Source:      i.Source,
		Description: i.Description,
		Date:        i.Date,
	}
}

type goalResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	TargetAmount  core.Money        `json:"targetAmount"`
	CurrentAmount core.Money        `json:"currentAmount"`
	Deadline      *time.Time        `json:"deadline,omitempty"`
	Category      core.GoalCategory `json:"category"`
	Icon          string            `json:"icon"`
	IsCompleted   bool              `json:"isCompleted"`
}

func toGoalResponse(g core.SavingsGoal) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Category:      g.Category,
		Icon:          g.Icon,
		IsCompleted:   g.IsCompleted,
	}
	if !g.Deadline.IsZero() {
		d := g.Deadline
		resp.Deadline = &d
	}
	return resp
}

type billResponse struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Amount       core.Money        `json:"amount"`
	Category     core.BillCategory `json:"category"`
	DueDay       int               `json:"dueDay"`
	ReminderDays int               `json:"reminderDays"`
	IsRecurring  bool              `json:"isRecurring"`
	IsPaid       bool              `json:"isPaid"`
	LastPaidDate *time.Time        `json:"lastPaidDate,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

func toBillResponse(b core.BillReminder) billResponse {
	resp := billResponse{
		ID:           b.ID,
		Title:        b.Title,
		Amount:       b.Amount,
		Category:     b.Category,
		DueDay:       b.DueDay,
		ReminderDays: b.ReminderDays,
		IsRecurring:  b.IsRecurring,
		IsPaid:       b.IsPaid,
		Notes:        b.Notes,
	}
	if !b.LastPaidDate.IsZero() {
		d := b.LastPaidDate
		resp.LastPaidDate = &d
	}
	return resp
}
