// Package sqlite is the SQLite store backend, built on modernc.org/sqlite
// (CGO-free) with embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount_cents, category, place, description, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Cents, string(e.Category), e.Place, e.Description, e.Date.UTC())
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("expense insert id: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, category, place, description, date
		 FROM expenses WHERE id = ?`, id)
	return scanExpense(row)
}

func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, category, place, description, date
		 FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, category = ?, place = ?, description = ?, date = ?
		 WHERE id = ?`,
		e.Amount.Cents, string(e.Category), e.Place, e.Description, e.Date.UTC(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateIncome(ctx context.Context, i *core.Income) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, amount_cents, source, description, date)
		 VALUES (?, ?, ?, ?, ?)`,
		i.UserID, i.Amount.Cents, string(i.Source), i.Description, i.Date.UTC())
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	i.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("income insert id: %w", err)
	}
	return nil
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, source, description, date
		 FROM incomes WHERE id = ?`, id)
	return scanIncome(row)
}

func (s *Store) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, source, description, date
		 FROM incomes WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) UpdateIncome(ctx context.Context, i core.Income) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE incomes SET amount_cents = ?, source = ?, description = ?, date = ?
		 WHERE id = ?`,
		i.Amount.Cents, string(i.Source), i.Description, i.Date.UTC(), i.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateGoal(ctx context.Context, g *core.SavingsGoal) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO savings_goals (user_id, title, target_cents, current_cents, deadline, category, icon, is_completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline.UTC(), string(g.Category), g.Icon, g.IsCompleted)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("goal insert id: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category, icon, is_completed
		 FROM savings_goals WHERE id = ?`, id)
	return scanGoal(row)
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category, icon, is_completed
		 FROM savings_goals WHERE user_id = ? ORDER BY deadline ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE savings_goals SET title = ?, target_cents = ?, current_cents = ?, deadline = ?, category = ?, icon = ?, is_completed = ?
		 WHERE id = ?`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.UTC(),
		string(g.Category), g.Icon, g.IsCompleted, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateBill(ctx context.Context, b *core.BillReminder) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bill_reminders (user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Title, b.Amount.Cents, string(b.Category), b.DueDay,
		b.ReminderDays, b.IsRecurring, b.IsPaid, nullTime(b.LastPaidDate), b.Notes)
	if err != nil {
		return fmt.Errorf("insert bill reminder: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("bill insert id: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, id int64) (core.BillReminder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE id = ?`, id)
	return scanBill(row)
}

func (s *Store) ListBills(ctx context.Context, userID int64) ([]core.BillReminder, error) {
	return s.queryBills(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE user_id = ? ORDER BY due_day ASC, id ASC`, userID)
}

func (s *Store) ListUnpaidBills(ctx context.Context) ([]core.BillReminder, error) {
	return s.queryBills(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE is_paid = 0 ORDER BY due_day ASC, id ASC`)
}

func (s *Store) queryBills(ctx context.Context, query string, args ...any) ([]core.BillReminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bill reminders: %w", err)
	}
	defer rows.Close()

	var out []core.BillReminder
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) UpdateBill(ctx context.Context, b core.BillReminder) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bill_reminders SET title = ?, amount_cents = ?, category = ?, due_day = ?, reminder_days = ?, is_recurring = ?, is_paid = ?, last_paid_date = ?, notes = ?
		 WHERE id = ?`,
		b.Title, b.Amount.Cents, string(b.Category), b.DueDay, b.ReminderDays,
		b.IsRecurring, b.IsPaid, nullTime(b.LastPaidDate), b.Notes, b.ID)
	if err != nil {
		return fmt.Errorf("update bill reminder: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bill_reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill reminder: %w", err)
	}
	return requireRow(res)
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	budgetJSON, err := marshalBudget(u.Budget)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, budget_json) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, budgetJSON)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user insert id: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, budget_json FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, budget_json FROM users WHERE username = ? COLLATE NOCASE`, username)
	return scanUser(row)
}

func (s *Store) UpdateUserBudget(ctx context.Context, userID int64, budget map[core.ExpenseCategory]core.Money) error {
	budgetJSON, err := marshalBudget(budget)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET budget_json = ? WHERE id = ?`, budgetJSON, userID)
	if err != nil {
		return fmt.Errorf("update user budget: %w", err)
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (core.Expense, error) {
	var e core.Expense
	var category string
	err := row.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &category, &e.Place, &e.Description, &e.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = core.ExpenseCategory(category)
	return e, nil
}

func scanIncome(row scanner) (core.Income, error) {
	var i core.Income
	var source string
	err := row.Scan(&i.ID, &i.UserID, &i.Amount.Cents, &source, &i.Description, &i.Date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	i.Source = core.IncomeSource(source)
	return i, nil
}

func scanGoal(row scanner) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var category string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&g.Deadline, &category, &g.Icon, &g.IsCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, core.ErrNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("scan goal: %w", err)
	}
	g.Category = core.GoalCategory(category)
	return g, nil
}

func scanBill(row scanner) (core.BillReminder, error) {
	var b core.BillReminder
	var category string
	var lastPaid sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Amount.Cents, &category, &b.DueDay,
		&b.ReminderDays, &b.IsRecurring, &b.IsPaid, &lastPaid, &b.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BillReminder{}, core.ErrNotFound
	}
	if err != nil {
		return core.BillReminder{}, fmt.Errorf("scan bill reminder: %w", err)
	}
	b.Category = core.BillCategory(category)
	if lastPaid.Valid {
		b.LastPaidDate = lastPaid.Time
	}
	return b, nil
}

func scanUser(row scanner) (core.User, error) {
	var u core.User
	var budgetJSON string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &budgetJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal([]byte(budgetJSON), &u.Budget); err != nil {
		return core.User{}, fmt.Errorf("decode budget: %w", err)
	}
	if len(u.Budget) == 0 {
		u.Budget = nil
	}
	return u, nil
}

// marshalBudget stores the category budget map as a JSON column; the map
// is small and never queried by key in SQL.
func marshalBudget(budget map[core.ExpenseCategory]core.Money) (string, error) {
	if budget == nil {
		budget = map[core.ExpenseCategory]core.Money{}
	}
	raw, err := json.Marshal(budget)
	if err != nil {
		return "", fmt.Errorf("encode budget: %w", err)
	}
	return string(raw), nil
}

// requireRow maps zero affected rows to core.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
