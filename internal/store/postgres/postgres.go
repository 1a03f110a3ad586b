// Package postgres is the PostgreSQL store backend, built on pgx. Schema
// setup is idempotent and runs at open time; the column layout mirrors
// the sqlite backend.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
)

type Store struct {
	pool *pgxpool.Pool
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		budget_json   JSONB NOT NULL DEFAULT '{}',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id),
		amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
		category     TEXT NOT NULL,
		place        TEXT NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		date         TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date)`,
	`CREATE TABLE IF NOT EXISTS incomes (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id),
		amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
		source       TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		date         TIMESTAMPTZ NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_date ON incomes(user_id, date)`,
	`CREATE TABLE IF NOT EXISTS savings_goals (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id),
		title         TEXT NOT NULL,
		target_cents  BIGINT NOT NULL CHECK (target_cents >= 0),
		current_cents BIGINT NOT NULL DEFAULT 0 CHECK (current_cents >= 0),
		deadline      TIMESTAMPTZ NOT NULL,
		category      TEXT NOT NULL,
		icon          TEXT NOT NULL DEFAULT '',
		is_completed  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bill_reminders (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users(id),
		title          TEXT NOT NULL,
		amount_cents   BIGINT NOT NULL CHECK (amount_cents >= 0),
		category       TEXT NOT NULL,
		due_day        INT NOT NULL CHECK (due_day BETWEEN 1 AND 31),
		reminder_days  INT NOT NULL DEFAULT 3,
		is_recurring   BOOLEAN NOT NULL DEFAULT TRUE,
		is_paid        BOOLEAN NOT NULL DEFAULT FALSE,
		last_paid_date TIMESTAMPTZ,
		notes          TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Open connects to the database at url and ensures the schema exists.
func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO expenses (user_id, amount_cents, category, place, description, date)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.UserID, e.Amount.Cents, string(e.Category), e.Place, e.Description, e.Date.UTC()).
		Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, amount_cents, category, place, description, date
		 FROM expenses WHERE id = $1`, id)
	return scanExpense(row)
}

func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, amount_cents, category, place, description, date
		 FROM expenses WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE expenses SET amount_cents = $1, category = $2, place = $3, description = $4, date = $5
		 WHERE id = $6`,
		e.Amount.Cents, string(e.Category), e.Place, e.Description, e.Date.UTC(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) CreateIncome(ctx context.Context, i *core.Income) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO incomes (user_id, amount_cents, source, description, date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		i.UserID, i.Amount.Cents, string(i.Source), i.Description, i.Date.UTC()).
		Scan(&i.ID)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (s *Store) GetIncome(ctx context.Context, id int64) (core.Income, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, amount_cents, source, description, date
		 FROM incomes WHERE id = $1`, id)
	return scanIncome(row)
}

func (s *Store) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, amount_cents, source, description, date
		 FROM incomes WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE incomes SET amount_cents = $1, source = $2, description = $3, date = $4
		 WHERE id = $5`,
		i.Amount.Cents, string(i.Source), i.Description, i.Date.UTC(), i.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM incomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) CreateGoal(ctx context.Context, g *core.SavingsGoal) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO savings_goals (user_id, title, target_cents, current_cents, deadline, category, icon, is_completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		g.UserID, g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline.UTC(), string(g.Category), g.Icon, g.IsCompleted).
		Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *Store) GetGoal(ctx context.Context, id int64) (core.SavingsGoal, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category, icon, is_completed
		 FROM savings_goals WHERE id = $1`, id)
	return scanGoal(row)
}

func (s *Store) ListGoals(ctx context.Context, userID int64) ([]core.SavingsGoal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, target_cents, current_cents, deadline, category, icon, is_completed
		 FROM savings_goals WHERE user_id = $1 ORDER BY deadline ASC, id ASC`, userID)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE savings_goals SET title = $1, target_cents = $2, current_cents = $3, deadline = $4, category = $5, icon = $6, is_completed = $7
		 WHERE id = $8`,
		g.Title, g.TargetAmount.Cents, g.CurrentAmount.Cents, g.Deadline.UTC(),
		string(g.Category), g.Icon, g.IsCompleted, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) DeleteGoal(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) CreateBill(ctx context.Context, b *core.BillReminder) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO bill_reminders (user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		b.UserID, b.Title, b.Amount.Cents, string(b.Category), b.DueDay,
		b.ReminderDays, b.IsRecurring, b.IsPaid, nullTime(b.LastPaidDate), b.Notes).
		Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("insert bill reminder: %w", err)
	}
	return nil
}

func (s *Store) GetBill(ctx context.Context, id int64) (core.BillReminder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE id = $1`, id)
	return scanBill(row)
}

func (s *Store) ListBills(ctx context.Context, userID int64) ([]core.BillReminder, error) {
	return s.queryBills(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE user_id = $1 ORDER BY due_day ASC, id ASC`, userID)
}

func (s *Store) ListUnpaidBills(ctx context.Context) ([]core.BillReminder, error) {
	return s.queryBills(ctx,
		`SELECT id, user_id, title, amount_cents, category, due_day, reminder_days, is_recurring, is_paid, last_paid_date, notes
		 FROM bill_reminders WHERE NOT is_paid ORDER BY due_day ASC, id ASC`)
}

func (s *Store) queryBills(ctx context.Context, query string, args ...any) ([]core.BillReminder, error) {
	rows, err := s.pool.Query(ctx, query, args...)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE bill_reminders SET title = $1, amount_cents = $2, category = $3, due_day = $4, reminder_days = $5, is_recurring = $6, is_paid = $7, last_paid_date = $8, notes = $9
		 WHERE id = $10`,
		b.Title, b.Amount.Cents, string(b.Category), b.DueDay, b.ReminderDays,
		b.IsRecurring, b.IsPaid, nullTime(b.LastPaidDate), b.Notes, b.ID)
	if err != nil {
		return fmt.Errorf("update bill reminder: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM bill_reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill reminder: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	budgetJSON, err := json.Marshal(orEmptyBudget(u.Budget))
	if err != nil {
		return fmt.Errorf("encode budget: %w", err)
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, budget_json) VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.PasswordHash, budgetJSON).
		Scan(&u.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return core.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, budget_json FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, budget_json FROM users WHERE lower(username) = lower($1)`, username)
	return scanUser(row)
}

func (s *Store) UpdateUserBudget(ctx context.Context, userID int64, budget map[core.ExpenseCategory]core.Money) error {
	budgetJSON, err := json.Marshal(orEmptyBudget(budget))
	if err != nil {
		return fmt.Errorf("encode budget: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET budget_json = $1 WHERE id = $2`, budgetJSON, userID)
	if err != nil {
		return fmt.Errorf("update user budget: %w", err)
	}
	return requireRow(tag.RowsAffected())
}

func scanExpense(row pgx.Row) (core.Expense, error) {
	var e core.Expense
	var category string
	err := row.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &category, &e.Place, &e.Description, &e.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = core.ExpenseCategory(category)
	return e, nil
}

func scanIncome(row pgx.Row) (core.Income, error) {
	var i core.Income
	var source string
	err := row.Scan(&i.ID, &i.UserID, &i.Amount.Cents, &source, &i.Description, &i.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("scan income: %w", err)
	}
	i.Source = core.IncomeSource(source)
	return i, nil
}

func scanGoal(row pgx.Row) (core.SavingsGoal, error) {
	var g core.SavingsGoal
	var category string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&g.Deadline, &category, &g.Icon, &g.IsCompleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.SavingsGoal{}, core.ErrNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("scan goal: %w", err)
	}
	g.Category = core.GoalCategory(category)
	return g, nil
}

func scanBill(row pgx.Row) (core.BillReminder, error) {
	var b core.BillReminder
	var category string
	var lastPaid sql.NullTime
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Amount.Cents, &category, &b.DueDay,
		&b.ReminderDays, &b.IsRecurring, &b.IsPaid, &lastPaid, &b.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
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

func scanUser(row pgx.Row) (core.User, error) {
	var u core.User
	var budgetJSON []byte
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &budgetJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	if err := json.Unmarshal(budgetJSON, &u.Budget); err != nil {
		return core.User{}, fmt.Errorf("decode budget: %w", err)
	}
	if len(u.Budget) == 0 {
		u.Budget = nil
	}
	return u, nil
}

func orEmptyBudget(budget map[core.ExpenseCategory]core.Money) map[core.ExpenseCategory]core.Money {
	if budget == nil {
		return map[core.ExpenseCategory]core.Money{}
	}
	return budget
}

func requireRow(n int64) error {
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
