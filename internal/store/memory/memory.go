// Package memory is the mutex-guarded in-memory store backend, used as
// the default development backend and throughout the tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fintrack/internal/core"
)

type Store struct {
	mu sync.Mutex

	nextID   int64
	expenses map[int64]core.Expense
	incomes  map[int64]core.Income
	goals    map[int64]core.SavingsGoal
	bills    map[int64]core.BillReminder
	users    map[int64]core.User
}

func New() *Store {
	return &Store{
		expenses: make(map[int64]core.Expense),
		incomes:  make(map[int64]core.Income),
		goals:    make(map[int64]core.SavingsGoal),
		bills:    make(map[int64]core.BillReminder),
		users:    make(map[int64]core.User),
	}
}

func (s *Store) Close() error { return nil }

// id allocates the next record ID. Callers must hold s.mu.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, userID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		return core.ErrNotFound
	}
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) CreateIncome(_ context.Context, i *core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i.ID = s.id()
	s.incomes[i.ID] = *i
	return nil
}

func (s *Store) GetIncome(_ context.Context, id int64) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.incomes[id]
	if !ok {
		return core.Income{}, core.ErrNotFound
	}
	return in, nil
}

func (s *Store) ListIncomes(_ context.Context, userID int64) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Income
	for _, in := range s.incomes {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) UpdateIncome(_ context.Context, i core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[i.ID]; !ok {
		return core.ErrNotFound
	}
	s.incomes[i.ID] = i
	return nil
}

func (s *Store) DeleteIncome(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.incomes, id)
	return nil
}

func (s *Store) CreateGoal(_ context.Context, g *core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) GetGoal(_ context.Context, id int64) (core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SavingsGoal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) ListGoals(_ context.Context, userID int64) ([]core.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.SavingsGoal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return core.ErrNotFound
	}
	s.goals[g.ID] = g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) CreateBill(_ context.Context, b *core.BillReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.bills[b.ID] = *b
	return nil
}

func (s *Store) GetBill(_ context.Context, id int64) (core.BillReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills[id]
	if !ok {
		return core.BillReminder{}, core.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBills(_ context.Context, userID int64) ([]core.BillReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.BillReminder
	for _, b := range s.bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortBills(out)
	return out, nil
}

func (s *Store) ListUnpaidBills(_ context.Context) ([]core.BillReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.BillReminder
	for _, b := range s.bills {
		if !b.IsPaid {
			out = append(out, b)
		}
	}
	sortBills(out)
	return out, nil
}

func sortBills(bills []core.BillReminder) {
	sort.Slice(bills, func(i, j int) bool {
		if bills[i].DueDay != bills[j].DueDay {
			return bills[i].DueDay < bills[j].DueDay
		}
		return bills[i].ID < bills[j].ID
	})
}

func (s *Store) UpdateBill(_ context.Context, b core.BillReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[b.ID]; !ok {
		return core.ErrNotFound
	}
	s.bills[b.ID] = b
	return nil
}

func (s *Store) DeleteBill(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bills[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.bills, id)
	return nil
}

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return core.ErrUsernameTaken
		}
	}
	u.ID = s.id()
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) UpdateUserBudget(_ context.Context, userID int64, budget map[core.ExpenseCategory]core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.Budget = cloneBudget(budget)
	s.users[userID] = u
	return nil
}

// cloneUser copies the budget map so callers cannot mutate shared state.
func cloneUser(u core.User) core.User {
	u.Budget = cloneBudget(u.Budget)
	return u
}

func cloneBudget(budget map[core.ExpenseCategory]core.Money) map[core.ExpenseCategory]core.Money {
	if budget == nil {
		return nil
	}
	out := make(map[core.ExpenseCategory]core.Money, len(budget))
	for k, v := range budget {
		out[k] = v
	}
	return out
}
