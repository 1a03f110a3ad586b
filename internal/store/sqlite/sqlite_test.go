package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fintrack/internal/core"
)

// StoreTestSuite runs the CRUD surface against a fresh on-disk database
// per test; migrations need a real file, not :memory:.
type StoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	st, err := Open(filepath.Join(s.T().TempDir(), "test.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.store = st
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *StoreTestSuite) createUser(username string) core.User {
	u := core.User{Username: username, PasswordHash: "hash"}
	require.NoError(s.T(), s.store.CreateUser(s.ctx, &u))
	return u
}

func (s *StoreTestSuite) TestExpenseRoundTrip() {
	u := s.createUser("alice")

	e := core.Expense{
		UserID:      u.ID,
		Amount:      core.Money{Cents: 1234},
		Category:    core.CategoryFood,
		Place:       "Aldi",
		Description: "groceries",
		Date:        time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(s.T(), s.store.CreateExpense(s.ctx, &e))
	require.NotZero(s.T(), e.ID)

	got, err := s.store.GetExpense(s.ctx, e.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1234), got.Amount.Cents)
	assert.Equal(s.T(), core.CategoryFood, got.Category)
	assert.Equal(s.T(), "Aldi", got.Place)
	assert.True(s.T(), got.Date.Equal(e.Date), "date should round-trip")
}

func (s *StoreTestSuite) TestExpenseNotFound() {
	_, err := s.store.GetExpense(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)

	err = s.store.DeleteExpense(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)

	err = s.store.UpdateExpense(s.ctx, core.Expense{ID: 9999, Category: core.CategoryFood})
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *StoreTestSuite) TestListExpensesNewestFirst() {
	u := s.createUser("alice")
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := core.Expense{UserID: u.ID, Amount: core.Money{Cents: 100}, Category: core.CategoryFood, Date: base.AddDate(0, 0, i)}
		require.NoError(s.T(), s.store.CreateExpense(s.ctx, &e))
	}

	list, err := s.store.ListExpenses(s.ctx, u.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	assert.True(s.T(), list[0].Date.After(list[1].Date), "newest first")
}

func (s *StoreTestSuite) TestIncomeRoundTrip() {
	u := s.createUser("alice")
	i := core.Income{UserID: u.ID, Amount: core.Money{Cents: 500000}, Source: core.SourceSalary, Date: time.Now().UTC()}
	require.NoError(s.T(), s.store.CreateIncome(s.ctx, &i))

	got, err := s.store.GetIncome(s.ctx, i.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), core.SourceSalary, got.Source)
	assert.Equal(s.T(), int64(500000), got.Amount.Cents)
}

func (s *StoreTestSuite) TestGoalCompletion() {
	u := s.createUser("alice")
	g := core.SavingsGoal{
		UserID:       u.ID,
		Title:        "Emergency fund",
		TargetAmount: core.Money{Cents: 1000000},
		Deadline:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Category:     core.GoalEmergency,
		Icon:         core.DefaultGoalIcon,
	}
	require.NoError(s.T(), s.store.CreateGoal(s.ctx, &g))

	g.CurrentAmount = core.Money{Cents: 1000000}
	g.IsCompleted = true
	require.NoError(s.T(), s.store.UpdateGoal(s.ctx, g))

	got, err := s.store.GetGoal(s.ctx, g.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.IsCompleted)
	assert.Equal(s.T(), core.DefaultGoalIcon, got.Icon)
}

func (s *StoreTestSuite) TestBillPaymentDates() {
	u := s.createUser("alice")
	b := core.BillReminder{
		UserID:       u.ID,
		Title:        "Internet",
		Amount:       core.Money{Cents: 4500},
		Category:     core.BillInternet,
		DueDay:       12,
		ReminderDays: core.DefaultReminderDays,
		IsRecurring:  true,
	}
	require.NoError(s.T(), s.store.CreateBill(s.ctx, &b))

	got, err := s.store.GetBill(s.ctx, b.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.LastPaidDate.IsZero(), "unpaid bill has no payment date")

	got.IsPaid = true
	got.LastPaidDate = time.Date(2025, time.June, 12, 9, 0, 0, 0, time.UTC)
	require.NoError(s.T(), s.store.UpdateBill(s.ctx, got))

	paid, err := s.store.GetBill(s.ctx, b.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), paid.IsPaid)
	assert.True(s.T(), paid.LastPaidDate.Equal(got.LastPaidDate))
}

func (s *StoreTestSuite) TestListUnpaidBillsAcrossUsers() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	unpaid := core.BillReminder{UserID: alice.ID, Title: "Rent", Amount: core.Money{Cents: 100000}, Category: core.BillRent, DueDay: 1}
	paid := core.BillReminder{UserID: bob.ID, Title: "Phone", Amount: core.Money{Cents: 2000}, Category: core.BillPhone, DueDay: 5, IsPaid: true}
	require.NoError(s.T(), s.store.CreateBill(s.ctx, &unpaid))
	require.NoError(s.T(), s.store.CreateBill(s.ctx, &paid))

	got, err := s.store.ListUnpaidBills(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), "Rent", got[0].Title)
}

func (s *StoreTestSuite) TestUserBudgetRoundTrip() {
	u := s.createUser("alice")

	budget := map[core.ExpenseCategory]core.Money{
		core.CategoryFood:   {Cents: 50000},
		core.CategoryTravel: {Cents: 20000},
	}
	require.NoError(s.T(), s.store.UpdateUserBudget(s.ctx, u.ID, budget))

	got, err := s.store.GetUser(s.ctx, u.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(50000), got.Budget[core.CategoryFood].Cents)
	assert.Equal(s.T(), int64(20000), got.Budget[core.CategoryTravel].Cents)
}

func (s *StoreTestSuite) TestDuplicateUsername() {
	s.createUser("alice")
	dup := core.User{Username: "alice", PasswordHash: "other"}
	err := s.store.CreateUser(s.ctx, &dup)
	assert.ErrorIs(s.T(), err, core.ErrUsernameTaken)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
