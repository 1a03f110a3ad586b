package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryFood          ExpenseCategory = "Food"
	CategoryTravel        ExpenseCategory = "Travel"
	CategoryShopping      ExpenseCategory = "Shopping"
	CategoryEntertainment ExpenseCategory = "Entertainment"
	CategoryBills         ExpenseCategory = "Bills"
	CategoryHealthcare    ExpenseCategory = "Healthcare"
	CategoryEducation     ExpenseCategory = "Education"
	CategoryOther         ExpenseCategory = "Other"
)

const (
	SourceSalary     IncomeSource = "Salary"
	SourceFreelance  IncomeSource = "Freelance"
	SourceInvestment IncomeSource = "Investment"
	SourceBusiness   IncomeSource = "Business"
	SourceGift       IncomeSource = "Gift"
	SourceOther      IncomeSource = "Other"
)

const (
	GoalVacation  GoalCategory = "Vacation"
	GoalEmergency GoalCategory = "Emergency Fund"
	GoalCar       GoalCategory = "Car"
	GoalHouse     GoalCategory = "House"
	GoalEducation GoalCategory = "Education"
	GoalWedding   GoalCategory = "Wedding"
	GoalGadget    GoalCategory = "Gadget"
	GoalOther     GoalCategory = "Other"
)

const (
	BillRent         BillCategory = "Rent"
	BillElectricity  BillCategory = "Electricity"
	BillWater        BillCategory = "Water"
	BillInternet     BillCategory = "Internet"
	BillPhone        BillCategory = "Phone"
	BillInsurance    BillCategory = "Insurance"
	BillLoanEMI      BillCategory = "Loan EMI"
	BillCreditCard   BillCategory = "Credit Card"
	BillSubscription BillCategory = "Subscription"
	BillOther        BillCategory = "Other"
)

// DefaultGoalIcon is assigned when a goal is created without an icon.
const DefaultGoalIcon = "🎯"

// DefaultReminderDays is how many days before the due date a bill
// reminder fires when the user does not configure it.
const DefaultReminderDays = 3

type (
	ExpenseCategory string
	IncomeSource    string
	GoalCategory    string
	BillCategory    string

	// Expense is a single spending record owned by one user.
	Expense struct {
		ID          int64
		UserID      int64
		Amount      Money
		Category    ExpenseCategory
		Place       string
		Description string
		Date        time.Time
	}

	// Income is a single earning record owned by one user.
	Income struct {
		ID          int64
		UserID      int64
		Amount      Money
		Source      IncomeSource
		Description string
		Date        time.Time
	}

	// SavingsGoal tracks progress toward a target amount. IsCompleted is
	// set once CurrentAmount reaches TargetAmount and is never reset by
	// the system.
	SavingsGoal struct {
		ID            int64
		UserID        int64
		Title         string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      time.Time
		Category      GoalCategory
		Icon          string
		IsCompleted   bool
	}

	// BillReminder is a monthly bill anchored to a day of month.
	BillReminder struct {
		ID           int64
		UserID       int64
		Title        string
		Amount       Money
		Category     BillCategory
		DueDay       int // day of month, 1-31
		ReminderDays int
		IsRecurring  bool
		IsPaid       bool
		LastPaidDate time.Time // zero when never paid
		Notes        string
	}

	// User owns records and carries an optional per-category budget map.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
		Budget       map[ExpenseCategory]Money
	}
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnauthorized  = errors.New("not authorized")
	ErrUsernameTaken = errors.New("username already taken")

	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidSource   = errors.New("invalid income source")
	ErrInvalidDueDay   = errors.New("due day must be between 1 and 31")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyUsername   = errors.New("empty username")
	ErrInvalidDate     = errors.New("invalid date")
)

var expenseCategories = map[ExpenseCategory]struct{}{
	CategoryFood: {}, CategoryTravel: {}, CategoryShopping: {},
	CategoryEntertainment: {}, CategoryBills: {}, CategoryHealthcare: {},
	CategoryEducation: {}, CategoryOther: {},
}

var incomeSources = map[IncomeSource]struct{}{
	SourceSalary: {}, SourceFreelance: {}, SourceInvestment: {},
	SourceBusiness: {}, SourceGift: {}, SourceOther: {},
}

var goalCategories = map[GoalCategory]struct{}{
	GoalVacation: {}, GoalEmergency: {}, GoalCar: {}, GoalHouse: {},
	GoalEducation: {}, GoalWedding: {}, GoalGadget: {}, GoalOther: {},
}

var billCategories = map[BillCategory]struct{}{
	BillRent: {}, BillElectricity: {}, BillWater: {}, BillInternet: {},
	BillPhone: {}, BillInsurance: {}, BillLoanEMI: {}, BillCreditCard: {},
	BillSubscription: {}, BillOther: {},
}

// IsValid reports whether c is one of the known expense categories.
func (c ExpenseCategory) IsValid() bool {
	_, ok := expenseCategories[c]
	return ok
}

// IsValid reports whether s is one of the known income sources.
func (s IncomeSource) IsValid() bool {
	_, ok := incomeSources[s]
	return ok
}

// IsValid reports whether c is one of the known goal categories.
func (c GoalCategory) IsValid() bool {
	_, ok := goalCategories[c]
	return ok
}

// IsValid reports whether c is one of the known bill categories.
func (c BillCategory) IsValid() bool {
	_, ok := billCategories[c]
	return ok
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if !i.Source.IsValid() {
		return ErrInvalidSource
	}
	if len(i.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Category.IsValid() {
		return ErrInvalidCategory
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b BillReminder) Validate() error {
	if len(strings.TrimSpace(b.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if !b.Category.IsValid() {
		return ErrInvalidCategory
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if b.ReminderDays < 0 {
		return errors.New("reminder days cannot be negative")
	}
	return nil
}

func (u User) Validate() error {
	if len(strings.TrimSpace(u.Username)) == 0 {
		return ErrEmptyUsername
	}
	for cat, amt := range u.Budget {
		if !cat.IsValid() {
			return ErrInvalidCategory
		}
		if amt.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

// OwnedBy reports whether the record belongs to userID. Every mutating
// operation must check ownership before touching the record.
func (e Expense) OwnedBy(userID int64) bool { return e.UserID == userID }

func (i Income) OwnedBy(userID int64) bool { return i.UserID == userID }

func (g SavingsGoal) OwnedBy(userID int64) bool { return g.UserID == userID }

func (b BillReminder) OwnedBy(userID int64) bool { return b.UserID == userID }
