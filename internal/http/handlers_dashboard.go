package http

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/advisor"
	"fintrack/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	summary, err := s.composer.Compose(r.Context(), userID, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var (
		expenses []core.Expense
		incomes  []core.Income
		user     core.User
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListIncomes(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.store.GetUser(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}

	advisories := advisor.Evaluate(advisor.BuildContext(expenses, incomes, user.Budget, time.Now()))
	writeJSON(w, r, http.StatusOK, advisories)
}

type budgetResponse struct {
	Budget map[core.ExpenseCategory]core.Money `json:"budget"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	budget := user.Budget
	if budget == nil {
		budget = map[core.ExpenseCategory]core.Money{}
	}
	writeJSON(w, r, http.StatusOK, budgetResponse{Budget: budget})
}

func (s *Server) handlePutBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req budgetResponse
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	for cat, limit := range req.Budget {
		if !cat.IsValid() {
			writeValidationError(w, r, core.ErrInvalidCategory.Error())
			return
		}
		if limit.Cents < 0 {
			writeValidationError(w, r, core.ErrInvalidAmount.Error())
			return
		}
	}

	if err := s.store.UpdateUserBudget(r.Context(), userID, req.Budget); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, budgetResponse{Budget: req.Budget})
}
