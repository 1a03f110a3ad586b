package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type expenseRequest struct {
	Amount      core.Money           `json:"amount"`
	Category    core.ExpenseCategory `json:"category"`
	Place       string               `json:"place"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	date, err := parseDate(req.Date, time.Now())
	if err != nil {
		writeValidationError(w, r, err.Error())
		return
	}

	expense := core.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Place:       sanitize(req.Place),
		Description: sanitize(req.Description),
		Date:        date,
	}
	if err := expense.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.CreateExpense(r.Context(), &expense); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	existing, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	date, err := parseDate(req.Date, existing.Date)
	if err != nil {
		writeValidationError(w, r, err.Error())
		return
	}

	existing.Amount = req.Amount
	existing.Category = req.Category
	existing.Place = sanitize(req.Place)
	existing.Description = sanitize(req.Description)
	existing.Date = date
	if err := existing.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.UpdateExpense(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toExpenseResponse(existing))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	existing, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
