package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

type incomeRequest struct {
	Amount      core.Money        `json:"amount"`
	Source      core.IncomeSource `json:"source"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	incomes, err := s.store.ListIncomes(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]incomeResponse, 0, len(incomes))
	for _, i := range incomes {
		out = append(out, toIncomeResponse(i))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	date, err := parseDate(req.Date, time.Now())
	if err != nil {
		writeValidationError(w, r, err.Error())
		return
	}

	income := core.Income{
		UserID:      userID,
		Amount:      req.Amount,
		Source:      req.Source,
		Description: sanitize(req.Description),
		Date:        date,
	}
	if err := income.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.CreateIncome(r.Context(), &income); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toIncomeResponse(income))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetIncome(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req incomeRequest
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
	existing.Source = req.Source
	existing.Description = sanitize(req.Description)
	existing.Date = date
	if err := existing.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.UpdateIncome(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toIncomeResponse(existing))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetIncome(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	if err := s.store.DeleteIncome(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
