package http

import (
	"net/http"

	"fintrack/internal/core"
)

type goalRequest struct {
	Title        string            `json:"title"`
	TargetAmount core.Money        `json:"targetAmount"`
	Deadline     string            `json:"deadline"`
	Category     core.GoalCategory `json:"category"`
	Icon         string            `json:"icon"`
}

type contributeRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	goals, err := s.store.ListGoals(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	deadline, err := parseDate(req.Deadline, zeroTime)
	if err != nil {
		writeValidationError(w, r, err.Error())
		return
	}

	goal := core.SavingsGoal{
		UserID:       userID,
		Title:        sanitize(req.Title),
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
		Category:     req.Category,
		Icon:         sanitize(req.Icon),
	}
	if goal.Icon == "" {
		goal.Icon = core.DefaultGoalIcon
	}
	if err := goal.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.CreateGoal(r.Context(), &goal); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	deadline, err := parseDate(req.Deadline, existing.Deadline)
	if err != nil {
		writeValidationError(w, r, err.Error())
		return
	}

	existing.Title = sanitize(req.Title)
	existing.TargetAmount = req.TargetAmount
	existing.Deadline = deadline
	existing.Category = req.Category
	if icon := sanitize(req.Icon); icon != "" {
		existing.Icon = icon
	}
	// Raising the target does not un-complete a goal; completion is sticky.
	if !existing.IsCompleted && existing.CurrentAmount.GTE(existing.TargetAmount) {
		existing.IsCompleted = true
	}
	if err := existing.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.UpdateGoal(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGoalResponse(existing))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetGoal(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req contributeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}
	if req.Amount.Cents <= 0 {
		writeValidationError(w, r, core.ErrInvalidAmount.Error())
		return
	}

	existing.CurrentAmount = existing.CurrentAmount.Add(req.Amount)
	if existing.CurrentAmount.GTE(existing.TargetAmount) {
		existing.IsCompleted = true
	}
	if err := s.store.UpdateGoal(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toGoalResponse(existing))
}
