package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

// upcomingWindowDays bounds GET /api/bill-reminders/upcoming: unpaid
// bills due within the next week, today included.
const upcomingWindowDays = 7

// dueSoon reports whether a bill anchored to dueDay falls inside the
// upcoming window given today's day of month. The plain difference is
// intentional: a due day already passed this month is overdue, not
// upcoming, so no month wrap applies here (the reminder worker wraps).
func dueSoon(dueDay, today int) bool {
	d := dueDay - today
	return d >= 0 && d <= upcomingWindowDays
}

type billRequest struct {
	Title        string            `json:"title"`
	Amount       core.Money        `json:"amount"`
	Category     core.BillCategory `json:"category"`
	DueDay       int               `json:"dueDay"`
	ReminderDays int               `json:"reminderDays"`
	IsRecurring  *bool             `json:"isRecurring"`
	Notes        string            `json:"notes"`
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	bills, err := s.store.ListBills(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	bills, err := s.store.ListBills(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	today := time.Now().Day()
	out := make([]billResponse, 0)
	for _, b := range bills {
		if b.IsPaid {
			continue
		}
		if dueSoon(b.DueDay, today) {
			out = append(out, toBillResponse(b))
		}
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	userID, err := requestUser(r)
	if err != nil {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	bill := core.BillReminder{
		UserID:       userID,
		Title:        sanitize(req.Title),
		Amount:       req.Amount,
		Category:     req.Category,
		DueDay:       req.DueDay,
		ReminderDays: req.ReminderDays,
		IsRecurring:  true,
		Notes:        sanitize(req.Notes),
	}
	if req.IsRecurring != nil {
		bill.IsRecurring = *req.IsRecurring
	}
	if bill.ReminderDays <= 0 {
		bill.ReminderDays = core.DefaultReminderDays
	}
	if err := bill.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.CreateBill(r.Context(), &bill); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toBillResponse(bill))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetBill(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	existing.Title = sanitize(req.Title)
	existing.Amount = req.Amount
	existing.Category = req.Category
	existing.DueDay = req.DueDay
	existing.Notes = sanitize(req.Notes)
	if req.ReminderDays > 0 {
		existing.ReminderDays = req.ReminderDays
	}
	if req.IsRecurring != nil {
		existing.IsRecurring = *req.IsRecurring
	}
	if err := existing.Validate(); err != nil {
		writeValidationError(w, r, err.Error())
		return
	}
	if err := s.store.UpdateBill(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBillResponse(existing))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
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

	existing, err := s.store.GetBill(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}
	if err := s.store.DeleteBill(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	s.setBillPaid(w, r, true)
}

func (s *Server) handleResetBill(w http.ResponseWriter, r *http.Request) {
	s.setBillPaid(w, r, false)
}

// setBillPaid flips the paid flag. Paying records the payment date;
// resetting keeps the previous one so payment history is not lost.
func (s *Server) setBillPaid(w http.ResponseWriter, r *http.Request, paid bool) {
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

	existing, err := s.store.GetBill(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !existing.OwnedBy(userID) {
		writeError(w, r, core.ErrUnauthorized)
		return
	}

	existing.IsPaid = paid
	if paid {
		existing.LastPaidDate = time.Now()
	}
	if err := s.store.UpdateBill(r.Context(), existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBillResponse(existing))
}
