package http

import (
	"fmt"
	"net/http"
	"strings"

	"kharcha/internal/core"
	"kharcha/internal/services"
)

type reminderPayload struct {
	Name          string `json:"name"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaidBy        string `json:"paid_by"`
	PaymentMethod string `json:"payment_method"`
	StartMonth    string `json:"start_month"`
	EndMonth      string `json:"end_month"`
	Active        *bool  `json:"active"`
}

func (p reminderPayload) toReminder(owner string) (core.Reminder, error) {
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	start, err := core.ParseMonth(strings.TrimSpace(p.StartMonth))
	if err != nil {
		return core.Reminder{}, fmt.Errorf("%w: bad start_month %q", services.ErrValidation, p.StartMonth)
	}
	end, err := core.ParseMonth(strings.TrimSpace(p.EndMonth))
	if err != nil {
		return core.Reminder{}, fmt.Errorf("%w: bad end_month %q", services.ErrValidation, p.EndMonth)
	}

	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return core.Reminder{
		Owner:         owner,
		Name:          strings.TrimSpace(p.Name),
		Amount:        core.Money{Cents: cents},
		Category:      strings.TrimSpace(p.Category),
		PaidBy:        strings.TrimSpace(p.PaidBy),
		PaymentMethod: core.PaymentMethod(strings.TrimSpace(p.PaymentMethod)),
		StartMonth:    start,
		EndMonth:      end,
		Active:        active,
	}, nil
}

type reminderResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaidBy        string `json:"paid_by"`
	PaymentMethod string `json:"payment_method"`
	StartMonth    string `json:"start_month"`
	EndMonth      string `json:"end_month"`
	Active        bool   `json:"active"`
	LastExecuted  string `json:"last_executed,omitempty"`
	State         string `json:"state,omitempty"`
}

func toReminderResponse(rem core.Reminder, state core.ReminderState) reminderResponse {
	return reminderResponse{
		ID:            rem.ID,
		Name:          rem.Name,
		Amount:        rem.Amount.String(),
		Category:      rem.Category,
		PaidBy:        rem.PaidBy,
		PaymentMethod: string(rem.PaymentMethod),
		StartMonth:    string(rem.StartMonth),
		EndMonth:      string(rem.EndMonth),
		Active:        rem.Active,
		LastExecuted:  string(rem.LastExecuted),
		State:         string(state),
	}
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var payload reminderPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	rem, err := payload.toReminder(ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.reminders.Create(r.Context(), rem)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReminderResponse(created, ""))
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	items, err := s.reminders.List(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reminders": toReminderResponses(items)})
}

// handleActiveReminders returns only the pending set: the "confirm this
// month's payments" checklist.
func (s *Server) handleActiveReminders(w http.ResponseWriter, r *http.Request) {
	items, err := s.reminders.Active(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reminders": toReminderResponses(items)})
}

func toReminderResponses(items []services.ReminderWithState) []reminderResponse {
	out := make([]reminderResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toReminderResponse(item.Reminder, item.State))
	}
	return out
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	item, err := s.reminders.Get(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toReminderResponse(item.Reminder, item.State))
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var payload reminderPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	rem, err := payload.toReminder(ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	rem.ID = id

	if err := s.reminders.Update(r.Context(), rem); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.reminders.Delete(r.Context(), ownerFrom(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExecuteReminder confirms this month's payment: it atomically creates
// the expense transaction and stamps the reminder. Re-confirming in the same
// month is a 409.
func (s *Server) handleExecuteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	owner := ownerFrom(r.Context())

	created, err := s.reminders.Execute(r.Context(), owner, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateOwner(owner)
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}
