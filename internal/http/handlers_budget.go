package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kharcha/internal/core"
	"kharcha/internal/services"
)

type budgetPayload struct {
	Category     string `json:"category"`
	Year         int    `json:"year"`
	MonthlyLimit string `json:"monthly_limit"`
}

type budgetResponse struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	Year         int    `json:"year"`
	MonthlyLimit string `json:"monthly_limit"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:           b.ID,
		Category:     b.Category,
		Year:         b.Year,
		MonthlyLimit: b.MonthlyLimit.String(),
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var payload budgetPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	cents, err := core.ParseDecimalToCents(payload.MonthlyLimit)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	owner := ownerFrom(r.Context())
	created, err := s.budgets.Create(r.Context(), core.Budget{
		Owner:        owner,
		Category:     strings.TrimSpace(payload.Category),
		Year:         payload.Year,
		MonthlyLimit: core.Money{Cents: cents},
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetResponse(created))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year := 0
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: bad year %q", services.ErrValidation, v))
			return
		}
		year = n
	}

	budgets, err := s.budgets.List(r.Context(), ownerFrom(r.Context()), year)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, map[string]any{"budgets": out})
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var payload struct {
		MonthlyLimit string `json:"monthly_limit"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	cents, err := core.ParseDecimalToCents(payload.MonthlyLimit)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", services.ErrValidation, err))
		return
	}

	if err := s.budgets.UpdateLimit(r.Context(), ownerFrom(r.Context()), id, core.Money{Cents: cents}); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.budgets.Delete(r.Context(), ownerFrom(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type budgetAlertResponse struct {
	Category   string `json:"category"`
	Limit      string `json:"monthly_limit"`
	Spent      string `json:"spent"`
	Remaining  string `json:"remaining"`
	Percentage int    `json:"percentage"`
	Status     string `json:"status"`
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.budgets.Alerts(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, budgetAlertResponse{
			Category:   a.Category,
			Limit:      a.Limit.String(),
			Spent:      a.Spent.String(),
			Remaining:  a.Remaining.String(),
			Percentage: a.Percentage,
			Status:     string(a.Status),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"alerts": out})
}
