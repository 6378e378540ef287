package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kharcha/internal/core"
	"kharcha/internal/services"
)

const maxTrendMonths = 36

type summaryStatsResponse struct {
	TotalExpense        string `json:"total_expense"`
	TotalIncome         string `json:"total_income"`
	Balance             string `json:"balance"`
	CurrentMonthExpense string `json:"current_month_expense"`
	TransactionCount    int64  `json:"transaction_count"`
}

func (s *Server) handleSummaryStats(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())
	key := s.cacheKey(owner, "stats")

	stats, cached := s.statsCache.Get(key)
	if !cached {
		var err error
		stats, err = s.reports.SummaryStats(r.Context(), owner)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.statsCache.Set(key, stats)
	}

	respondJSON(w, http.StatusOK, summaryStatsResponse{
		TotalExpense:        stats.TotalExpense.String(),
		TotalIncome:         stats.TotalIncome.String(),
		Balance:             stats.Balance.String(),
		CurrentMonthExpense: stats.CurrentMonthExpense.String(),
		TransactionCount:    stats.TransactionCount,
	})
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Cents    int64  `json:"total_cents"`
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	var month core.Month
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := core.ParseMonth(v)
		if err != nil {
			respondError(w, r, fmt.Errorf("%w: bad month %q", services.ErrValidation, v))
			return
		}
		month = m
	}

	key := s.cacheKey(owner, "by-category|"+string(month))
	rows, cached := s.categoryCache.Get(key)
	if !cached {
		var err error
		rows, err = s.reports.ByCategory(r.Context(), owner, month)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.categoryCache.Set(key, rows)
	}

	out := make([]categoryTotalResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryTotalResponse{
			Category: row.Category,
			Total:    row.Total.String(),
			Cents:    row.Total.Cents,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"by_category": out})
}

type monthlyTotalResponse struct {
	Month   string `json:"month"`
	Expense string `json:"expense"`
	Income  string `json:"income"`
}

func (s *Server) handleMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	owner := ownerFrom(r.Context())

	months := services.DefaultTrendMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxTrendMonths {
			respondError(w, r, fmt.Errorf("%w: months must be 1-%d", services.ErrValidation, maxTrendMonths))
			return
		}
		months = n
	}

	key := s.cacheKey(owner, "trend|"+strconv.Itoa(months))
	series, cached := s.trendCache.Get(key)
	if !cached {
		var err error
		series, err = s.reports.MonthlyTrend(r.Context(), owner, months)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.trendCache.Set(key, series)
	}

	out := make([]monthlyTotalResponse, 0, len(series))
	for _, p := range series {
		out = append(out, monthlyTotalResponse{
			Month:   string(p.Month),
			Expense: p.Expense.String(),
			Income:  p.Income.String(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"monthly_trend": out})
}
