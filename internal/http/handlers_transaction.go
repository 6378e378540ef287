package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

// transactionPayload is the wire form for creating and updating transactions.
// Amounts travel as decimal strings ("12.50"); dates as "YYYY-MM-DD".
type transactionPayload struct {
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	PaidBy        string `json:"paid_by"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
}

func (p transactionPayload) toTransaction(owner string) (core.Transaction, error) {
	date, err := core.ParseDate(strings.TrimSpace(p.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	cents, err := core.ParseDecimalToCents(p.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}
	return core.Transaction{
		Owner:         owner,
		Date:          date,
		Amount:        core.Money{Cents: cents},
		Type:          core.TransactionType(strings.TrimSpace(p.Type)),
		Category:      strings.TrimSpace(p.Category),
		PaymentMethod: core.PaymentMethod(strings.TrimSpace(p.PaymentMethod)),
		PaidBy:        strings.TrimSpace(p.PaidBy),
		Description:   strings.TrimSpace(p.Description),
		Notes:         strings.TrimSpace(p.Notes),
	}, nil
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	PaidBy        string `json:"paid_by"`
	Description   string `json:"description"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date.String(),
		Amount:        t.Amount.String(),
		AmountCents:   t.Amount.Cents,
		Type:          string(t.Type),
		Category:      t.Category,
		PaymentMethod: string(t.PaymentMethod),
		PaidBy:        t.PaidBy,
		Description:   t.Description,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var payload transactionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	owner := ownerFrom(r.Context())
	t, err := payload.toTransaction(owner)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateOwner(owner)
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := s.transactions.List(r.Context(), ownerFrom(r.Context()), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func parseTransactionFilter(r *http.Request) (storage.TransactionFilter, error) {
	q := r.URL.Query()
	var f storage.TransactionFilter

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		t := core.TransactionType(v)
		if !t.Valid() {
			return f, fmt.Errorf("%w: unknown type %q", services.ErrValidation, v)
		}
		f.Type = t
	}
	f.Category = strings.TrimSpace(q.Get("category"))
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("%w: bad from date %q", services.ErrValidation, v)
		}
		f.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return f, fmt.Errorf("%w: bad to date %q", services.ErrValidation, v)
		}
		f.To = d
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("%w: bad limit %q", services.ErrValidation, v)
		}
		f.Limit = n
	}
	return f, nil
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	t, err := s.transactions.Get(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var payload transactionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	owner := ownerFrom(r.Context())
	t, err := payload.toTransaction(owner)
	if err != nil {
		respondError(w, r, err)
		return
	}
	t.ID = id

	updated, err := s.transactions.Update(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateOwner(owner)
	respondJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	owner := ownerFrom(r.Context())
	if err := s.transactions.Delete(r.Context(), owner, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOwner(owner)
	w.WriteHeader(http.StatusNoContent)
}
