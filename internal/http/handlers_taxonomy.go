package http

import (
	"net/http"
	"strings"

	"kharcha/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.taxonomy.Categories(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}
	name := strings.TrimSpace(payload.Name)
	if err := s.taxonomy.CreateCategory(r.Context(), ownerFrom(r.Context()), name); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"name": name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.taxonomy.DeleteCategory(r.Context(), ownerFrom(r.Context()), name); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type payerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListPayers(w http.ResponseWriter, r *http.Request) {
	payers, err := s.taxonomy.Payers(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]payerResponse, 0, len(payers))
	for _, p := range payers {
		out = append(out, payerResponse{ID: p.ID, Name: p.Name})
	}
	respondJSON(w, http.StatusOK, map[string]any{"payers": out})
}

func (s *Server) handleCreatePayer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.taxonomy.CreatePayer(r.Context(), core.Payer{
		Owner: ownerFrom(r.Context()),
		Name:  strings.TrimSpace(payload.Name),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, payerResponse{ID: created.ID, Name: created.Name})
}

func (s *Server) handleDeletePayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.taxonomy.DeletePayer(r.Context(), ownerFrom(r.Context()), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
