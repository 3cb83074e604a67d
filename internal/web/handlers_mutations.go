package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

func (s *Server) handleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.SetSearchTerm(req.Term) })
}

// handleSetSort sorts by a column. An empty column clears the sort.
func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column    string `json:"column"`
		Direction string `json:"direction"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) {
		g.SetSort(req.Column, grid.ParseSortDirection(req.Direction))
	})
}

func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.SetPage(req.Page) })
}

func (s *Server) handleToggleColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.ToggleVisibility(req.Key) })
}

// handleSetColumns replaces the visible set. Unknown keys are dropped.
func (s *Server) handleSetColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keys []string `json:"keys"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.SetVisibleColumns(req.Keys) })
}

func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.ReorderColumns(req.From, req.To) })
}

// handleDeleteRow removes a row. Deleting an unknown id is not an error.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(g *grid.Grid) { g.DeleteRow(id) })
}
