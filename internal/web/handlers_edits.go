package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
)

func (s *Server) handleStartEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(g *grid.Grid) { g.StartEditing(id) })
}

// handleUpdateDraft sets one field of a row's draft. Values keep their JSON
// type; they are converted to the column type on save.
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(g *grid.Grid) { g.UpdateDraftField(id, req.Field, req.Value) })
}

func (s *Server) handleSaveEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(g *grid.Grid) { g.SaveEditing(id) })
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mutate(w, r, func(g *grid.Grid) { g.CancelEditing(id) })
}

func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(g *grid.Grid) {
		if n := g.SaveAll(); n > 0 {
			logging.FromContext(r.Context()).Info("edits saved", "table", g.Info().Key, "rows", n)
		}
	})
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(g *grid.Grid) { g.CancelAll() })
}
