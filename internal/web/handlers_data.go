package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/web/views"
)

// handleIndex redirects to the first hosted table.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tables := s.service.Tables()
	if len(tables) == 0 {
		http.Error(w, "no tables configured", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/tables/"+tables[0].Key, http.StatusFound)
}

// handleGridPage renders a table as HTML.
func (s *Server) handleGridPage(w http.ResponseWriter, r *http.Request) {
	v, err := s.service.View(chi.URLParam(r, "tableKey"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := views.GridPage(s.service.Tables(), v).Render(r.Context(), &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Tables())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := s.service.View(chi.URLParam(r, "tableKey"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleExport downloads every row over the visible columns.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.service.Export(chi.URLParam(r, "tableKey"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// handleTemplate downloads a header-only CSV listing the import columns.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")

	var buf bytes.Buffer
	if err := s.service.Template(tableKey, &buf); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, tableKey))
	w.Write(buf.Bytes())
}

