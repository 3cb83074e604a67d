package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// multipartOverhead is the room left for form boundaries and headers on top
// of the file size limit.
const multipartOverhead = 1 << 20

// ImportResponse is returned by the import endpoint.
type ImportResponse struct {
	Result grid.ImportResult `json:"result"`
	View   grid.View         `json:"view"`
}

// handleImport imports the multipart "file" field into the table.
//
// A file that cannot be parsed is still answered with the recorded result
// (one error on row 1) so clients can show it like any other import.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	tableKey := chi.URLParam(r, "tableKey")
	if !s.service.HasTable(tableKey) {
		s.fail(w, r, grid.ErrUnknownTable)
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, grid.ErrFileTooLarge)
			return
		}
		s.fail(w, r, grid.ErrNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, grid.ErrNoFile)
		return
	}
	defer file.Close()

	result, err := s.service.Import(r.Context(), tableKey, header.Filename, header.Header.Get("Content-Type"), file)

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		if status != http.StatusUnprocessableEntity {
			s.respondError(w, r, err, status)
			return
		}
	}

	v, verr := s.service.View(tableKey)
	if verr != nil {
		s.fail(w, r, verr)
		return
	}
	writeJSON(w, status, ImportResponse{Result: result, View: v})
}

// handleClearImport dismisses the last import result.
func (s *Server) handleClearImport(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(g *grid.Grid) { g.ClearImportResult() })
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportLimiter().Status())
}
