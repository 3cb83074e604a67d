package web

// errors.go maps errors to responses. Technical details are logged with the
// request id; clients get the mapped user message and its support code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// errInvalidRequest marks a malformed request body.
var errInvalidRequest = errors.New("invalid request body")

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing message, as JSON for API
// routes and plain text otherwise.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := grid.MapError(err)

	slog.Log(r.Context(), errorLogLevel(err, statusCode), "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if statusCode == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	http.Error(w, userMsg.Message+" ("+userMsg.Code+")", statusCode)
}

// errorLogLevel logs mapped client errors at warn. Anything unmapped or
// answered with a 5xx is logged at error.
func errorLogLevel(err error, statusCode int) slog.Level {
	if statusCode < http.StatusInternalServerError && grid.IsUserFacing(err) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// fail responds with the status that fits err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, statusFor(err))
}

func statusFor(err error) int {
	var parseErr *grid.ParseError
	switch {
	case errors.Is(err, grid.ErrUnknownTable):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, grid.ErrNotCSV):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, grid.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, grid.ErrNoFile), errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, grid.ErrEmptyFile), errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondErrorJSON(w http.ResponseWriter, msg grid.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
