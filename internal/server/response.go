package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/san-kum/solarsim/internal/dynamo"
)

var errBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response write failed", "component", "server", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dynamo.ErrUnknownBody):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, dynamo.ErrInvalidBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err with the request context and sends it as JSON. This
// is the only place handler errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	l := logger.With("method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr, "status_code", status)
	if status >= http.StatusInternalServerError {
		l.Error("request failed", "error", err)
	} else {
		l.Debug("request rejected", "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}
