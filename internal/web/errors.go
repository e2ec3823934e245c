package web

// errors.go turns handler errors into JSON responses.
//
// Every error is logged with its technical text and the request id, then
// mapped through core.MapError so the client sees a stable message and a
// support code. The HTTP status comes from the error's kind.

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/scoreload/internal/core"
	"github.com/JonMunkholm/scoreload/internal/logging"
)

// errNoFile is returned when the multipart form has no "file" part.
var errNoFile = errors.New("no file provided")

// errBadBody is returned when a JSON body cannot be decoded.
var errBadBody = errors.New("invalid request body")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateStudent):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnsupportedFormat),
		errors.Is(err, core.ErrEmptyInput),
		errors.Is(err, core.ErrInvalidRow),
		errors.Is(err, core.ErrInvalidSort),
		errors.Is(err, errNoFile),
		errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrPersistenceValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// handleRateLimited is the httprate limit handler.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	msg := core.MapError(errors.New("rate limit exceeded"))
	logging.FromContext(r.Context()).Warn("rate limited", "path", r.URL.Path, "ip", r.RemoteAddr)
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
