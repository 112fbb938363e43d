package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/brettbedarf/codecollab/requests"
	"github.com/brettbedarf/codecollab/share"
)

// APIResponse is the envelope for every JSON response
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func sendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger := util.GetLogger("Server.sendJSON")
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}

func sendError(w http.ResponseWriter, statusCode int, message string) {
	sendJSON(w, statusCode, APIResponse{Success: false, Message: message})
}

func sendSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	sendJSON(w, statusCode, APIResponse{Success: true, Message: message, Data: data})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, requests.ErrBadRequest),
		errors.Is(err, codecollab.ErrInvalidName),
		errors.Is(err, share.ErrInvalidSnippet):
		return http.StatusBadRequest
	case errors.Is(err, codecollab.ErrParentNotFound),
		errors.Is(err, codecollab.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, codecollab.ErrPathExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sendErr writes err with its mapped status. Server errors are logged and
// their details withheld from the client.
func sendErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger := util.GetLogger("Server")
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		sendError(w, status, "internal error")
		return
	}
	sendError(w, status, err.Error())
}
