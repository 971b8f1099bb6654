package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teamboard/api/internal/apperr"
	"github.com/teamboard/api/internal/repository"
)

// Envelope is the uniform response shape. Exactly one of Data and Errors is
// non-null: Errors is null on success, Data is null on failure.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Errors  any    `json:"errors"`
}

const defaultSuccessMessage = "operation successful"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess wraps payload into the success envelope. A payload that
// already carries a success key passes through unchanged; otherwise an
// optional message key is lifted out and the remainder becomes data.
func writeSuccess(w http.ResponseWriter, status int, payload any) {
	if m, ok := payload.(map[string]any); ok {
		if _, has := m["success"]; has {
			writeJSON(w, status, m)
			return
		}
		message := defaultSuccessMessage
		if raw, has := m["message"]; has {
			if s, ok := raw.(string); ok && s != "" {
				message = s
			}
			rest := make(map[string]any, len(m))
			for k, v := range m {
				if k != "message" {
					rest[k] = v
				}
			}
			m = rest
		}
		writeJSON(w, status, Envelope{Success: true, Message: message, Data: m})
		return
	}
	writeJSON(w, status, Envelope{Success: true, Message: defaultSuccessMessage, Data: payload})
}

// writeFailure classifies err into the failure envelope. Structured
// *apperr.Error conditions keep their status, message and detail; a bare
// repository.ErrNotFound becomes a 404. Anything else is unclassified: it
// is logged with the handler identity and hidden behind a generic message.
func (r *Router) writeFailure(w http.ResponseWriter, handler string, err error) {
	var app *apperr.Error
	if errors.As(err, &app) {
		message := app.Message
		if message == "" {
			message = defaultFailureMessage(app.Status)
		}
		writeJSON(w, app.Status, Envelope{Success: false, Message: message, Errors: app.Details})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: defaultFailureMessage(http.StatusNotFound)})
		return
	}
	r.logger.Error("unhandled error", "handler", handler, "error", err)
	writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: "unexpected error"})
}

func defaultFailureMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "submitted data is invalid"
	case http.StatusUnauthorized:
		return "login required"
	case http.StatusForbidden:
		return "not authorized"
	case http.StatusNotFound:
		return "resource not found"
	}
	return "operation failed"
}
