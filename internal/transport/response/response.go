// Package response writes the JSON envelope shared by every API endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"convolens/internal/core/domain"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const failurePrefix = "Error during processing: "

// Envelope is the body of every API reply. Kind is set only when a pipeline
// failure carried one.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    domain.Kind `json:"kind,omitempty"`
	Data    any         `json:"data,omitempty"`
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, code int, env Envelope) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, message string, data any) error {
	return JSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

func Error(w http.ResponseWriter, code int, message string) error {
	return JSON(w, code, Envelope{Status: StatusError, Error: message})
}

func BadRequest(w http.ResponseWriter, message string) error {
	return Error(w, http.StatusBadRequest, message)
}

// Failure reports a pipeline error. The status code follows the error's kind.
func Failure(w http.ResponseWriter, err error) error {
	kind := domain.KindOf(err)
	return JSON(w, StatusFor(kind), Envelope{
		Status: StatusError,
		Error:  failurePrefix + err.Error(),
		Kind:   kind,
	})
}
