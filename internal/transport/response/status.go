package response

import (
	"net/http"

	"convolens/internal/core/domain"
)

// StatusFor maps a failure kind to an HTTP status code. Errors without a
// kind are internal.
func StatusFor(kind domain.Kind) int {
	switch kind {
	case domain.ErrInvalidInput:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusUnprocessableEntity
	case domain.ErrDownload, domain.ErrService, domain.ErrProtocol, domain.ErrTranscription:
		return http.StatusBadGateway
	case domain.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
