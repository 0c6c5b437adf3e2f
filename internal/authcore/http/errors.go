package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopvn/authcore/internal/authcore/service"
	"github.com/shopvn/authcore/pkg/httpx"
	"github.com/shopvn/authcore/pkg/slogx"
)

// ErrorResponse is the uniform error body. Error carries the stable kind
// clients switch on; Field names the offending request field when known.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// writeError maps a service failure to the wire. Domain errors keep their
// own status and kind; anything else is a 500 with no internal detail.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if de, ok := service.AsDomainError(err); ok {
		httpx.WriteJSON(w, de.Status, ErrorResponse{
			Error:      de.Kind,
			Message:    de.Message,
			Field:      de.Field,
			StatusCode: de.Status,
		})
		return
	}

	slogx.FromContext(ctx).Error("request failed", "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:      "InternalServerError",
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
	})
}

// writeValidationError rejects a request before it reaches the services.
func writeValidationError(w http.ResponseWriter, field, message string) {
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:      "ValidationFailed",
		Message:    message,
		Field:      field,
		StatusCode: http.StatusUnprocessableEntity,
	})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      "InvalidRequest",
			Message:    "invalid JSON body",
			StatusCode: http.StatusBadRequest,
		})
		return false
	}
	return true
}
