package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/airport-taxi/backend/internal/domain"
	"github.com/pkordes/airport-taxi/backend/internal/flow"
)

type errorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func errorBody(code, message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: message}}
}

// notFoundBody returns an errorResponse for a missing resource.
// The caller supplies the message because the handler is the layer that
// knows what was being looked up.
func notFoundBody(message string) errorResponse {
	return errorBody("not_found", message)
}

// validationBody lists every failing field.
func validationBody(fields domain.FieldErrors) errorResponse {
	return errorResponse{Error: errorDetail{
		Code:    "validation_error",
		Message: "one or more fields are invalid",
		Fields:  fields,
	}}
}

// requestBody is for a body rejected before reaching the service layer.
func requestBody(message string) errorResponse {
	return errorBody("validation_error", message)
}

// writeError maps a service error to its HTTP response. A guard redirect is
// not an error to the client: it becomes 303 See Other pointing at the step
// that owns the missing data.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		redirect *domain.RedirectError
		fields   domain.FieldErrors
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &redirect):
		writeRedirect(w, r, redirect.To)
	case errors.As(err, &fields):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(fields))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrPaymentDeclined):
		writeJSON(w, http.StatusPaymentRequired, errorBody("payment_declined", "the card was declined"))
	case errors.Is(err, domain.ErrPaymentTimeout):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("payment_timeout", "the payment did not complete in time"))
	case errors.Is(err, domain.ErrPaymentInProgress):
		writeJSON(w, http.StatusConflict, errorBody("payment_in_progress", "a payment for this booking is already being processed"))
	case errors.Is(err, flow.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorBody("invalid_transition", "this step cannot be performed now"))
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("body_too_large", "request body too large"))
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
