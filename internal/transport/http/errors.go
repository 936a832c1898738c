package http

import (
	"encoding/json"
	"net/http"

	"github.com/sivavinoth/event-mange-api/internal/validation"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMalformedInput       = "malformed_input"
	codeInvalidDomainValue   = "invalid_domain_value"
	codeInvalidTemporalRange = "invalid_temporal_range"
	codeEventNotFound        = "event_not_found"
	codeCategoryNotFound     = "ticket_category_not_found"
	codeEventInPast          = "event_in_past"
	codeCapacityExceeded     = "capacity_exceeded"
	codeDuplicateBooking     = "duplicate_booking"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeValidationError maps a validation failure kind to its error code.
// Every kind is a caller mistake, so the status is always 400.
func writeValidationError(w http.ResponseWriter, verrs validation.Errors) {
	code := codeMalformedInput
	switch verrs.Kind() {
	case validation.KindDomain:
		code = codeInvalidDomainValue
	case validation.KindTemporal:
		code = codeInvalidTemporalRange
	}
	writeError(w, http.StatusBadRequest, code, verrs.Error())
}
