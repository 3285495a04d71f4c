// Package envelope builds the JSON envelopes every API response uses and owns
// the single point where a response body is written.
//
// Success:
//
//	{ "success": true, "data": ..., "message": "...", "meta": {...} }
//
// Error:
//
//	{
//	  "success": false,
//	  "message": "Invoice with identifier 'INV-1' not found",
//	  "error":   { "code": "INVOICE_NOT_FOUND", "type": "not_found_error" },
//	  "meta":    { "timestamp": "2025-01-01T00:00:00Z", "request_id": "..." }
//	}
//
// A Responder is attached to each gin request. It caches the request id on
// first read and refuses a second emission: in strict mode (non-production) a
// second call panics, otherwise it is dropped with a warning.
package envelope

import (
	"net/http"
	"time"
)

// Meta is attached to every envelope.
type Meta struct {
	Timestamp string `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	RequestID string `json:"request_id" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// SuccessEnvelope wraps a successful payload.
type SuccessEnvelope struct {
	Success bool   `json:"success" example:"true"`
	Data    any    `json:"data"`
	Message string `json:"message" example:"OK"`
	Meta    Meta   `json:"meta"`
}

// ErrorDetail is the machine-readable part of an error envelope.
type ErrorDetail struct {
	Code    string `json:"code" example:"INVOICE_NOT_FOUND"`
	Type    string `json:"type" example:"not_found_error"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

// ErrorEnvelope wraps a failed request.
type ErrorEnvelope struct {
	Success bool        `json:"success" example:"false"`
	Message string      `json:"message" example:"Invoice with identifier 'INV-1' not found"`
	Error   ErrorDetail `json:"error"`
	Meta    Meta        `json:"meta"`
}

// Error categories, keyed by HTTP status.
const (
	TypeBadRequest    = "bad_request"
	TypeAuth          = "auth_error"
	TypeAuthorization = "authorization_error"
	TypeNotFound      = "not_found_error"
	TypeMethod        = "method_error"
	TypeConflict      = "conflict_error"
	TypeValidation    = "validation_error"
	TypeRateLimit     = "rate_limit_error"
	TypeServer        = "server_error"
	TypeService       = "service_error"
)

var statusTypes = map[int]string{
	http.StatusBadRequest:          TypeBadRequest,
	http.StatusUnauthorized:        TypeAuth,
	http.StatusForbidden:           TypeAuthorization,
	http.StatusNotFound:            TypeNotFound,
	http.StatusMethodNotAllowed:    TypeMethod,
	http.StatusConflict:            TypeConflict,
	http.StatusUnprocessableEntity: TypeValidation,
	http.StatusTooManyRequests:     TypeRateLimit,
	http.StatusInternalServerError: TypeServer,
	http.StatusServiceUnavailable:  TypeService,
}

// TypeFor returns the error category for status. Statuses outside the table
// fall back by class: 5xx to server_error, anything else to bad_request.
func TypeFor(status int) string {
	if t, ok := statusTypes[status]; ok {
		return t
	}
	if status >= 500 {
		return TypeServer
	}
	return TypeBadRequest
}

// NewMeta stamps t (converted to UTC) and the request id.
func NewMeta(t time.Time, requestID string) Meta {
	return Meta{Timestamp: t.UTC().Format(time.RFC3339), RequestID: requestID}
}

// Success builds a success envelope.
func Success(data any, message string, meta Meta) SuccessEnvelope {
	if message == "" {
		message = "OK"
	}
	return SuccessEnvelope{Success: true, Data: data, Message: message, Meta: meta}
}

// Error builds an error envelope. An empty typ is derived from status.
func Error(status int, code, typ, message string, details any, meta Meta) ErrorEnvelope {
	if typ == "" {
		typ = TypeFor(status)
	}
	return ErrorEnvelope{
		Success: false,
		Message: message,
		Error:   ErrorDetail{Code: code, Type: typ, Details: details},
		Meta:    meta,
	}
}
