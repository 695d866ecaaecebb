// Package gateway provides the outward responses of the admission pipeline.
package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/artpar/sportsgate/domain/ratelimit"
)

// ErrorResponse represents an error to return to client (value type).
// The body is always a JSON object with an "error" string; Fields adds
// supporting members next to it.
type ErrorResponse struct {
	Status  int
	Code    string // stable label for logs and metrics
	Message string
	Fields  map[string]any
	Headers map[string]string
}

// Error codes.
const (
	CodeMissingKey    = "missing_api_key"
	CodeInvalidKey    = "invalid_api_key"
	CodeQuotaExceeded = "quota_exceeded"
	CodeRateLimited   = "rate_limit_exceeded"
	CodeInternal      = "internal_error"
	CodeAdminAuth     = "admin_unauthorized"
	CodeBadRequest    = "bad_request"
	CodeNotFound      = "not_found"
)

// Common error responses
var (
	ErrMissingKey = ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    CodeMissingKey,
		Message: "API key required",
		Fields:  map[string]any{"hint": "Set x-api-key header"},
	}
	ErrInvalidKey = ErrorResponse{
		Status:  http.StatusForbidden,
		Code:    CodeInvalidKey,
		Message: "Invalid API key",
	}
	ErrAdminUnauthorized = ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    CodeAdminAuth,
		Message: "Admin token required",
	}
	ErrKeyNotFound = ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "API key not found",
	}
)

// Body returns the JSON object written to the client.
func (e ErrorResponse) Body() map[string]any {
	body := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

// Error implements error so a response can travel through error returns.
func (e ErrorResponse) Error() string {
	return e.Message
}

// BadRequest builds a 400 with the given message.
func BadRequest(msg string) ErrorResponse {
	return ErrorResponse{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: msg}
}

// UnsupportedPlan builds the 400 returned when a plan is not configured.
func UnsupportedPlan(supported []string) ErrorResponse {
	resp := BadRequest("Unsupported plan")
	resp.Fields = map[string]any{"supportedPlans": supported}
	return resp
}

// QuotaExceeded builds the monthly quota 429.
func QuotaExceeded(month string, requests, quota int64, plan string) ErrorResponse {
	return ErrorResponse{
		Status:  http.StatusTooManyRequests,
		Code:    CodeQuotaExceeded,
		Message: "Monthly quota exceeded",
		Fields: map[string]any{
			"month":    month,
			"requests": requests,
			"quota":    quota,
			"plan":     plan,
		},
	}
}

// RateLimited builds the per-minute 429 with its Retry-After header.
func RateLimited(limit int, retryAfter time.Duration) ErrorResponse {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return ErrorResponse{
		Status:  http.StatusTooManyRequests,
		Code:    CodeRateLimited,
		Message: "Rate limit exceeded",
		Fields: map[string]any{
			"limit":     limit,
			"resetInMs": retryAfter.Milliseconds(),
		},
		Headers: map[string]string{
			"Retry-After": strconv.Itoa(ratelimit.RetryAfterSeconds(retryAfter)),
		},
	}
}

// Internal builds the 500 returned when a payload cannot be built.
func Internal(details string) ErrorResponse {
	return ErrorResponse{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "Failed to build match payload",
		Fields:  map[string]any{"details": details},
	}
}
