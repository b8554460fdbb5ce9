package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimited    = "RATE_LIMIT_EXCEEDED"
	ErrCodePayloadLarge   = "REQUEST_TOO_LARGE"
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeInvalidWebhook = "INVALID_WEBHOOK"
)

// domainErrorHTTPStatus maps business error codes to HTTP status codes.
// Codes absent from the map fall back to 422: a well-formed request the
// business rules rejected.
var domainErrorHTTPStatus = map[string]int{
	// Auth
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"FORBIDDEN":           http.StatusForbidden,

	// Lookups
	"NOT_FOUND":          http.StatusNotFound,
	"ITEM_NOT_FOUND":     http.StatusNotFound,
	"LOCK_NOT_FOUND":     http.StatusNotFound,
	"PREVIEW_NOT_FOUND":  http.StatusNotFound,
	"DOCUMENT_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":       http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"DUPLICATE_SKU":        http.StatusConflict,
	"DUPLICATE_CODE":       http.StatusConflict,
	"DUPLICATE_NUMBER":     http.StatusConflict,
	"DUPLICATE_TIER":       http.StatusConflict,
	"DUPLICATE_CHECKOUT":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Malformed input that slipped past binding
	"INVALID_INPUT": http.StatusBadRequest,

	// Backing services
	"STORAGE_UNAVAILABLE":   http.StatusServiceUnavailable,
	"SEARCH_UNAVAILABLE":    http.StatusServiceUnavailable,
	"SCREENING_UNAVAILABLE": http.StatusServiceUnavailable,
	"ANALYTICS_UNAVAILABLE": http.StatusServiceUnavailable,

	// Rate limiting
	"RATE_LIMIT_EXCEEDED": http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for a business error code
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
