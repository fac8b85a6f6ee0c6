package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeEmptyMetrics is used when a report config selects no metrics
	ErrCodeEmptyMetrics = "ERR_EMPTY_METRICS"
	// ErrCodeNoDataToExport is used when an export is requested for an empty chart
	ErrCodeNoDataToExport = "ERR_NO_DATA_TO_EXPORT"
	// ErrCodeNoChartToExport is used when the render surface produced nothing
	ErrCodeNoChartToExport = "ERR_NO_CHART_TO_EXPORT"
)

// Pipeline error codes
const (
	// ErrCodeStaleResponse is used when a report result arrived after the config changed
	ErrCodeStaleResponse = "ERR_STALE_RESPONSE"
	// ErrCodeRendererUnavailable is used when PNG export is requested without a renderer
	ErrCodeRendererUnavailable = "ERR_RENDERER_UNAVAILABLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:    http.StatusUnprocessableEntity,
	ErrCodeEmptyMetrics:    http.StatusUnprocessableEntity,
	ErrCodeNoDataToExport:  http.StatusUnprocessableEntity,
	ErrCodeNoChartToExport: http.StatusUnprocessableEntity,

	// Pipeline errors
	ErrCodeStaleResponse:       http.StatusConflict,
	ErrCodeRendererUnavailable: http.StatusServiceUnavailable,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized codes
// used on the wire
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"EMPTY_METRICS":           ErrCodeEmptyMetrics,
	"NO_DATA_TO_EXPORT":       ErrCodeNoDataToExport,
	"NO_CHART_TO_EXPORT":      ErrCodeNoChartToExport,
	"STALE_RESPONSE":          ErrCodeStaleResponse,
	"RENDERER_UNAVAILABLE":    ErrCodeRendererUnavailable,
	"UNKNOWN_CHART_KIND":      ErrCodeInvalidInput,
	"UNKNOWN_DATE_RANGE":      ErrCodeInvalidInput,
	"DATASET_LENGTH_MISMATCH": ErrCodeInternal,
	"REPORT_NOT_PENDING":      ErrCodeInvalidState,
	"REPORT_NOT_GENERATING":   ErrCodeInvalidState,

	// Dashboard
	"WIDGET_NOT_FOUND":    ErrCodeNotFound,
	"INVALID_WIDGET_SIZE": ErrCodeInvalidInput,

	// Program management
	"PROGRAM_NAME_REQUIRED":    ErrCodeValidationRequired,
	"MILESTONE_TITLE_REQUIRED": ErrCodeValidationRequired,
	"RISK_TITLE_REQUIRED":      ErrCodeValidationRequired,
	"NEGATIVE_BUDGET":          ErrCodeValidationRange,
	"COMPLETION_OUT_OF_RANGE":  ErrCodeValidationRange,
	"INVALID_RISK_SEVERITY":    ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
